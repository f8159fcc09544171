package ficha

import (
	"strconv"

	"ficha-service/internal/domain"
)

// LedgerTable converte o extrato consolidado na tabela de colunas fixas
// PÁGINA, TIPO, DISCRIMINAÇÃO, JAN..DEZ, ANO.
func LedgerTable(ledger domain.Ledger) domain.Table {
	table := domain.Table{
		Columns: append([]string(nil), domain.LedgerColumns...),
		Rows:    make([]domain.TableRow, 0, len(ledger)),
	}
	for _, row := range ledger {
		vals := make([]string, 0, len(domain.LedgerColumns))
		vals = append(vals, strconv.Itoa(row.Page), row.Tipo, row.Discriminacao)
		vals = append(vals, row.Months[:]...)
		vals = append(vals, row.Ano)
		table.Rows = append(table.Rows, domain.TableRow{Values: vals})
	}
	return table
}

// DatedTable monta a tabela DATAS, DISCRIMINAÇÃO, <valueColumn> com os valores
// formatados no padrão brasileiro.
func DatedTable(records []domain.DatedRecord, valueColumn string) domain.Table {
	if valueColumn == "" {
		valueColumn = domain.ColValor
	}
	table := domain.Table{
		Columns: []string{domain.ColDatas, domain.ColDiscriminacao, valueColumn},
		Rows:    make([]domain.TableRow, 0, len(records)),
	}
	for _, r := range records {
		table.Rows = append(table.Rows, domain.TableRow{
			Values: []string{r.Data, r.Discriminacao, FormatAmount(r.Valor)},
		})
	}
	return table
}
