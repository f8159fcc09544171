package ficha

import (
	"ficha-service/internal/domain"
)

// PivotDates transforma as colunas JAN..DEZ em registros datados
// ("JAN/2021"). Valores zerados, vazios ou ilegíveis não geram registro.
func PivotDates(rows domain.Ledger) []domain.DatedRecord {
	var records []domain.DatedRecord
	for _, row := range rows {
		for i, mes := range domain.Meses {
			valor := ParseAmount(row.Months[i])
			if valor.IsZero() {
				continue
			}
			data := mes
			if isFourDigitYear(row.Ano) {
				data = mes + "/" + row.Ano
			}
			records = append(records, domain.DatedRecord{
				Data:          data,
				Discriminacao: row.Discriminacao,
				Valor:         valor,
			})
		}
	}
	return records
}
