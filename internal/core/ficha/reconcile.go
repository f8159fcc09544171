package ficha

import (
	"fmt"

	"ficha-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Rótulos das linhas de totais.
const (
	LabelTotalA          = "A = Valor Total (R$)"
	LabelRecebidoB       = "B = Valor Recebido - Autor (a)"
	LabelIndebito        = "Indébito (A-B)"
	LabelIndebitoEmDobro = "Indébito em dobro (R$)"
)

// SpecialLabels são as discriminações das linhas de totais, na ordem em que
// são acrescentadas.
var SpecialLabels = []string{LabelTotalA, LabelRecebidoB, LabelIndebito, LabelIndebitoEmDobro}

var two = decimal.NewFromInt(2)

// Compute calcula A (soma dos valores), B, o indébito e o indébito em dobro.
func Compute(values []string, b string) domain.Reconciliation {
	a := decimal.Zero
	for _, v := range values {
		a = a.Add(ParseAmount(v))
	}
	bVal := ParseAmount(b)
	indebito := a.Sub(bVal)
	return domain.Reconciliation{
		A:               a,
		B:               bVal,
		Indebito:        indebito,
		IndebitoEmDobro: indebito.Mul(two),
	}
}

// Reconcile soma a coluna de valores e acrescenta ao fim da tabela as linhas
// A, B, Indébito e Indébito em dobro. As demais colunas dessas linhas ficam
// em branco. A tabela recebida não é alterada.
func Reconcile(table domain.Table, valueColumn, b string) (domain.Table, domain.Reconciliation, error) {
	valueIdx := table.ColumnIndex(valueColumn)
	if valueIdx < 0 {
		return table, domain.Reconciliation{}, fmt.Errorf("%w: %s", ErrColumnNotFound, valueColumn)
	}
	descIdx := table.ColumnIndex(domain.ColDiscriminacao)
	if descIdx < 0 {
		return table, domain.Reconciliation{}, fmt.Errorf("%w: %s", ErrColumnNotFound, domain.ColDiscriminacao)
	}

	values := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		if valueIdx < len(row.Values) {
			values = append(values, row.Values[valueIdx])
		}
	}
	rec := Compute(values, b)

	out := domain.Table{
		Columns: append([]string(nil), table.Columns...),
		Rows:    make([]domain.TableRow, 0, len(table.Rows)+len(SpecialLabels)),
	}
	out.Rows = append(out.Rows, table.Rows...)

	amounts := []decimal.Decimal{rec.A, rec.B, rec.Indebito, rec.IndebitoEmDobro}
	for i, label := range SpecialLabels {
		vals := make([]string, len(out.Columns))
		vals[descIdx] = label
		vals[valueIdx] = FormatAmount(amounts[i])
		out.Rows = append(out.Rows, domain.TableRow{Values: vals, Special: true})
	}
	return out, rec, nil
}
