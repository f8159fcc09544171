package ficha

import (
	"testing"

	"ficha-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var oddHeader = []string{"TIPO", "DISCRIMINAÇÃO", "JAN", "FEV", "MAR", "ABR", "MAI", "JUN"}
var evenHeader = []string{"TIPO", "DISCRIMINAÇÃO", "JUL", "AGO", "SET", "OUT", "NOV", "DEZ"}

func TestHeaderRulesFor(t *testing.T) {
	odd := headerRulesFor(1)
	require.Len(t, odd, 8)
	assert.Equal(t, headerRule{Pattern: "TIPO", Column: domain.ColTipo}, odd[0])
	assert.Equal(t, headerRule{Pattern: "DISCRIMIN", Column: domain.ColDiscriminacao}, odd[1])
	assert.Equal(t, "JAN", odd[2].Column)
	assert.Equal(t, "JUN", odd[7].Column)

	even := headerRulesFor(2)
	require.Len(t, even, 8)
	assert.Equal(t, "JUL", even[2].Column)
	assert.Equal(t, "DEZ", even[7].Column)
}

func TestMapHeader(t *testing.T) {
	mapping := mapHeader([]string{"COD", "TIPO X", "Discriminação", "TIPO", "JAN", "JUL"}, headerRulesFor(1))

	assert.Equal(t, 1, mapping[domain.ColTipo], "leftmost header wins")
	assert.Equal(t, 2, mapping[domain.ColDiscriminacao])
	assert.Equal(t, 4, mapping["JAN"])
	_, hasJul := mapping["JUL"]
	assert.False(t, hasJul, "off-parity month is not mapped")
	assert.Len(t, mapping, 3)
}

func TestNormalizeTables(t *testing.T) {
	tables := []domain.RawTable{
		{Page: 1, Cells: [][]string{
			{"ANO REFERÊNCIA 2021"},
			append(append([]string{}, oddHeader...), "JUL"),
			{"RENDIMENTOS", "VENC BASICO", "1.000,00", "1.000,00", "", "", "", "", "999"},
			{" ", "GRAT", "100,00"},
			{"DESCONTOS", "IRRF", "50,00", "", "", "", "", "60,00"},
			{"TOTAL BRUTO", "", "1.150,00"},
			{"DESCONTOS", "APÓS O TOTAL", "1,00"},
		}},
		{Page: 2, Cells: [][]string{
			evenHeader,
			{"DESCONTOS", "IRRF", "", "70,00", "", "", "", ""},
			{"TOTAL BRUTO"},
		}},
		{Page: 3, Cells: [][]string{
			oddHeader,
			{"DESCONTOS", "SEM TOTAL", "1,00"},
		}},
	}
	years := domain.YearMap{1: "2021"}

	ledger, err := NormalizeTables(tables, years)
	require.NoError(t, err)
	require.Len(t, ledger, 4)

	first := ledger[0]
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, "RENDIMENTOS", first.Tipo)
	assert.Equal(t, "VENC BASICO", first.Discriminacao)
	assert.Equal(t, "1.000,00", first.Months[0])
	assert.Equal(t, "1.000,00", first.Months[1])
	assert.Equal(t, "", first.Months[6], "off-parity month stays blank")
	assert.Equal(t, "2021", first.Ano)

	padded := ledger[1]
	assert.Equal(t, "", padded.Tipo)
	assert.Equal(t, "GRAT", padded.Discriminacao)
	assert.Equal(t, "100,00", padded.Months[0])
	assert.Equal(t, "", padded.Months[5])

	assert.Equal(t, "60,00", ledger[2].Months[5])

	even := ledger[3]
	assert.Equal(t, 2, even.Page)
	assert.Equal(t, "70,00", even.Months[7])
	for i := 0; i < 6; i++ {
		assert.Empty(t, even.Months[i])
	}
	assert.Equal(t, "", even.Ano, "page without year gets blank ANO")
}

func TestNormalizeTablesSkipsInvalidPages(t *testing.T) {
	tables := []domain.RawTable{
		{Page: 1, Cells: [][]string{{"TOTAL BRUTO"}, oddHeader, {"DESCONTOS", "IRRF", "1,00"}}},
		{Page: 2, Cells: [][]string{{"TIPO TOTAL BRUTO"}}},
	}

	ledger, skipped := normalizeTables(tables, nil)
	assert.Empty(t, ledger)
	assert.Equal(t, []int{1, 2}, skipped)

	_, err := NormalizeTables(tables, nil)
	assert.ErrorIs(t, err, ErrNoTables)

	_, err = NormalizeTables(nil, nil)
	assert.ErrorIs(t, err, ErrNoTables)
}
