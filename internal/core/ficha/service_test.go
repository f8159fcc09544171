package ficha

import (
	"context"
	"errors"
	"testing"

	"ficha-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExtractor struct {
	tables   []domain.RawTable
	text     string
	tableErr error
	textErr  error
}

func (f *fakeExtractor) Tables(context.Context, []byte) ([]domain.RawTable, error) {
	return f.tables, f.tableErr
}

func (f *fakeExtractor) Text(context.Context, []byte) (string, error) {
	return f.text, f.textErr
}

func fichaFixture() *fakeExtractor {
	return &fakeExtractor{
		text: "NOME DO SERVIDOR\nMARIA SILVA 111.222.333-44\n" + PageBreak + "continuação",
		tables: []domain.RawTable{
			{Page: 1, Cells: [][]string{
				{"ANO REFERÊNCIA 2021"},
				oddHeader,
				{"DESCONTOS", "IRRF", "100,00"},
				{"", "PSS", "50,00"},
				{"RENDIMENTOS", "VENC BASICO", "5.000,00"},
				{"TOTAL BRUTO"},
			}},
			{Page: 2, Cells: [][]string{
				{"ANO REFERÊNCIA 2021"},
				evenHeader,
				{"DESCONTOS", "IRRF", "", "", "", "", "", "25,00"},
				{"TOTAL BRUTO"},
			}},
		},
	}
}

func TestServiceConsolidate(t *testing.T) {
	svc := NewService(fichaFixture(), "", zap.NewNop())

	result, err := svc.Consolidate(context.Background(), []byte("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, "MARIA SILVA", result.Servidor.Nome)
	assert.Equal(t, "111.222.333-44", result.Servidor.CPF)
	assert.Equal(t, domain.YearMap{1: "2021", 2: "2021"}, result.Anos)

	require.Len(t, result.Ledger, 4)
	assert.Equal(t, "DESCONTOS", result.Ledger[1].Tipo, "blank TIPO is forward-filled")
	assert.Equal(t, domain.LedgerColumns, result.Table.Columns)
	assert.Len(t, result.Table.Rows, 4)
}

func TestServiceConsolidateTextFailureIsSoft(t *testing.T) {
	ext := fichaFixture()
	ext.textErr = errors.New("sem texto")

	result, err := NewService(ext, "", nil).Consolidate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, NotAvailable, result.Servidor.Nome)
	assert.Equal(t, NotAvailable, result.Servidor.Matricula)
}

func TestServiceConsolidateNoTables(t *testing.T) {
	tests := []struct {
		name string
		ext  *fakeExtractor
	}{
		{"extractor error", &fakeExtractor{tableErr: errors.New("PDF inválido")}},
		{"no pages", &fakeExtractor{}},
		{"no usable page", &fakeExtractor{tables: []domain.RawTable{{Page: 1, Cells: [][]string{{"capa"}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.ext, "", nil).Consolidate(context.Background(), nil)
			assert.ErrorIs(t, err, ErrNoTables)
		})
	}
}

func TestServiceAnalyzeDescontos(t *testing.T) {
	svc := NewService(fichaFixture(), DefaultYearMarker, zap.NewNop())

	result, err := svc.AnalyzeDescontos(context.Background(), nil, DescontosRequest{
		Glossary:      []string{"IRRF", "PSS"},
		Threshold:     DefaultThreshold,
		ValorRecebido: "30.00",
	})
	require.NoError(t, err)

	require.Len(t, result.Registros, 3)
	assert.Equal(t, "JAN/2021", result.Registros[0].Data)
	assert.Equal(t, "IRRF", result.Registros[0].Discriminacao)
	assert.Equal(t, "JAN/2021", result.Registros[1].Data)
	assert.Equal(t, "PSS", result.Registros[1].Discriminacao)
	assert.Equal(t, "DEZ/2021", result.Registros[2].Data)

	assert.Equal(t, []domain.DescriptionCount{
		{Discriminacao: "IRRF", Ocorrencias: 2},
		{Discriminacao: "PSS", Ocorrencias: 1},
	}, result.Disponiveis)

	assert.Equal(t, "175", result.Reconciliation.A.String())
	assert.Equal(t, "145", result.Reconciliation.Indebito.String())
	assert.Equal(t, "290", result.Reconciliation.IndebitoEmDobro.String())

	assert.Equal(t, []string{domain.ColDatas, domain.ColDiscriminacao, domain.ColDescontos}, result.Final.Columns)
	require.Len(t, result.Final.Rows, 7)
	assert.Equal(t, "290,00", result.Final.Rows[6].Values[2])
	assert.Equal(t, "MARIA SILVA", result.Servidor.Nome)
}

func TestServiceAnalyzeDescontosSelection(t *testing.T) {
	svc := NewService(fichaFixture(), "", nil)

	result, err := svc.AnalyzeDescontos(context.Background(), nil, DescontosRequest{
		Glossary:     []string{"IRRF", "PSS"},
		Threshold:    DefaultThreshold,
		Selecionados: []string{"IRRF"},
	})
	require.NoError(t, err)

	assert.Len(t, result.Registros, 2)
	assert.Equal(t, "125", result.Reconciliation.A.String())
	assert.True(t, result.Reconciliation.B.IsZero())
	assert.Len(t, result.Disponiveis, 2, "available list ignores the selection")
}

func TestServiceAnalyzeDescontosEmptyGlossary(t *testing.T) {
	result, err := NewService(fichaFixture(), "", nil).AnalyzeDescontos(context.Background(), nil, DescontosRequest{
		Threshold:     DefaultThreshold,
		ValorRecebido: "10,00",
	})
	require.NoError(t, err)

	assert.Empty(t, result.Registros)
	assert.Empty(t, result.Matches)
	require.Len(t, result.Final.Rows, 4)
	assert.Equal(t, "-10", result.Reconciliation.Indebito.String())
}

func TestServiceTwoPageScenario(t *testing.T) {
	ext := &fakeExtractor{tables: []domain.RawTable{
		{Page: 1, Cells: [][]string{
			oddHeader,
			{"DESCONTOS", "IRRF", "100,00", "", "", "", "", ""},
			{"TOTAL BRUTO"},
		}},
		{Page: 2, Cells: [][]string{
			{"ANO REFERÊNCIA 2021"},
			evenHeader,
			{"TOTAL BRUTO"},
		}},
	}}
	svc := NewService(ext, "", nil)

	consolidated, err := svc.Consolidate(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, consolidated.Ledger, 1)
	assert.Equal(t, "100,00", consolidated.Ledger[0].Months[0])
	assert.Equal(t, "", consolidated.Ledger[0].Ano)
	assert.Equal(t, "2021", consolidated.Anos[2])

	result, err := svc.AnalyzeDescontos(context.Background(), nil, DescontosRequest{
		Glossary:  []string{"IRRF"},
		Threshold: DefaultThreshold,
	})
	require.NoError(t, err)
	require.Len(t, result.Registros, 1)
	assert.Equal(t, "JAN", result.Registros[0].Data)
	assert.Equal(t, "IRRF", result.Registros[0].Discriminacao)
	assert.Equal(t, "100", result.Registros[0].Valor.String())
}
