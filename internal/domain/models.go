// package domain/models.go
package domain

import (
	"github.com/shopspring/decimal"
)

// Colunas canônicas do extrato consolidado.
const (
	ColPagina        = "PÁGINA"
	ColTipo          = "TIPO"
	ColDiscriminacao = "DISCRIMINAÇÃO"
	ColAno           = "ANO"
	ColDatas         = "DATAS"
	ColValor         = "VALOR (R$)"
	ColDescontos     = "DESCONTOS"
)

// TipoDescontos é a categoria das linhas de desconto.
const TipoDescontos = "DESCONTOS"

// Meses na ordem das colunas da ficha financeira.
var Meses = [12]string{"JAN", "FEV", "MAR", "ABR", "MAI", "JUN", "JUL", "AGO", "SET", "OUT", "NOV", "DEZ"}

// LedgerColumns é a sequência fixa de colunas do extrato consolidado.
var LedgerColumns = []string{
	ColPagina, ColTipo, ColDiscriminacao,
	"JAN", "FEV", "MAR", "ABR", "MAI", "JUN",
	"JUL", "AGO", "SET", "OUT", "NOV", "DEZ",
	ColAno,
}

// RawTable é a tabela de células brutas extraída de uma página do PDF.
type RawTable struct {
	Page  int        `json:"page"`
	Cells [][]string `json:"cells"`
}

// YearMap associa o número da página (1-based) ao ano de referência.
type YearMap map[int]string

// LedgerRow é uma linha canônica da ficha financeira.
type LedgerRow struct {
	Page          int        `json:"pagina"`
	Tipo          string     `json:"tipo"`
	Discriminacao string     `json:"discriminacao"`
	Months        [12]string `json:"meses"`
	Ano           string     `json:"ano"`
}

// Ledger é o extrato consolidado, na ordem página -> linha.
type Ledger []LedgerRow

// MatchResult registra a decisão do glossário para uma discriminação distinta.
type MatchResult struct {
	Discriminacao string  `json:"discriminacao"`
	Rubrica       string  `json:"rubrica"`
	Score         float64 `json:"score"`
	Accepted      bool    `json:"aceita"`
	Sugestao      string  `json:"sugestao,omitempty"`
	Ocorrencias   int     `json:"ocorrencias"`
}

// DescriptionCount é uma discriminação distinta e quantas linhas a usam.
type DescriptionCount struct {
	Discriminacao string `json:"discriminacao"`
	Ocorrencias   int    `json:"ocorrencias"`
}

// DatedRecord é um valor mensal já datado ("JAN/2021").
type DatedRecord struct {
	Data          string          `json:"data"`
	Discriminacao string          `json:"discriminacao"`
	Valor         decimal.Decimal `json:"valor"`
}

// Reconciliation guarda os totais do cálculo do indébito.
type Reconciliation struct {
	A               decimal.Decimal `json:"a"`
	B               decimal.Decimal `json:"b"`
	Indebito        decimal.Decimal `json:"indebito"`
	IndebitoEmDobro decimal.Decimal `json:"indebito_em_dobro"`
}

// TableRow é uma linha de tabela pronta para exibição.
// Special marca as linhas de totais (A, B, indébito), destacadas nos relatórios.
type TableRow struct {
	Values  []string `json:"values"`
	Special bool     `json:"special,omitempty"`
}

// Table é a tabela canônica entregue aos renderizadores e à API.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

// ColumnIndex retorna o índice da coluna ou -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Servidor identifica o titular da ficha financeira.
type Servidor struct {
	Nome      string `json:"nome"`
	Matricula string `json:"matricula"`
	CPF       string `json:"cpf,omitempty"`
}
