package ficha

import (
	"strings"

	"ficha-service/internal/domain"
)

const (
	startMarker = "TIPO"
	endMarker   = "TOTAL BRUTO"
)

// headerRule associa um trecho do cabeçalho original a uma coluna canônica.
type headerRule struct {
	Pattern string
	Column  string
}

// baseHeaderRules valem para qualquer página e têm prioridade sobre os meses.
var baseHeaderRules = []headerRule{
	{Pattern: "TIPO", Column: domain.ColTipo},
	{Pattern: "DISCRIMIN", Column: domain.ColDiscriminacao},
}

// headerRulesFor devolve as regras, em ordem de prioridade, para a página.
// Páginas ímpares trazem JAN..JUN; páginas pares trazem JUL..DEZ.
func headerRulesFor(page int) []headerRule {
	rules := make([]headerRule, 0, len(baseHeaderRules)+6)
	rules = append(rules, baseHeaderRules...)
	for _, mes := range parityMonths(page) {
		rules = append(rules, headerRule{Pattern: mes, Column: mes})
	}
	return rules
}

// parityMonths devolve os seis meses presentes numa página conforme a paridade.
func parityMonths(page int) []string {
	if page%2 != 0 {
		return domain.Meses[:6]
	}
	return domain.Meses[6:]
}

// monthOffset é o índice do primeiro mês da página em domain.Meses.
func monthOffset(page int) int {
	if page%2 != 0 {
		return 0
	}
	return 6
}

// mapHeader aplica as regras a cada célula do cabeçalho e devolve
// coluna canônica -> índice da coluna original. Cabeçalhos sem regra são
// ignorados; havendo dois candidatos, vale o mais à esquerda.
func mapHeader(header []string, rules []headerRule) map[string]int {
	mapping := make(map[string]int)
	for idx, cell := range header {
		upper := strings.ToUpper(strings.TrimSpace(cell))
		for _, rule := range rules {
			if !strings.Contains(upper, rule.Pattern) {
				continue
			}
			if _, taken := mapping[rule.Column]; !taken {
				mapping[rule.Column] = idx
			}
			break
		}
	}
	return mapping
}

// findBoundaries localiza a primeira linha com "TIPO" e a primeira com "TOTAL BRUTO".
func findBoundaries(cells [][]string) (start, end int, ok bool) {
	start, end = -1, -1
	for i, row := range cells {
		if start < 0 && rowContains(row, startMarker) {
			start = i
		}
		if end < 0 && rowContains(row, endMarker) {
			end = i
		}
	}
	if start < 0 || end < 0 || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

func rowContains(row []string, marker string) bool {
	for _, cell := range row {
		if strings.Contains(strings.ToUpper(cell), marker) {
			return true
		}
	}
	return false
}

func cellAt(row []string, idx int, ok bool) string {
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizePage recorta a tabela da página e a converte em linhas canônicas.
// Retorna ok=false quando a página não tem os limites esperados.
func normalizePage(table domain.RawTable, year string) (domain.Ledger, bool) {
	start, end, ok := findBoundaries(table.Cells)
	if !ok {
		return nil, false
	}

	slice := table.Cells[start:end]
	mapping := mapHeader(slice[0], headerRulesFor(table.Page))
	offset := monthOffset(table.Page)

	tipoIdx, hasTipo := mapping[domain.ColTipo]
	descIdx, hasDesc := mapping[domain.ColDiscriminacao]

	rows := make(domain.Ledger, 0, len(slice)-1)
	for _, raw := range slice[1:] {
		row := domain.LedgerRow{
			Page:          table.Page,
			Tipo:          cellAt(raw, tipoIdx, hasTipo),
			Discriminacao: cellAt(raw, descIdx, hasDesc),
			Ano:           year,
		}
		for i, mes := range parityMonths(table.Page) {
			idx, has := mapping[mes]
			row.Months[offset+i] = cellAt(raw, idx, has)
		}
		rows = append(rows, row)
	}
	return rows, true
}

// NormalizeTables converte as tabelas brutas de todas as páginas no extrato
// consolidado. Páginas sem os limites "TIPO"/"TOTAL BRUTO" são ignoradas.
func NormalizeTables(tables []domain.RawTable, years domain.YearMap) (domain.Ledger, error) {
	ledger, _ := normalizeTables(tables, years)
	if len(ledger) == 0 {
		return nil, ErrNoTables
	}
	return ledger, nil
}

func normalizeTables(tables []domain.RawTable, years domain.YearMap) (domain.Ledger, []int) {
	var ledger domain.Ledger
	var skipped []int
	for _, table := range tables {
		rows, ok := normalizePage(table, years[table.Page])
		if !ok {
			skipped = append(skipped, table.Page)
			continue
		}
		ledger = append(ledger, rows...)
	}
	return ledger, skipped
}
