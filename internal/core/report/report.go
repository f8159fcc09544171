// Package report gera os relatórios da ficha financeira (PDF, XLSX, DOCX e CSV)
// a partir de uma domain.Table.
package report

import (
	"fmt"
	"strings"

	"ficha-service/internal/domain"
)

// Títulos dos relatórios.
const (
	TitleConsolidado = "Extrato Financeiro Único"
	TitleDescontos   = "Descontos Finais"
)

// Renderer gera o documento binário de uma tabela.
type Renderer interface {
	Render(table domain.Table, title string) ([]byte, error)
	ContentType() string
	Extension() string
}

// ForFormat devolve o renderizador do formato pedido (pdf, xlsx, docx ou csv).
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "pdf":
		return NewPDFRenderer(), nil
	case "xlsx":
		return NewXLSXRenderer(), nil
	case "docx":
		return NewDOCXRenderer(), nil
	case "csv":
		return NewCSVRenderer(), nil
	default:
		return nil, fmt.Errorf("formato de relatório não suportado: %s", format)
	}
}

// columnWidth é a largura, em milímetros, usada para a coluna no PDF.
func columnWidth(col string, grouped bool) float64 {
	switch strings.ToUpper(col) {
	case domain.ColDiscriminacao:
		if grouped {
			return 70
		}
		return 150
	case domain.ColPagina, domain.ColAno:
		return 15
	case domain.ColTipo:
		return 30
	case domain.ColDatas, domain.ColDescontos, domain.ColValor:
		return 40
	default:
		return 20
	}
}

// monthIndex devolve a posição do mês em domain.Meses ou -1.
func monthIndex(col string) int {
	for i, m := range domain.Meses {
		if m == col {
			return i
		}
	}
	return -1
}

// pageGroup são as linhas de uma mesma página da ficha original.
type pageGroup struct {
	page string
	rows []domain.TableRow
}

// groupByPage agrupa as linhas pela coluna PÁGINA, na ordem de aparição.
func groupByPage(table domain.Table, pageIdx int) []pageGroup {
	var groups []pageGroup
	index := make(map[string]int)
	for _, row := range table.Rows {
		page := ""
		if pageIdx < len(row.Values) {
			page = row.Values[pageIdx]
		}
		i, ok := index[page]
		if !ok {
			groups = append(groups, pageGroup{page: page})
			i = len(groups) - 1
			index[page] = i
		}
		groups[i].rows = append(groups[i].rows, row)
	}
	return groups
}

// visibleColumns descarta os meses que não pertencem à paridade da página.
func visibleColumns(columns []string, page string) []int {
	odd := true
	var n int
	if _, err := fmt.Sscanf(page, "%d", &n); err == nil {
		odd = n%2 != 0
	}
	var idx []int
	for i, col := range columns {
		m := monthIndex(col)
		if m >= 0 && (m < 6) != odd {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

func valueAt(row domain.TableRow, i int) string {
	if i < len(row.Values) {
		return row.Values[i]
	}
	return ""
}
