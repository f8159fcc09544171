package ficha

import (
	"regexp"
	"sort"
	"strings"

	"ficha-service/internal/domain"
)

// DefaultYearMarker é o rótulo da célula que traz o ano de referência.
const DefaultYearMarker = "ANO REFERÊNCIA"

var fourDigitsRegex = regexp.MustCompile(`\b(\d{4})\b`)

// ResolveYears procura, em cada página, a primeira célula que contém o marcador
// e extrai dela o último grupo de quatro dígitos. Páginas sem marcador ficam
// fora do mapa.
func ResolveYears(tables []domain.RawTable, marker string) domain.YearMap {
	if marker == "" {
		marker = DefaultYearMarker
	}
	marker = strings.ToUpper(marker)

	ordered := make([]domain.RawTable, len(tables))
	copy(ordered, tables)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Page < ordered[j].Page })

	years := make(domain.YearMap)
	for _, table := range ordered {
		if _, seen := years[table.Page]; seen {
			continue
		}
		if cell, ok := findMarkerCell(table.Cells, marker); ok {
			years[table.Page] = lastFourDigits(cell)
		}
	}
	return years
}

func findMarkerCell(cells [][]string, marker string) (string, bool) {
	for _, row := range cells {
		for _, cell := range row {
			if strings.Contains(strings.ToUpper(cell), marker) {
				return cell, true
			}
		}
	}
	return "", false
}

// lastFourDigits retorna o último número de exatamente quatro dígitos do texto.
func lastFourDigits(text string) string {
	matches := fourDigitsRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1][1]
}
