package ficha

import (
	"sort"

	"ficha-service/internal/domain"
)

// DistinctDescriptions lista as discriminações distintas, em ordem alfabética,
// com o número de linhas de cada uma.
func DistinctDescriptions(rows domain.Ledger) []domain.DescriptionCount {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.Discriminacao]++
	}
	out := make([]domain.DescriptionCount, 0, len(counts))
	for desc, n := range counts {
		out = append(out, domain.DescriptionCount{Discriminacao: desc, Ocorrencias: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Discriminacao < out[j].Discriminacao })
	return out
}

// SelectDescriptions mantém as linhas cuja discriminação está em keep,
// preservando a ordem original.
func SelectDescriptions(rows domain.Ledger, keep []string) domain.Ledger {
	wanted := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		wanted[k] = struct{}{}
	}
	out := make(domain.Ledger, 0, len(rows))
	for _, row := range rows {
		if _, ok := wanted[row.Discriminacao]; ok {
			out = append(out, row)
		}
	}
	return out
}
