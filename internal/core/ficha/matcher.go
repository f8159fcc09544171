package ficha

import (
	"strings"
	"unicode/utf8"

	"ficha-service/internal/domain"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/schollz/closestmatch"
)

// DefaultThreshold é o nível de similaridade padrão (0-100).
const DefaultThreshold = 85.0

// Matcher cruza discriminações com o glossário de rubricas.
type Matcher struct {
	glossary  []string
	threshold float64
	suggester *closestmatch.ClosestMatch
	// normalized -> rubrica original, para as sugestões.
	normalized map[string]string
}

// NewMatcher cria um Matcher. O glossário é usado na ordem recebida; empates
// de pontuação ficam com a primeira rubrica.
func NewMatcher(glossary []string, threshold float64) *Matcher {
	m := &Matcher{glossary: glossary, threshold: threshold, normalized: make(map[string]string)}
	var keys []string
	for _, rubric := range glossary {
		key := NormalizeText(rubric)
		if _, ok := m.normalized[key]; ok || key == "" {
			continue
		}
		m.normalized[key] = rubric
		keys = append(keys, key)
	}
	if len(keys) > 0 {
		m.suggester = closestmatch.New(keys, []int{2, 3})
	}
	return m
}

// Threshold devolve o nível de similaridade configurado.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Ratio calcula a similaridade de 0 a 100 pela distância Indel normalizada:
// 100 × (la + lb − indel) / (la + lb), contando só inserções e remoções
// (em runas). Diferencia maiúsculas.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	indel := total - 2*lcsLength(ra, rb)
	return float64(100*(total-indel)) / float64(total)
}

// lcsLength devolve o tamanho da maior subsequência comum.
func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// ratioCeiling limita Ratio por cima: a distância de Levenshtein nunca
// passa da Indel, então uma rubrica abaixo do teto não pode vencer.
func ratioCeiling(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	return float64(100*(total-fuzzy.LevenshteinDistance(a, b))) / float64(total)
}

// best devolve a rubrica de maior pontuação para a descrição.
func (m *Matcher) best(desc string) (string, float64) {
	bestRubric, bestScore := "", -1.0
	for _, rubric := range m.glossary {
		if bestScore >= 0 && ratioCeiling(desc, rubric) <= bestScore {
			continue
		}
		if score := Ratio(desc, rubric); score > bestScore {
			bestRubric, bestScore = rubric, score
		}
	}
	return bestRubric, bestScore
}

// suggest aponta a rubrica mais próxima ignorando acentos e pontuação.
// O closestmatch indexa os candidatos em minúsculas.
func (m *Matcher) suggest(desc string) string {
	if m.suggester == nil {
		return ""
	}
	return m.normalized[m.suggester.Closest(strings.ToLower(NormalizeText(desc)))]
}

// Match devolve as linhas cuja discriminação atinge o limiar (>=) e o
// resultado de cada discriminação distinta, na ordem em que aparecem.
// A decisão é calculada uma vez por discriminação e vale para todas as linhas.
func (m *Matcher) Match(rows domain.Ledger) (domain.Ledger, []domain.MatchResult) {
	if len(rows) == 0 || len(m.glossary) == 0 {
		return domain.Ledger{}, nil
	}

	decisions := make(map[string]int)
	var results []domain.MatchResult
	accepted := make(domain.Ledger, 0, len(rows))

	for _, row := range rows {
		idx, cached := decisions[row.Discriminacao]
		if !cached {
			rubric, score := m.best(row.Discriminacao)
			res := domain.MatchResult{
				Discriminacao: row.Discriminacao,
				Rubrica:       rubric,
				Score:         score,
				Accepted:      score >= m.threshold,
			}
			if !res.Accepted {
				res.Sugestao = m.suggest(row.Discriminacao)
			}
			results = append(results, res)
			idx = len(results) - 1
			decisions[row.Discriminacao] = idx
		}
		results[idx].Ocorrencias++
		if results[idx].Accepted {
			accepted = append(accepted, row)
		}
	}
	return accepted, results
}

// FilterDescontos mantém somente as linhas cujo TIPO é DESCONTOS.
func FilterDescontos(ledger domain.Ledger) domain.Ledger {
	out := make(domain.Ledger, 0, len(ledger))
	for _, row := range ledger {
		if strings.EqualFold(strings.TrimSpace(row.Tipo), domain.TipoDescontos) {
			out = append(out, row)
		}
	}
	return out
}
