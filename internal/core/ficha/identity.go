package ficha

import (
	"regexp"
	"strings"

	"ficha-service/internal/domain"
)

// NotAvailable é usado quando um dado do servidor não foi encontrado.
const NotAvailable = "N/D"

// PageBreak separa as páginas no texto devolvido pelo extrator.
const PageBreak = "\f"

var (
	nomeCPFRegex    = regexp.MustCompile(`(?is)NOME\s+DO\s+SERVIDOR.*?([\p{L}\s]+)\s+(\d{3}\.\d{3}\.\d{3}-\d{2})`)
	nomeLinhaRegex  = regexp.MustCompile(`^([^\d]+)`)
	matriculaRegex  = regexp.MustCompile(`(\d{3}\.\d{3}-\d\s*[A-Z]*)`)
	nonLetterRegex  = regexp.MustCompile(`[^\p{L}\p{N}_]`)
	descartarTokens = map[string]bool{
		"CPE": true, "AM": true, "EST": true, "APOSENTADO": true, "DEPLIGPORT": true,
		"ANO": true, "REFERÊNCIA": true, "AP": true, "SIAPE": true, "COADI": true,
	}
)

// removeNoiseTokens descarta siglas que aparecem coladas ao nome do servidor.
func removeNoiseTokens(text string) string {
	if strings.TrimSpace(text) == "" {
		return NotAvailable
	}
	var kept []string
	for _, tok := range strings.Fields(text) {
		clean := nonLetterRegex.ReplaceAllString(tok, "")
		if descartarTokens[strings.ToUpper(clean)] {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// ExtractServidor identifica nome, CPF e matrícula no texto do documento.
// O nome vem preferencialmente do bloco "NOME DO SERVIDOR" seguido do CPF;
// sem ele, usa a linha após "NOME" na primeira página.
func ExtractServidor(text string) domain.Servidor {
	s := domain.Servidor{Nome: NotAvailable, Matricula: NotAvailable}

	firstPage := text
	if i := strings.Index(text, PageBreak); i >= 0 {
		firstPage = text[:i]
	}
	lines := strings.Split(firstPage, "\n")
	for i, line := range lines {
		if i+1 >= len(lines) {
			break
		}
		upper := strings.ToUpper(line)
		next := strings.TrimSpace(lines[i+1])
		if strings.Contains(upper, "NOME") {
			if m := nomeLinhaRegex.FindStringSubmatch(next); m != nil && strings.TrimSpace(m[1]) != "" {
				s.Nome = strings.TrimSpace(m[1])
			}
		}
		if strings.Contains(upper, "MATRÍCULA-SEQ-DIG") {
			if m := matriculaRegex.FindStringSubmatch(next); m != nil {
				s.Matricula = strings.TrimSpace(m[1])
			}
		}
	}

	if m := nomeCPFRegex.FindStringSubmatch(text); m != nil {
		if nome := removeNoiseTokens(strings.Join(strings.Fields(m[1]), " ")); nome != "" {
			s.Nome = nome
		}
		s.CPF = m[2]
	}
	return s
}
