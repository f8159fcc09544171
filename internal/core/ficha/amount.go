package ficha

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// brlFormatter formata centavos no padrão pt-BR sem símbolo: 1.234,56
var brlFormatter = money.NewFormatter(2, ",", ".", "", "1")

// ParseAmount converte um valor monetário textual em decimal.
// Nunca falha: valores vazios ou inválidos resultam em zero.
//
// Regras de precedência:
//  1. remove "R$", espaços e NBSP; "(x)" ou "-x" indicam negativo;
//  2. com "." e "," presentes, o separador mais à direita é o decimal;
//  3. só vírgula: uma vírgula é decimal, várias são milhar;
//  4. só ponto: um ponto é decimal ("1.234" = 1,234), vários são milhar;
//  5. o que sobrar e não for decimal válido vale zero.
func ParseAmount(val string) decimal.Decimal {
	s := strings.TrimSpace(val)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return decimal.Zero
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimPrefix(strings.TrimSuffix(s, ")"), "(")
	}
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = strings.TrimPrefix(s, "-")
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if neg {
		d = d.Neg()
	}
	return d
}

// FormatAmount formata o valor com separador de milhar e duas casas: 1.234,56
func FormatAmount(d decimal.Decimal) string {
	return brlFormatter.Format(toCents(d))
}

// DisplayAmount formata o valor com o símbolo da moeda: R$1.234,56
func DisplayAmount(d decimal.Decimal) string {
	return money.New(toCents(d), money.BRL).Display()
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}
