package ficha

import "ficha-service/internal/domain"

// ForwardFillTipo preenche o TIPO vazio com o último TIPO não vazio acima.
// A primeira linha, se vazia, continua vazia.
func ForwardFillTipo(ledger domain.Ledger) domain.Ledger {
	filled := make(domain.Ledger, len(ledger))
	last := ""
	for i, row := range ledger {
		if isBlank(row.Tipo) {
			row.Tipo = last
		} else {
			last = row.Tipo
		}
		filled[i] = row
	}
	return filled
}
