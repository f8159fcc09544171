package ficha

import "errors"

var (
	// ErrNoTables indica que nenhuma página produziu linhas utilizáveis.
	ErrNoTables = errors.New("nenhuma tabela detectada no PDF")
	// ErrColumnNotFound indica que a coluna de valores não existe na tabela.
	ErrColumnNotFound = errors.New("coluna de valores não encontrada")
)
