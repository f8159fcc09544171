package report

import (
	"bytes"
	"encoding/csv"
	"unicode"
	"unicode/utf8"

	"ficha-service/internal/domain"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// CSVRenderer gera CSV separado por ";" em cp1252, aberto direto pelo Excel.
type CSVRenderer struct{}

// NewCSVRenderer cria um renderizador CSV.
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

func (r *CSVRenderer) ContentType() string { return "text/csv; charset=windows-1252" }
func (r *CSVRenderer) Extension() string   { return ".csv" }

// Render grava o cabeçalho e as linhas; o título não faz parte do CSV.
func (r *CSVRenderer) Render(table domain.Table, _ string) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := charmap.Windows1252.NewEncoder()
	writer := csv.NewWriter(transform.NewWriter(&buffer, encoder))
	writer.Comma = ';'

	header := make([]string, len(table.Columns))
	for i, h := range table.Columns {
		header[i] = sanitizeCell(h)
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, row := range table.Rows {
		record := make([]string, len(table.Columns))
		for i := range table.Columns {
			record[i] = sanitizeCell(valueAt(row, i))
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	return buffer.Bytes(), writer.Error()
}

// sanitizeCell remove quebras de linha e tabs e troca outros controles por espaço.
func sanitizeCell(s string) string {
	start, end := 0, len(s)
	for start < end {
		r, size := utf8.DecodeRuneInString(s[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(s[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	if start >= end {
		return ""
	}

	var b bytes.Buffer
	b.Grow(end - start)
	for i := start; i < end; {
		r, size := utf8.DecodeRuneInString(s[i:end])
		i += size
		if r == '\r' || r == '\n' || r == '\t' {
			continue
		}
		if r < 32 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
