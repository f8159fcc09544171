// Package extract lê PDFs de ficha financeira e devolve o texto e as tabelas
// de cada página como células de texto.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"ficha-service/internal/core/ficha"
	"ficha-service/internal/domain"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor implementa ficha.Extractor sobre github.com/ledongthuc/pdf.
type PDFExtractor struct {
	// TempDir é onde o PDF é gravado durante a leitura ("" = padrão do SO).
	TempDir string
}

// NewPDFExtractor cria um extrator que grava o PDF em TempDir durante a leitura.
func NewPDFExtractor(tempDir string) *PDFExtractor {
	return &PDFExtractor{TempDir: tempDir}
}

var _ ficha.Extractor = (*PDFExtractor)(nil)

// withDocument grava o PDF num arquivo temporário, abre e executa fn.
// O arquivo é removido ao final, com ou sem erro.
func (e *PDFExtractor) withDocument(data []byte, fn func(r *pdf.Reader) error) (err error) {
	tmp, err := os.CreateTemp(e.TempDir, "ficha-*.pdf")
	if err != nil {
		return fmt.Errorf("erro ao criar arquivo temporário: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("erro ao gravar arquivo temporário: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("erro ao gravar arquivo temporário: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF inválido: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("erro ao abrir PDF: %w", err)
	}
	defer f.Close()

	return fn(reader)
}

// Text devolve o texto de todas as páginas, separadas por ficha.PageBreak.
func (e *PDFExtractor) Text(ctx context.Context, data []byte) (string, error) {
	var buf bytes.Buffer
	err := e.withDocument(data, func(r *pdf.Reader) error {
		for i := 1; i <= r.NumPage(); i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if i > 1 {
				buf.WriteString(ficha.PageBreak)
			}
			p := r.Page(i)
			if p.V.IsNull() {
				continue
			}
			rows, err := p.GetTextByRow()
			if err != nil {
				text, _ := p.GetPlainText(nil)
				buf.WriteString(text)
				continue
			}
			for _, row := range rows {
				buf.WriteString(strings.Join(rowCells(row.Content), " "))
				buf.WriteString("\n")
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Tables devolve uma tabela por página com texto. As colunas são inferidas
// pela sobreposição horizontal das células de todas as linhas da página.
func (e *PDFExtractor) Tables(ctx context.Context, data []byte) ([]domain.RawTable, error) {
	var tables []domain.RawTable
	err := e.withDocument(data, func(r *pdf.Reader) error {
		for i := 1; i <= r.NumPage(); i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := r.Page(i)
			if p.V.IsNull() {
				continue
			}
			rows, err := p.GetTextByRow()
			if err != nil {
				continue
			}
			grid := buildGrid(rows)
			if len(grid) == 0 {
				continue
			}
			tables = append(tables, domain.RawTable{Page: i, Cells: grid})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// cell é um trecho contínuo de texto numa linha.
type cell struct {
	text     string
	x0, x1   float64
	fontSize float64
}

// groupCells junta os fragmentos da linha em células. Fragmentos separados
// por menos de um "em" pertencem à mesma célula.
func groupCells(texts pdf.TextHorizontal) []cell {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var cells []cell
	for _, t := range sorted {
		if strings.TrimSpace(t.S) == "" && len(cells) == 0 {
			continue
		}
		em := t.FontSize
		if em <= 0 {
			em = 8
		}
		if n := len(cells); n > 0 {
			last := &cells[n-1]
			gap := t.X - last.x1
			if gap < em {
				if gap > em*0.15 && !strings.HasSuffix(last.text, " ") {
					last.text += " "
				}
				last.text += t.S
				if end := t.X + t.W; end > last.x1 {
					last.x1 = end
				}
				continue
			}
		}
		cells = append(cells, cell{text: t.S, x0: t.X, x1: t.X + t.W, fontSize: em})
	}

	out := cells[:0]
	for _, c := range cells {
		c.text = strings.Join(strings.Fields(c.text), " ")
		if c.text != "" {
			out = append(out, c)
		}
	}
	return out
}

func rowCells(texts pdf.TextHorizontal) []string {
	cells := groupCells(texts)
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.text
	}
	return out
}

type span struct{ x0, x1 float64 }

// columnSpans une os intervalos horizontais das células em colunas.
// Células mais largas que 40% da página (títulos) não definem colunas.
func columnSpans(lines [][]cell) []span {
	minX, maxX := 0.0, 0.0
	first := true
	for _, line := range lines {
		for _, c := range line {
			if first || c.x0 < minX {
				minX = c.x0
			}
			if first || c.x1 > maxX {
				maxX = c.x1
			}
			first = false
		}
	}
	width := maxX - minX

	var spans []span
	for _, line := range lines {
		for _, c := range line {
			if width > 0 && (c.x1-c.x0) > 0.4*width {
				continue
			}
			spans = append(spans, span{c.x0, c.x1})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].x0 < spans[j].x0 })

	var merged []span
	for _, s := range spans {
		if n := len(merged); n > 0 && s.x0 <= merged[n-1].x1 {
			if s.x1 > merged[n-1].x1 {
				merged[n-1].x1 = s.x1
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

func spanIndex(spans []span, c cell) int {
	center := (c.x0 + c.x1) / 2
	best, bestDist := 0, -1.0
	for i, s := range spans {
		if center >= s.x0 && center <= s.x1 {
			return i
		}
		d := s.x0 - center
		if d < 0 {
			d = center - s.x1
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// buildGrid converte as linhas de texto da página numa grade retangular.
func buildGrid(rows pdf.Rows) [][]string {
	var lines [][]cell
	for _, row := range rows {
		if cells := groupCells(row.Content); len(cells) > 0 {
			lines = append(lines, cells)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	spans := columnSpans(lines)
	if len(spans) == 0 {
		spans = []span{{0, 0}}
	}

	grid := make([][]string, 0, len(lines))
	for _, line := range lines {
		out := make([]string, len(spans))
		for _, c := range line {
			idx := spanIndex(spans, c)
			if out[idx] != "" {
				out[idx] += " "
			}
			out[idx] += c.text
		}
		grid = append(grid, out)
	}
	return grid
}
