package report

import (
	"bytes"
	"fmt"

	"ficha-service/internal/domain"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer gera relatórios em PDF, A4 paisagem.
type PDFRenderer struct{}

// NewPDFRenderer cria um renderizador PDF.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }
func (r *PDFRenderer) Extension() string   { return ".pdf" }

// Render desenha a tabela. Com a coluna PÁGINA, cada página da ficha vira uma
// seção própria e só os meses da sua paridade aparecem. Linhas especiais saem
// em vermelho e negrito.
func (r *PDFRenderer) Render(table domain.Table, title string) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 16)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Página %d", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	if len(table.Rows) == 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 10, tr("Nenhum dado para exibir."), "", 1, "C", false, 0, "")
		return output(pdf)
	}

	pageIdx := table.ColumnIndex(domain.ColPagina)
	if pageIdx < 0 {
		all := make([]int, len(table.Columns))
		for i := range all {
			all[i] = i
		}
		drawTable(pdf, tr, table.Columns, all, table.Rows, false)
		return output(pdf)
	}

	for _, group := range groupByPage(table, pageIdx) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 10, tr("Página "+group.page), "", 1, "C", false, 0, "")
		pdf.Ln(5)
		drawTable(pdf, tr, table.Columns, visibleColumns(table.Columns, group.page), group.rows, true)
		pdf.Ln(5)
	}
	return output(pdf)
}

func drawTable(pdf *fpdf.Fpdf, tr func(string) string, columns []string, visible []int, rows []domain.TableRow, grouped bool) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, i := range visible {
		pdf.CellFormat(columnWidth(columns[i], grouped), 8, tr(columns[i]), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	for _, row := range rows {
		if row.Special {
			pdf.SetTextColor(255, 0, 0)
			pdf.SetFont("Arial", "B", 12)
		} else {
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont("Arial", "", 10)
		}
		for _, i := range visible {
			pdf.CellFormat(columnWidth(columns[i], grouped), 8, tr(valueAt(row, i)), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetTextColor(0, 0, 0)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("erro ao gerar PDF: %w", err)
	}
	return buf.Bytes(), nil
}
