package report

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"ficha-service/internal/domain"
)

// Partes mínimas de um pacote WordprocessingML.
const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`
	docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`
	docxEmpty = "Nenhum dado para exibir."
)

// DOCXRenderer gera a tabela num documento Word em paisagem.
type DOCXRenderer struct{}

// NewDOCXRenderer cria um renderizador DOCX.
func NewDOCXRenderer() *DOCXRenderer {
	return &DOCXRenderer{}
}

func (r *DOCXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
func (r *DOCXRenderer) Extension() string { return ".docx" }

// Render monta o título centralizado e a tabela com bordas. Linhas especiais
// ficam em vermelho, negrito e 14pt; as demais em 9pt.
func (r *DOCXRenderer) Render(table domain.Table, title string) ([]byte, error) {
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	writeParagraph(&body, title, runStyle{bold: true, size: 16})

	if len(table.Rows) == 0 || len(table.Columns) == 0 {
		writeParagraph(&body, docxEmpty, runStyle{size: 10})
	} else {
		writeTable(&body, table)
	}

	// A4 em paisagem, medidas em twips.
	body.WriteString(`<w:sectPr><w:pgSz w:w="16838" w:h="11906" w:orient="landscape"/>`)
	body.WriteString(`<w:pgMar w:top="720" w:right="720" w:bottom="720" w:left="720" w:header="360" w:footer="360" w:gutter="0"/></w:sectPr>`)
	body.WriteString(`</w:body></w:document>`)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxRels)},
		{"word/document.xml", body.Bytes()},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("erro ao gerar DOCX: %w", err)
		}
		if _, err := w.Write(part.data); err != nil {
			return nil, fmt.Errorf("erro ao gerar DOCX: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("erro ao gerar DOCX: %w", err)
	}
	return out.Bytes(), nil
}

type runStyle struct {
	bold bool
	red  bool
	size int // pontos
}

func writeTable(w *bytes.Buffer, table domain.Table) {
	w.WriteString(`<w:tbl><w:tblPr><w:jc w:val="center"/><w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(w, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="000000"/>`, side)
	}
	w.WriteString(`</w:tblBorders><w:tblLayout w:type="fixed"/></w:tblPr><w:tblGrid>`)
	widths := make([]int, len(table.Columns))
	for i, col := range table.Columns {
		widths[i] = docxColumnWidth(col)
		fmt.Fprintf(w, `<w:gridCol w:w="%d"/>`, widths[i])
	}
	w.WriteString(`</w:tblGrid>`)

	w.WriteString(`<w:tr>`)
	for i, col := range table.Columns {
		writeCell(w, col, widths[i], runStyle{bold: true, size: 9})
	}
	w.WriteString(`</w:tr>`)

	for _, row := range table.Rows {
		style := runStyle{size: 9}
		if row.Special {
			style = runStyle{bold: true, red: true, size: 14}
		}
		w.WriteString(`<w:tr>`)
		for i := range table.Columns {
			writeCell(w, valueAt(row, i), widths[i], style)
		}
		w.WriteString(`</w:tr>`)
	}
	w.WriteString(`</w:tbl>`)
}

func writeCell(w *bytes.Buffer, text string, width int, style runStyle) {
	fmt.Fprintf(w, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/></w:tcPr>`, width)
	writeParagraph(w, text, style)
	w.WriteString(`</w:tc>`)
}

func writeParagraph(w *bytes.Buffer, text string, style runStyle) {
	w.WriteString(`<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr>`)
	if style.bold {
		w.WriteString(`<w:b/>`)
	}
	if style.red {
		w.WriteString(`<w:color w:val="FF0000"/>`)
	}
	// w:sz é dado em meios-pontos.
	fmt.Fprintf(w, `<w:sz w:val="%d"/></w:rPr><w:t xml:space="preserve">`, style.size*2)
	escapeText(w, sanitizeCell(text))
	w.WriteString(`</w:t></w:r></w:p>`)
}

func escapeText(w io.Writer, s string) {
	_ = xml.EscapeText(w, []byte(s))
}

// docxColumnWidth devolve a largura em twips: 75mm para DISCRIMINAÇÃO e 25mm
// para as demais.
func docxColumnWidth(col string) int {
	mm := 25.0
	if col == domain.ColDiscriminacao {
		mm = 75
	}
	return int(mm * 1440 / 25.4)
}
