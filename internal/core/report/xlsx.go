package report

import (
	"fmt"

	"ficha-service/internal/domain"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Relatorio"

// XLSXRenderer gera a tabela numa planilha Excel.
type XLSXRenderer struct{}

// NewXLSXRenderer cria um renderizador XLSX.
func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (r *XLSXRenderer) Extension() string { return ".xlsx" }

// Render grava o título na linha 1, o cabeçalho na linha 2 e os dados a partir
// da linha 3. Linhas especiais recebem fonte vermelha em negrito.
func (r *XLSXRenderer) Render(table domain.Table, title string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    borders(),
	})
	if err != nil {
		return nil, err
	}
	specialStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FF0000"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    borders(),
	})
	if err != nil {
		return nil, err
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 9},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    borders(),
	})
	if err != nil {
		return nil, err
	}

	ncols := len(table.Columns)
	if ncols == 0 {
		ncols = 1
	}
	lastCol, err := excelize.ColumnNumberToName(ncols)
	if err != nil {
		return nil, err
	}

	if err := f.SetCellValue(xlsxSheet, "A1", title); err != nil {
		return nil, err
	}
	if err := f.MergeCell(xlsxSheet, "A1", lastCol+"1"); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", lastCol+"1", titleStyle); err != nil {
		return nil, err
	}

	for i, col := range table.Columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetCellValue(xlsxSheet, fmt.Sprintf("%s2", name), col); err != nil {
			return nil, err
		}
		width := 12.0
		if col == domain.ColDiscriminacao {
			width = 45
		}
		if err := f.SetColWidth(xlsxSheet, name, name, width); err != nil {
			return nil, err
		}
	}
	if len(table.Columns) > 0 {
		if err := f.SetCellStyle(xlsxSheet, "A2", lastCol+"2", headerStyle); err != nil {
			return nil, err
		}
	}

	for r, row := range table.Rows {
		line := r + 3
		for c := range table.Columns {
			cellName, _ := excelize.CoordinatesToCellName(c+1, line)
			if err := f.SetCellStr(xlsxSheet, cellName, valueAt(row, c)); err != nil {
				return nil, err
			}
		}
		style := cellStyle
		if row.Special {
			style = specialStyle
		}
		if err := f.SetCellStyle(xlsxSheet, fmt.Sprintf("A%d", line), fmt.Sprintf("%s%d", lastCol, line), style); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

func borders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}
