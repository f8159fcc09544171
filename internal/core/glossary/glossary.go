// Package glossary carrega o glossário de rubricas aceitas.
package glossary

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// LoadFile abre e carrega o glossário do caminho informado.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir glossário: %w", err)
	}
	defer f.Close()
	return Load(f, filepath.Base(path))
}

// Load lê uma rubrica por linha (.txt), a primeira coluna de um .csv ou a
// primeira célula preenchida de cada linha da primeira planilha (.xls/.xlsx).
// Linhas vazias são descartadas; a ordem do arquivo é mantida.
func Load(r io.Reader, filename string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler glossário: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		rows, err := loadGenericExcel(data)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler planilha de rubricas: %w", err)
		}
		return firstFilled(rows), nil
	case ".csv":
		reader := csv.NewReader(decodeText(data))
		reader.Comma = ';'
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("erro ao ler CSV de rubricas: %w", err)
		}
		return firstFilled(records), nil
	default:
		return readLines(decodeText(data))
	}
}

// decodeText assume UTF-8 e recorre a ISO-8859-1 quando o conteúdo não é UTF-8 válido.
func decodeText(data []byte) io.Reader {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return bytes.NewReader(data)
	}
	return transform.NewReader(bytes.NewReader(data), charmap.ISO8859_1.NewDecoder())
}

func readLines(r io.Reader) ([]string, error) {
	var rubricas []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			rubricas = append(rubricas, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler glossário: %w", err)
	}
	return rubricas, nil
}

func firstFilled(rows [][]string) []string {
	var out []string
	for _, row := range rows {
		for _, c := range row {
			if v := strings.TrimSpace(c); v != "" {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

// loadGenericExcel lê a primeira planilha de um .xlsx ou .xls.
func loadGenericExcel(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err == nil {
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("o arquivo .xlsx não contém planilhas")
		}
		return f.GetRows(sheets[0])
	}

	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported workbook file format")
	}
	if len(workbook.GetSheets()) == 0 {
		return nil, fmt.Errorf("o arquivo .xls não contém planilhas")
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter planilha do arquivo .xls: %w", err)
	}
	var allRows [][]string
	for _, row := range sheet.GetRows() {
		var cols []string
		for _, c := range row.GetCols() {
			cols = append(cols, c.GetString())
		}
		allRows = append(allRows, cols)
	}
	return allRows, nil
}
