// Package ingest reads user-supplied files (CSV, Excel, HTML exports) into
// the generic Table shape. It guarantees shape, not semantic cleanliness;
// that is the cleaner's job.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"finlens/pkg/core/table"
)

// ParseError reports an unreadable or unsupported input file.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %s", filepath.Base(e.Path), e.Reason)
}

// ParseFile detects the file format by extension and reads it into a Table.
func ParseFile(path string) (table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSV(path)
	case ".xlsx", ".xls":
		return parseExcel(path)
	case ".html", ".htm":
		return parseHTML(path)
	default:
		return table.Table{}, &ParseError{Path: path, Reason: "unsupported format, expected CSV, XLSX, XLS or HTML"}
	}
}

// parseCSV handles the encodings SMB exports actually arrive in: UTF-8,
// Windows-1251 and Latin-1, plus semicolon-delimited files.
func parseCSV(path string) (table.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return table.Table{}, &ParseError{Path: path, Reason: err.Error()}
	}

	content := decodeBytes(raw)

	records, err := readCSV(content, ',')
	if err == nil && len(records) > 0 && len(records[0]) == 1 && strings.Contains(records[0][0], ";") {
		records, err = readCSV(content, ';')
	}
	if err != nil {
		return table.Table{}, &ParseError{Path: path, Reason: err.Error()}
	}
	if len(records) == 0 {
		return table.Table{}, &ParseError{Path: path, Reason: "file contains no rows"}
	}

	log.Printf("[Ingest] CSV read: %d columns, %d rows", len(records[0]), len(records)-1)
	return recordsToTable(records), nil
}

func readCSV(content string, delimiter rune) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// decodeBytes tries UTF-8 first, then Windows-1251, then Latin-1.
func decodeBytes(raw []byte) string {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM
	if utf8.Valid(raw) {
		return string(raw)
	}
	if decoded, err := charmap.Windows1251.NewDecoder().Bytes(raw); err == nil && utf8.Valid(decoded) {
		return string(decoded)
	}
	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	return string(decoded)
}

// parseExcel reads the first sheet of a workbook.
func parseExcel(path string) (table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return table.Table{}, &ParseError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return table.Table{}, &ParseError{Path: path, Reason: "workbook has no sheets"}
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return table.Table{}, &ParseError{Path: path, Reason: err.Error()}
	}
	if len(records) == 0 {
		return table.Table{}, &ParseError{Path: path, Reason: "first sheet is empty"}
	}

	log.Printf("[Ingest] Excel read: sheet %q, %d rows", sheets[0], len(records)-1)
	return recordsToTable(records), nil
}

// parseHTML reads the first <table> element of an HTML export.
func parseHTML(path string) (table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return table.Table{}, &ParseError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return table.Table{}, &ParseError{Path: path, Reason: err.Error()}
	}

	tbl := doc.Find("table").First()
	if tbl.Length() == 0 {
		return table.Table{}, &ParseError{Path: path, Reason: "no <table> element found"}
	}

	var records [][]string
	tbl.Find("tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) > 0 {
			records = append(records, cells)
		}
	})
	if len(records) == 0 {
		return table.Table{}, &ParseError{Path: path, Reason: "table has no rows"}
	}

	log.Printf("[Ingest] HTML table read: %d rows", len(records)-1)
	return recordsToTable(records), nil
}

// recordsToTable treats the first record as headers and pads short rows so
// every row has one cell per header.
func recordsToTable(records [][]string) table.Table {
	headers := records[0]
	rows := make([][]interface{}, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]interface{}, len(headers))
		for i := range headers {
			if i < len(record) {
				row[i] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return table.Table{Headers: headers, Rows: rows}
}
