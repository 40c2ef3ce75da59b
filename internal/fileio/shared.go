package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

// Sheet: сырой лист, строки как есть, без заголовков.
type Sheet struct {
	Name string
	Rows [][]string
}

// Table: лист после выбора шапки, заголовки в исходном порядке + записи.
type Table struct {
	Sheet     string
	HeaderRow int // 1-based
	Headers   []string
	Records   []map[string]string
}

// ReadAnySheets: выберет парсер по расширению и вернёт все листы книги.
func ReadAnySheets(r io.Reader, filename string) ([]Sheet, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xlsm":
		return readXLSX(r)
	case ".xls":
		return readXLS(r)
	case ".csv":
		return readCSV(r)
	default:
		return nil, fmt.Errorf("unsupported file: %s", filename)
	}
}

// ReadAnyTables: ReadAnySheets + шапка на каждом листе.
// headerRow: номер строки заголовков (1-based), 0 значит найти автоматически.
func ReadAnyTables(r io.Reader, filename string, headerRow int) ([]Table, error) {
	sheets, err := ReadAnySheets(r, filename)
	if err != nil {
		return nil, err
	}
	out := make([]Table, 0, len(sheets))
	for _, sh := range sheets {
		if len(sh.Rows) == 0 {
			continue
		}
		hr := headerRow
		if hr <= 0 {
			hr = DetectHeaderRow(sh.Rows)
		}
		h := pickHeader(sh.Rows, hr)
		out = append(out, Table{
			Sheet:     sh.Name,
			HeaderRow: hr,
			Headers:   h,
			Records:   rowsToMaps(sh.Rows, h, hr),
		})
	}
	return out, nil
}

// BOQ обычно начинается с титула проекта, шапка где-то в первых строках.
const headerScanRows = 10

var descHeaders = map[string]bool{
	"description":      true,
	"item description": true,
	"desc":             true,
	"particulars":      true,
	"item":             true,
}

var rxHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// NormHeader: нижний регистр, служебные символы → пробел, схлопнуть пробелы.
func NormHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = rxHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// DetectHeaderRow ищет в первых строках ячейку вида "Description".
// Если не нашли: считаем шапкой первую строку.
func DetectHeaderRow(rows [][]string) int {
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		for _, c := range rows[i] {
			if descHeaders[NormHeader(c)] {
				return i + 1
			}
		}
	}
	return 1
}

// pickHeader: берёт строку заголовков и подставляет Column N для пустых.
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		// повторяющиеся заголовки затирали бы друг друга в map
		if n := seen[v]; n > 0 {
			seen[v] = n + 1
			v = fmt.Sprintf("%s (%d)", v, n+1)
		} else {
			seen[v] = 1
		}
		out[i] = v
	}
	return out
}

// rowsToMaps: конвертирует AoA в []map по заголовкам, пропуская полностью пустые строки.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	start := headerRow // первая строка после заголовков
	var out []map[string]string
	for r := start; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			m[headers[c]] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
