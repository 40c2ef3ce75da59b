package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	excelize "github.com/xuri/excelize/v2"

	"pricematch-service/internal/fileio"
	"pricematch-service/internal/pricematch/errs"
)

func TestResolveColumns(t *testing.T) {
	headers := []string{"S.No", "Item Code", "Description of Work", "Unit Rate", "Unit", "Rate (AED)", "Keywords"}
	cols := resolveColumns(headers, catalogFields)

	want := map[field]string{
		fCode:     "Item Code",
		fDesc:     "Description of Work",
		fRate:     "Unit Rate",
		fUnit:     "Unit",
		fKeywords: "Keywords",
	}
	for f, h := range want {
		if cols[f] != h {
			t.Errorf("field %d -> %q, want %q", f, cols[f], h)
		}
	}
	if _, ok := cols[fCategory]; ok {
		t.Errorf("category should stay unresolved, got %q", cols[fCategory])
	}
}

func TestResolveColumnsContainment(t *testing.T) {
	cols := resolveColumns([]string{"Desc.", "Qty (m3)"}, inputFields)
	if cols[fDesc] != "Desc." || cols[fQty] != "Qty (m3)" {
		t.Errorf("cols = %v", cols)
	}
}

func TestCatalogFromTables(t *testing.T) {
	tables := []fileio.Table{
		{
			Sheet:   "Civil",
			Headers: []string{"Code", "Description", "Category", "Unit", "Rate", "Keywords", "Phrases"},
			Records: []map[string]string{
				{"Code": "C-30", "Description": "Concrete Grade 30", "Category": "Concrete", "Unit": "m3", "Rate": "1,200.50", "Keywords": "rcc; slab", "Phrases": ""},
				{"Code": "", "Description": "Description", "Category": "", "Unit": "", "Rate": ""},
				{"Code": "S-01", "Description": "Reinforcement steel", "Unit": "t", "Rate": "", "Keywords": "rebar, steel bar"},
				{"Code": "X", "Description": "  "},
			},
		},
		{Sheet: "Notes", Headers: []string{"Column 1"}, Records: []map[string]string{{"Column 1": "General notes"}}},
	}

	items, skipped := CatalogFromTables(tables)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if len(skipped) != 1 || skipped[0] != "Notes" {
		t.Errorf("skipped = %v", skipped)
	}
	c := items[0]
	if c.Rate == nil || *c.Rate != 1200.5 {
		t.Errorf("rate = %v", c.Rate)
	}
	if c.DescClean != "concrete grade 30 concrete rcc slab" {
		t.Errorf("descClean = %q", c.DescClean)
	}
	if items[1].Rate != nil {
		t.Errorf("empty rate should be nil, got %v", *items[1].Rate)
	}
	if len(items[1].Keywords) != 2 || items[1].Keywords[1] != "steel bar" {
		t.Errorf("keywords = %v", items[1].Keywords)
	}
}

func TestParseInputCSV(t *testing.T) {
	data := []byte("Bill 1 - Substructure,,\nItem,Description,Qty\n1,Concrete grade 30,5\n2,Formwork to sides,\n3,,4\n")
	items, err := ParseInput(data, "boq.csv")
	if err != nil {
		t.Fatalf("ParseInput: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Qty != 5 || items[0].DescClean != "concrete grade 30" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].Qty != 0 {
		t.Errorf("missing qty should default to 0, got %v", items[1].Qty)
	}
}

func TestParseInputErrors(t *testing.T) {
	var pe *errs.ParseError
	if _, err := ParseInput([]byte("x"), "boq.txt"); !errors.As(err, &pe) {
		t.Errorf("unsupported ext: err = %v", err)
	}
	if _, err := ParseInput([]byte("a,b\n1,2\n"), "boq.csv"); !errors.As(err, &pe) {
		t.Errorf("no description column: err = %v", err)
	}
}

func TestFileCatalogLoad(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetSheetRow("Sheet1", "A1", &[]any{"Code", "Description", "Unit", "Rate"})
	_ = f.SetSheetRow("Sheet1", "A2", &[]any{"C-30", "Concrete Grade 30", "m3", 120})
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	path := filepath.Join(t.TempDir(), "prices.xlsx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	items, err := FileCatalog{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 1 || items[0].Code != "C-30" || *items[0].Rate != 120 {
		t.Errorf("items = %+v", items)
	}

	_, err = FileCatalog{Path: filepath.Join(t.TempDir(), "missing.xlsx")}.Load(context.Background())
	var pe *errs.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("missing file: err = %v", err)
	}
}
