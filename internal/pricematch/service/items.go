package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"regexp"
	"strings"

	"pricematch-service/internal/fileio"
	"pricematch-service/internal/pricematch/errs"
	"pricematch-service/internal/pricematch/model"
	"pricematch-service/internal/utils"
)

type field int

const (
	fCode field = iota
	fRef
	fDesc
	fCategory
	fSubCategory
	fUnit
	fRate
	fQty
	fKeywords
	fPhrases
)

// варианты заголовков уже в виде fileio.NormHeader
var fieldAliases = map[field][]string{
	fCode:        {"code", "item code", "item no", "code no"},
	fRef:         {"ref", "reference", "ref no"},
	fDesc:        {"description", "item description", "desc", "particulars", "description of work"},
	fCategory:    {"category", "section", "trade"},
	fSubCategory: {"sub category", "subcategory", "sub section"},
	fUnit:        {"unit", "uom", "units"},
	fRate:        {"rate", "unit rate", "price", "unit price"},
	fQty:         {"qty", "quantity", "qnty"},
	fKeywords:    {"keywords", "keyword", "tags"},
	fPhrases:     {"phrases", "phrase", "synonyms"},
}

var (
	catalogFields = []field{fCode, fRef, fDesc, fCategory, fSubCategory, fUnit, fRate, fKeywords, fPhrases}
	inputFields   = []field{fDesc, fQty}
)

// resolveColumns: сначала точное совпадение нормализованного заголовка,
// потом вхождение слова ("Rate (AED)" → rate) среди ещё не занятых колонок.
func resolveColumns(headers []string, fields []field) map[field]string {
	out := make(map[field]string, len(fields))
	claimed := make(map[string]bool, len(headers))
	norms := make([]string, len(headers))
	for i, h := range headers {
		norms[i] = fileio.NormHeader(h)
	}

	for _, f := range fields {
		for i, h := range headers {
			if claimed[h] || !containsAlias(fieldAliases[f], norms[i]) {
				continue
			}
			out[f], claimed[h] = h, true
			break
		}
	}

	for _, f := range fields {
		if _, ok := out[f]; ok {
			continue
		}
		best, bestLen := "", 0
		for i, h := range headers {
			if claimed[h] {
				continue
			}
			for _, a := range fieldAliases[f] {
				if len(a) > bestLen && hasWordSeq(norms[i], a) {
					best, bestLen = h, len(a)
				}
			}
		}
		if best != "" {
			out[f], claimed[best] = best, true
		}
	}
	return out
}

func containsAlias(aliases []string, n string) bool {
	for _, a := range aliases {
		if a == n {
			return true
		}
	}
	return false
}

// hasWordSeq: "rate aed" содержит "rate" как целое слово, "separate" не содержит.
func hasWordSeq(s, words string) bool {
	return strings.Contains(" "+s+" ", " "+words+" ")
}

// повтор шапки посреди листа (печатные BOQ так делают на каждой странице)
func looksLikeHeader(desc string) bool {
	return containsAlias(fieldAliases[fDesc], fileio.NormHeader(desc))
}

var listSep = regexp.MustCompile(`[,;|\n]+`)

func splitList(s string) []string {
	var out []string
	for _, p := range listSep.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cell(rec map[string]string, cols map[field]string, f field) string {
	k, ok := cols[f]
	if !ok {
		return ""
	}
	return strings.TrimSpace(rec[k])
}

// catalogClean: строка сравнения позиции прайса.
func catalogClean(it model.CatalogItem) string {
	parts := []string{it.Description, it.Category, it.SubCategory}
	parts = append(parts, it.Keywords...)
	parts = append(parts, it.Phrases...)
	return Clean(strings.Join(parts, " "))
}

// CatalogFromTables собирает позиции прайса со всех листов, где нашлась колонка описания.
// skipped: листы без такой колонки.
func CatalogFromTables(tables []fileio.Table) (items []model.CatalogItem, skipped []string) {
	for _, t := range tables {
		cols := resolveColumns(t.Headers, catalogFields)
		if _, ok := cols[fDesc]; !ok {
			skipped = append(skipped, t.Sheet)
			continue
		}
		for _, rec := range t.Records {
			desc := cell(rec, cols, fDesc)
			if desc == "" || looksLikeHeader(desc) {
				continue
			}
			it := model.CatalogItem{
				Code:        cell(rec, cols, fCode),
				Ref:         cell(rec, cols, fRef),
				Description: desc,
				Category:    cell(rec, cols, fCategory),
				SubCategory: cell(rec, cols, fSubCategory),
				Unit:        cell(rec, cols, fUnit),
				Keywords:    splitList(cell(rec, cols, fKeywords)),
				Phrases:     splitList(cell(rec, cols, fPhrases)),
			}
			if v, ok := utils.ParseNumber(cell(rec, cols, fRate)); ok {
				it.Rate = &v
			}
			it.DescClean = catalogClean(it)
			items = append(items, it)
		}
	}
	return items, skipped
}

// InputsFromTables: строки BOQ в порядке листов и строк.
func InputsFromTables(tables []fileio.Table) ([]model.InputItem, error) {
	var out []model.InputItem
	found := false
	for _, t := range tables {
		cols := resolveColumns(t.Headers, inputFields)
		if _, ok := cols[fDesc]; !ok {
			continue
		}
		found = true
		for _, rec := range t.Records {
			desc := cell(rec, cols, fDesc)
			if desc == "" || looksLikeHeader(desc) {
				continue
			}
			qty, ok := utils.ParseNumber(cell(rec, cols, fQty))
			if !ok {
				qty = model.NoQty
			}
			out = append(out, model.InputItem{Description: desc, Qty: qty, DescClean: Clean(desc)})
		}
	}
	if !found {
		return nil, errors.New("no description column found")
	}
	return out, nil
}

// ParseInput читает загруженный BOQ.
func ParseInput(data []byte, filename string) ([]model.InputItem, error) {
	tables, err := fileio.ReadAnyTables(bytes.NewReader(data), filename, 0)
	if err != nil {
		return nil, &errs.ParseError{Source: "input", Err: err}
	}
	items, err := InputsFromTables(tables)
	if err != nil {
		return nil, &errs.ParseError{Source: "input", Err: err}
	}
	return items, nil
}

// CatalogSource отдаёт свежий прайс на каждый прогон.
type CatalogSource interface {
	Load(ctx context.Context) ([]model.CatalogItem, error)
}

// FileCatalog читает прайс с диска при каждом Load.
type FileCatalog struct {
	Path string
}

func (c FileCatalog) Load(ctx context.Context) ([]model.CatalogItem, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, &errs.ParseError{Source: "price list", Err: err}
	}
	defer f.Close()

	tables, err := fileio.ReadAnyTables(f, c.Path, 0)
	if err != nil {
		return nil, &errs.ParseError{Source: "price list", Err: err}
	}
	items, _ := CatalogFromTables(tables)
	if len(items) == 0 {
		return nil, &errs.ParseError{Source: "price list", Err: errors.New("no items with a description column found")}
	}
	return items, nil
}

// StaticCatalog: прайс, уже лежащий в памяти.
type StaticCatalog []model.CatalogItem

func (c StaticCatalog) Load(context.Context) ([]model.CatalogItem, error) {
	return c, nil
}
