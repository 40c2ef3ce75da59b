package service

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"pricematch-service/internal/pricematch/model"
)

// Опечатки в словах ("reinforcment", "plastring") ловим, в числах нет:
// 150mm и 160mm это разные позиции.
const (
	fuzzyMinLen = 4
	fuzzyMinSim = 0.8
)

// lexIndex: инвертированный индекс прайса для лексического матчера.
type lexIndex struct {
	items    []model.CatalogItem
	postings map[string][]int // token -> индексы позиций по возрастанию
	vocab    []string         // отсортированные токены, для детерминированного обхода
	descTri  []map[string]struct{}
	keys     [][]string // очищенные keywords+phrases по позициям
}

func buildLexIndex(items []model.CatalogItem) *lexIndex {
	idx := &lexIndex{
		items:    items,
		postings: make(map[string][]int),
		descTri:  make([]map[string]struct{}, len(items)),
		keys:     make([][]string, len(items)),
	}
	for i, it := range items {
		for _, t := range tokens(it.DescClean) {
			idx.postings[t] = append(idx.postings[t], i)
		}
		idx.descTri[i] = trigramSet(Clean(it.Description))
		for _, k := range append(append([]string{}, it.Keywords...), it.Phrases...) {
			if c := Clean(k); c != "" {
				idx.keys[i] = append(idx.keys[i], c)
			}
		}
	}
	idx.vocab = make([]string, 0, len(idx.postings))
	for t := range idx.postings {
		idx.vocab = append(idx.vocab, t)
	}
	sort.Strings(idx.vocab)
	return idx
}

// expand: токен запроса -> токены словаря с весом (1 = точное совпадение).
func (idx *lexIndex) expand(tok string) map[string]float64 {
	out := make(map[string]float64)
	if _, ok := idx.postings[tok]; ok {
		out[tok] = 1
	}
	if utf8.RuneCountInString(tok) < fuzzyMinLen || strings.IndexFunc(tok, unicode.IsDigit) >= 0 {
		return out
	}
	first, _ := utf8.DecodeRuneInString(tok)
	n := utf8.RuneCountInString(tok)
	for _, v := range idx.vocab {
		if v == tok {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(v); r != first {
			continue
		}
		if d := utf8.RuneCountInString(v) - n; d > 2 || d < -2 {
			continue
		}
		if s := similarity(tok, v); s >= fuzzyMinSim {
			out[v] = s
		}
	}
	return out
}

func trigramSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	if s == "" {
		return m
	}
	p := " " + s + " "
	r := []rune(p)
	if len(r) < 3 {
		m[p] = struct{}{}
		return m
	}
	for i := 0; i <= len(r)-3; i++ {
		m[string(r[i:i+3])] = struct{}{}
	}
	return m
}

// dice: коэффициент Дайса по триграммам, [0..1]
func dice(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	common := 0
	for g := range small {
		if _, ok := large[g]; ok {
			common++
		}
	}
	return 2 * float64(common) / float64(len(a)+len(b))
}
