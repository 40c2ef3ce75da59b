package service

import (
	"sort"

	"pricematch-service/internal/pricematch/model"
)

// Веса итогового балла лексического матчера.
const (
	wCoverage = 0.5
	wDice     = 0.2
	wKeyword  = 0.3
)

// Fallback: матчер без сети (токены, опечатки, триграммы и ключевые слова прайса).
// Работает, когда ни одного ключа провайдера не передали.
type Fallback struct {
	TopN     int
	MinScore float64
}

func NewFallback(topN int, minScore float64) *Fallback {
	if topN <= 0 {
		topN = 1
	}
	return &Fallback{TopN: topN, MinScore: minScore}
}

type scored struct {
	idx   int
	score float64
}

// Match отдаёт ровно по одному MatchResult на строку. Строка без кандидатов
// получает пустой matches: это не ошибка прогона.
func (f *Fallback) Match(catalog []model.CatalogItem, inputs []model.InputItem) []model.MatchResult {
	results := model.EmptyResults(inputs)
	if len(catalog) == 0 {
		return results
	}
	idx := buildLexIndex(catalog)
	for i, in := range inputs {
		for _, s := range f.rankOne(idx, in) {
			results[i].Matches = append(results[i].Matches,
				model.NewCandidate(model.EngineLocal, catalog[s.idx], Round3(s.score)))
		}
	}
	return results
}

func (f *Fallback) rankOne(idx *lexIndex, in model.InputItem) []scored {
	toks := tokens(in.DescClean)
	if len(toks) == 0 {
		return nil
	}

	// покрытие: для каждого токена запроса лучший вес среди совпавших токенов позиции
	cover := make(map[int]float64)
	for _, t := range toks {
		best := make(map[int]float64)
		for v, w := range idx.expand(t) {
			for _, j := range idx.postings[v] {
				if w > best[j] {
					best[j] = w
				}
			}
		}
		for j, w := range best {
			cover[j] += w
		}
	}

	inTri := trigramSet(in.DescClean)
	var out []scored
	for j := range idx.items {
		kw := keywordHit(in.DescClean, idx.keys[j])
		c, ok := cover[j]
		if !ok && !kw {
			continue
		}
		s := wCoverage*c/float64(len(toks)) + wDice*dice(inTri, idx.descTri[j])
		if kw {
			s += wKeyword
		}
		s = min(s, 1)
		if s >= f.MinScore {
			out = append(out, scored{idx: j, score: s})
		}
	}
	// при равенстве: порядок прайса
	sort.SliceStable(out, func(a, b int) bool { return out[a].score > out[b].score })
	if len(out) > f.TopN {
		out = out[:f.TopN]
	}
	return out
}

func keywordHit(clean string, keys []string) bool {
	for _, k := range keys {
		if hasWordSeq(clean, k) {
			return true
		}
	}
	return false
}
