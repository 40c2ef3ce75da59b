package model

// CatalogItem: строка мастер-прайса.
type CatalogItem struct {
	Code        string   `json:"code"`
	Ref         string   `json:"ref,omitempty"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	SubCategory string   `json:"subCategory,omitempty"`
	Unit        string   `json:"unit"`
	Rate        *float64 `json:"rate"` // nil: в прайсе нет расценки
	Keywords    []string `json:"keywords,omitempty"`
	Phrases     []string `json:"phrases,omitempty"`
	DescClean   string   `json:"-"` // description+category+subCategory+keywords+phrases после Clean
}

// InputItem: строка загруженного BOQ.
type InputItem struct {
	Description string  `json:"description"`
	Qty         float64 `json:"qty"` // NoQty, если в строке нет количества
	DescClean   string  `json:"-"`
}

// NoQty: количество строки без числа в колонке Qty.
const NoQty = 0

// Engine tags.
const (
	EngineLocal = "local"
)

// Candidate: одно предложение одной стратегии.
type Candidate struct {
	Engine      string   `json:"engine"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Unit        string   `json:"unit"`
	UnitRate    *float64 `json:"unitRate"`
	Confidence  float64  `json:"confidence"`
}

// MatchResult: ответ по одной входной строке; позиция в списке = позиция строки в файле.
type MatchResult struct {
	InputDescription string      `json:"inputDescription"`
	Quantity         float64     `json:"quantity"`
	Matches          []Candidate `json:"matches"`
}

// NewCandidate заполняет поля кандидата из позиции прайса.
func NewCandidate(engine string, it CatalogItem, confidence float64) Candidate {
	return Candidate{
		Engine:      engine,
		Code:        it.Code,
		Description: it.Description,
		Unit:        it.Unit,
		UnitRate:    it.Rate,
		Confidence:  confidence,
	}
}

// EmptyResults: по результату на каждую строку, кандидатов пока нет.
func EmptyResults(inputs []InputItem) []MatchResult {
	out := make([]MatchResult, len(inputs))
	for i, in := range inputs {
		out[i] = MatchResult{
			InputDescription: in.Description,
			Quantity:         in.Qty,
			Matches:          []Candidate{},
		}
	}
	return out
}
