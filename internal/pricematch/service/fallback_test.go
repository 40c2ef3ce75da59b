package service

import (
	"testing"

	"pricematch-service/internal/pricematch/model"
)

func catalogItem(code, desc string, rate float64, keywords ...string) model.CatalogItem {
	it := model.CatalogItem{Code: code, Description: desc, Unit: "nr", Rate: &rate, Keywords: keywords}
	it.DescClean = catalogClean(it)
	return it
}

func inputItem(desc string, qty float64) model.InputItem {
	return model.InputItem{Description: desc, Qty: qty, DescClean: Clean(desc)}
}

func TestFallbackKeywordWins(t *testing.T) {
	catalog := []model.CatalogItem{
		catalogItem("C-30", "Concrete Grade 30", 120),
		catalogItem("S-01", "High yield steel reinforcement to columns", 950, "rebar"),
		catalogItem("D-07", "Steel door frame", 300),
	}
	inputs := []model.InputItem{inputItem("Supply and fix rebar 12mm", 2.5)}

	res := NewFallback(3, 0.25).Match(catalog, inputs)
	if len(res) != 1 {
		t.Fatalf("results = %d", len(res))
	}
	m := res[0].Matches
	if len(m) == 0 || m[0].Code != "S-01" {
		t.Fatalf("top candidate = %+v, want S-01", m)
	}
	if m[0].Engine != model.EngineLocal {
		t.Errorf("engine = %q", m[0].Engine)
	}
	if m[0].UnitRate == nil || *m[0].UnitRate != 950 {
		t.Errorf("unitRate = %v", m[0].UnitRate)
	}
	if res[0].Quantity != 2.5 || res[0].InputDescription != "Supply and fix rebar 12mm" {
		t.Errorf("result header = %+v", res[0])
	}
}

func TestFallbackTypoAndOrder(t *testing.T) {
	catalog := []model.CatalogItem{
		catalogItem("P-01", "Internal plastering 12mm thick", 18),
		catalogItem("P-02", "External plastering 20mm thick", 25),
		catalogItem("T-01", "Ceramic floor tiles", 60),
	}
	inputs := []model.InputItem{
		inputItem("Ceramic tiles to floors", 40),
		inputItem("Internal plastring 12 mm", 100),
		inputItem("???", 1),
	}

	res := NewFallback(2, 0.25).Match(catalog, inputs)
	if len(res) != len(inputs) {
		t.Fatalf("results = %d, want %d", len(res), len(inputs))
	}
	if len(res[0].Matches) == 0 || res[0].Matches[0].Code != "T-01" {
		t.Errorf("tiles -> %+v", res[0].Matches)
	}
	if len(res[1].Matches) == 0 || res[1].Matches[0].Code != "P-01" {
		t.Errorf("plastering typo -> %+v", res[1].Matches)
	}
	if len(res[1].Matches) > 2 {
		t.Errorf("TopN not applied: %d", len(res[1].Matches))
	}
	if res[2].Matches == nil || len(res[2].Matches) != 0 {
		t.Errorf("no-token input must get empty (non-nil) matches, got %+v", res[2].Matches)
	}
	for _, r := range res {
		for k := 1; k < len(r.Matches); k++ {
			if r.Matches[k].Confidence > r.Matches[k-1].Confidence {
				t.Errorf("matches not best-first: %+v", r.Matches)
			}
		}
	}
}

func TestFallbackEmptyCatalog(t *testing.T) {
	inputs := []model.InputItem{inputItem("Concrete", 1), inputItem("Rebar", 2)}
	res := NewFallback(3, 0.25).Match(nil, inputs)
	if len(res) != 2 {
		t.Fatalf("results = %d, want 2", len(res))
	}
	for _, r := range res {
		if r.Matches == nil || len(r.Matches) != 0 {
			t.Errorf("matches = %+v, want empty", r.Matches)
		}
	}
}

func TestFallbackDeterministic(t *testing.T) {
	catalog := []model.CatalogItem{
		catalogItem("A", "Blockwork 200mm", 40),
		catalogItem("B", "Blockwork 200mm", 41),
	}
	inputs := []model.InputItem{inputItem("blockwork 200 mm", 10)}
	f := NewFallback(1, 0)
	first := f.Match(catalog, inputs)[0].Matches[0].Code
	for i := 0; i < 20; i++ {
		if got := f.Match(catalog, inputs)[0].Matches[0].Code; got != first || got != "A" {
			t.Fatalf("run %d picked %s, first %s", i, got, first)
		}
	}
}
