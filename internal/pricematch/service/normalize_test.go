package service

import (
	"reflect"
	"testing"
)

func TestClean(t *testing.T) {
	cases := map[string]string{
		"Concrete Grade 30":                          "concrete grade 30",
		"  R.C.C.  slab,  150 mm. thick ":             "rcc slab 150mm thick",
		"Reinforced Cement Concrete (M25) - Columns": "rcc m25 columns",
		"Ceramic tiles 600×600, 12 mm":                "ceramic tiles 600x600 12mm",
		"Paint 2,5 L/m²":                              "paint 2.5l/m2",
		"Excavation 1.5m deep.":                       "excavation 1.5m deep",
		"No. 5 bars":                                  "no 5 bars",
		"Anchor bolts 12 Nos.":                        "anchor bolts 12nr",
		"Door hinges, 4 no.":                          "door hinges 4nr",
		"":                                            "",
	}
	for in, want := range cases {
		if got := Clean(in); got != want {
			t.Errorf("Clean(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	for _, s := range []string{"R.C.C. slab 150 mm.", "Paint 2,5 L/m²", "Rebar Ø12 @ 200 c/c", "No. 5 bars, 12 Nos."} {
		once := Clean(s)
		if twice := Clean(once); twice != once {
			t.Errorf("Clean not idempotent: %q -> %q -> %q", s, once, twice)
		}
	}
}

func TestTokensDropsStopWordsAndDuplicates(t *testing.T) {
	got := tokens("supply and fix rebar 12mm rebar to columns a")
	want := []string{"fix", "rebar", "12mm", "columns"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}
