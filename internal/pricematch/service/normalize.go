package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Сокращения из сметной практики: одна и та же работа пишется по-разному.
var abbrev = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`reinforced cement concrete`), "rcc"},
	{regexp.MustCompile(`plain cement concrete`), "pcc"},
	{regexp.MustCompile(`\br\.c\.c\.?`), "rcc"},
	{regexp.MustCompile(`\bp\.c\.c\.?`), "pcc"},
	{regexp.MustCompile(`\b(mm|cm)\.`), "$1"},
	{regexp.MustCompile(`\bsq\.?\s?m\b\.?`), "m2"},
	{regexp.MustCompile(`\bcu\.?\s?m\b\.?`), "m3"},
	// "12 Nos." и "4 no." это штуки, а "No. 5 bars" это номер
	{regexp.MustCompile(`(\d)\s*nos?\b\.?`), "$1 nr"},
	{regexp.MustCompile(`\bnos\.`), "nr"},
	{regexp.MustCompile(`×`), "x"},
}

// 0,5 → 0.5
var decComma = regexp.MustCompile(`(\d),(\d)`)

// Единицы, которые склеиваем с числом: "12 mm" → "12mm", "3.2 %" → "3.2%".
const unitWord = `mm|cm|m|m2|m3|km|kg|g|t|ton|tons|l|ltr|nr|kn|kw|kva`

var (
	reAttachNumUnit = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s+(` + unitWord + `)\b`)
	reAttachPercent = regexp.MustCompile(`(\d)\s+%`)
)

// Разрешаем буквы/цифры/пробелы + десятичную точку, проценты и дроби.
var punct = regexp.MustCompile(`[^\p{L}\p{N}\s.%/]+`)

// Clean: общий конвейер для описаний прайса и BOQ.
// Результат идёт и в эмбеддинги, и в лексический матчер.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	// 1) NFKC: m² → m2, полноширинные цифры, лигатуры
	out := norm.NFKC.String(s)

	// 2) Регистр
	out = strings.ToLower(out)

	// 3) Сокращения (до чистки пунктуации: они сами с точками)
	for _, a := range abbrev {
		out = a.re.ReplaceAllString(out, a.repl)
	}

	// 4) Десятичные: 3,2 → 3.2
	out = decComma.ReplaceAllString(out, "$1.$2")

	// 5) Пунктуация → пробел; точки остаются только внутри чисел
	out = punct.ReplaceAllString(out, " ")
	out = dropLooseDots(out)

	// 6) СКЛЕЙКА "число + единица"
	out = attachNumberUnits(out)

	return collapseSpaces(out)
}

// Точка, не зажатая между цифрами: конец сокращения или мусор.
func dropLooseDots(s string) string {
	r := []rune(s)
	for i, c := range r {
		if c != '.' {
			continue
		}
		if i > 0 && i < len(r)-1 && unicode.IsDigit(r[i-1]) && unicode.IsDigit(r[i+1]) {
			continue
		}
		r[i] = ' '
	}
	return string(r)
}

// Итеративная склейка по всей строке.
func attachNumberUnits(s string) string {
	prev := ""
	out := collapseSpaces(s)
	for out != prev {
		prev = out
		out = reAttachNumUnit.ReplaceAllString(out, "$1$2")
		out = reAttachPercent.ReplaceAllString(out, "$1%")
	}
	return out
}

// Схлопывание пробелов
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "by": true,
	"for": true, "from": true, "in": true, "including": true, "of": true,
	"on": true, "or": true, "the": true, "to": true, "with": true, "all": true,
	"per": true, "etc": true, "complete": true, "supply": true, "provide": true,
	"providing": true, "install": true, "installation": true, "fixing": true,
	"laying": true, "works": true, "work": true,
}

// tokens: значимые слова уже очищенной строки, без повторов, в порядке появления.
func tokens(clean string) []string {
	f := strings.Fields(clean)
	out := make([]string, 0, len(f))
	seen := make(map[string]bool, len(f))
	for _, t := range f {
		if stopWords[t] || seen[t] {
			continue
		}
		if len([]rune(t)) < 2 && !unicode.IsDigit([]rune(t)[0]) {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
