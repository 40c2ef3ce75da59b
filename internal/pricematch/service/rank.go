package service

import "math"

// Ranked: лучшая позиция прайса для одного входного вектора.
// Index = -1, если прайс пуст.
type Ranked struct {
	Index int
	Score float64
}

// Normalize возвращает v/‖v‖; у нулевого вектора норма считается равной 1.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	n := math.Sqrt(sum)
	if n == 0 {
		n = 1
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / n)
	}
	return out
}

func normalizeAll(vs [][]float32) [][]float32 {
	out := make([][]float32, len(vs))
	for i, v := range vs {
		out[i] = Normalize(v)
	}
	return out
}

func dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var s float64
	for i := 0; i < n; i++ {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

// Rank: для каждого входного вектора ищем позицию прайса с максимальным косинусом.
// При равенстве побеждает первая по порядку прайса. Без побочных эффектов.
func Rank(inputs, catalog [][]float32) []Ranked {
	in := normalizeAll(inputs)
	cat := normalizeAll(catalog)

	out := make([]Ranked, len(in))
	for i, v := range in {
		best := Ranked{Index: -1, Score: math.Inf(-1)}
		for j, c := range cat {
			if s := dot(v, c); s > best.Score {
				best = Ranked{Index: j, Score: s}
			}
		}
		if best.Index < 0 {
			best.Score = 0
		}
		out[i] = best
	}
	return out
}

// Round3: уверенность в ответе, косинус, округлённый до тысячных.
func Round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
