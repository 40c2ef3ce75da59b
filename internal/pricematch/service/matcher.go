package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"pricematch-service/internal/pricematch/embed"
	"pricematch-service/internal/pricematch/errs"
	"pricematch-service/internal/pricematch/model"
	"pricematch-service/internal/progress"
)

// State: шаг жизненного цикла одного запроса.
type State string

const (
	StateReceived         State = "RECEIVED"
	StateLoadingCatalog   State = "LOADING_CATALOG"
	StateEmbeddingCatalog State = "EMBEDDING_CATALOG"
	StateEmbeddingInputs  State = "EMBEDDING_INPUTS"
	StateRanking          State = "RANKING"
	StateFusing           State = "FUSING"
	StateDone             State = "DONE"
	StateFailed           State = "FAILED"
)

// Request: одна загрузка BOQ.
type Request struct {
	RequestID   string
	FileName    string
	Data        []byte
	Credentials map[string]string // provider name -> key; в логи не попадают
	Sink        progress.Sink     // nil: прогресс никуда не транслируется
}

// Matcher выбирает стратегии по переданным ключам, гоняет их по очереди
// и сливает лучшие кандидаты в один ответ.
type Matcher struct {
	catalog  CatalogSource
	registry *embed.Registry
	fallback *Fallback // nil: локальный матчер выключен
	logger   zerolog.Logger
}

func NewMatcher(catalog CatalogSource, registry *embed.Registry, fallback *Fallback, logger zerolog.Logger) *Matcher {
	if registry == nil {
		registry = embed.NewRegistry()
	}
	return &Matcher{catalog: catalog, registry: registry, fallback: fallback, logger: logger}
}

// ProviderNames: зарегистрированные провайдеры в порядке запуска.
func (m *Matcher) ProviderNames() []string { return m.registry.Names() }

// run: состояние одного прогона.
type run struct {
	log   zerolog.Logger
	sink  progress.Sink
	state State
}

func (r *run) enter(s State) {
	r.log.Debug().Str("from", string(r.state)).Str("to", string(s)).Msg("match state")
	r.state = s
}

// progress: строка уходит и подписчикам, и в лог.
func (r *run) progress(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	r.log.Info().Msg(line)
	r.sink.Accept(line)
}

// Match выполняет прогон целиком. При любой ошибке частичный результат не возвращается.
func (m *Matcher) Match(ctx context.Context, req Request) ([]model.MatchResult, error) {
	r := &run{
		log:   m.logger.With().Str("rid", req.RequestID).Logger(),
		sink:  progress.OrDiscard(req.Sink),
		state: StateReceived,
	}

	res, err := m.exec(ctx, r, req)
	if err != nil {
		r.enter(StateFailed)
		r.log.Error().Err(err).Msg("price match failed")
		r.sink.Accept("Price match error: " + err.Error())
		return nil, err
	}

	r.progress("Price match results: %d", len(res))
	r.enter(StateDone)
	r.sink.Accept(progress.Done)
	return res, nil
}

func (m *Matcher) exec(ctx context.Context, r *run, req Request) ([]model.MatchResult, error) {
	if len(req.Data) == 0 {
		return nil, errs.Validation("No file uploaded")
	}
	r.progress("Price match upload: name=%s size=%d", req.FileName, len(req.Data))
	for _, name := range m.registry.Names() {
		r.progress("%s key provided: %t", name, strings.TrimSpace(req.Credentials[name]) != "")
	}

	selected := m.registry.Select(req.Credentials)
	if len(selected) == 0 && m.fallback == nil {
		return nil, errs.Validation("no embedding provider key supplied and the local matcher is disabled")
	}

	r.enter(StateLoadingCatalog)
	inputs, err := ParseInput(req.Data, req.FileName)
	if err != nil {
		return nil, err
	}
	catalog, err := m.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	r.progress("Price items: %d Input items: %d", len(catalog), len(inputs))

	if len(selected) == 0 {
		r.progress("No provider key supplied, using local matcher")
		res := m.fallback.Match(catalog, inputs)
		r.enter(StateFusing)
		return res, nil
	}
	if len(inputs) == 0 {
		r.enter(StateFusing)
		return []model.MatchResult{}, nil
	}

	strategies := make([][]*model.Candidate, 0, len(selected))
	for _, sel := range selected {
		best, err := m.runProvider(ctx, r, sel, catalog, inputs)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, best)
	}

	r.enter(StateFusing)
	return Fuse(inputs, strategies), nil
}

// runProvider: эмбеддинги прайса, эмбеддинги строк, ранжирование. Первая ошибка провайдера завершает прогон.
func (m *Matcher) runProvider(ctx context.Context, r *run, sel embed.Selected, catalog []model.CatalogItem, inputs []model.InputItem) ([]*model.Candidate, error) {
	name := sel.Provider.Name()
	sink := progress.SinkFunc(func(line string) { r.progress("%s", line) })

	r.enter(StateEmbeddingCatalog)
	r.progress("Fetching %s embeddings for price list", name)
	catVecs, err := sel.Provider.Embed(ctx, cleanTexts(catalog), sel.Credential, sink)
	if err != nil {
		return nil, err
	}

	r.enter(StateEmbeddingInputs)
	r.progress("Fetching %s embeddings for input items", name)
	inTexts := make([]string, len(inputs))
	for i, in := range inputs {
		inTexts[i] = in.DescClean
	}
	inVecs, err := sel.Provider.Embed(ctx, inTexts, sel.Credential, sink)
	if err != nil {
		return nil, err
	}

	if err := checkDims(name, catVecs, inVecs); err != nil {
		return nil, err
	}

	r.enter(StateRanking)
	r.progress("Calculating %s similarities", name)
	ranked := Rank(inVecs, catVecs)
	out := make([]*model.Candidate, len(ranked))
	for i, rk := range ranked {
		if rk.Index < 0 {
			r.log.Debug().Err(errs.ErrNoMatch).Str("provider", name).Int("line", i).Msg("no candidate")
			continue
		}
		c := model.NewCandidate(name, catalog[rk.Index], Round3(rk.Score))
		out[i] = &c
	}
	return out, nil
}

// checkDims: все векторы одного провайдера обязаны быть одной длины,
// иначе косинус считается по обрезанным векторам.
func checkDims(provider string, sets ...[][]float32) error {
	dim := -1
	for _, vecs := range sets {
		for _, v := range vecs {
			if dim < 0 {
				dim = len(v)
			}
			if len(v) != dim {
				return &errs.ProviderError{
					Provider: provider,
					Code:     http.StatusOK,
					Message:  fmt.Sprintf("invalid response: embedding dimension %d, expected %d", len(v), dim),
				}
			}
		}
	}
	return nil
}

func cleanTexts(items []model.CatalogItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.DescClean
	}
	return out
}

// Fuse: у каждой строки лучшие кандидаты стратегий в порядке их запуска,
// отсутствующий кандидат просто пропускается.
func Fuse(inputs []model.InputItem, strategies [][]*model.Candidate) []model.MatchResult {
	out := model.EmptyResults(inputs)
	for _, best := range strategies {
		for i := range out {
			if i < len(best) && best[i] != nil {
				out[i].Matches = append(out[i].Matches, *best[i])
			}
		}
	}
	return out
}
