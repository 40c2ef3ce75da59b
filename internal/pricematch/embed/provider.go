// Package embed talks to remote embedding providers.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"pricematch-service/internal/pricematch/errs"
	"pricematch-service/internal/progress"
)

// Provider превращает тексты в векторы. Выход той же длины и в том же порядке.
type Provider interface {
	Name() string
	Embed(ctx context.Context, texts []string, credential string, sink progress.Sink) ([][]float32, error)
}

// DefaultBatchSize укладывается в лимиты запроса у всех известных провайдеров.
const DefaultBatchSize = 100

// batchFunc выполняет один удалённый вызов на батч.
type batchFunc func(ctx context.Context, batch []string) ([][]float32, error)

// embedBatched режет texts на батчи и вызывает call строго по порядку.
// На первой ошибке останавливается: следующие батчи не отправляются.
func embedBatched(ctx context.Context, provider string, texts []string, size int, sink progress.Sink, call batchFunc) ([][]float32, error) {
	if size <= 0 {
		size = DefaultBatchSize
	}
	sink = progress.OrDiscard(sink)
	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += size {
		end := min(i+size, len(texts))
		batch := texts[i:end]
		sink.Accept(fmt.Sprintf("Requesting embeddings batch %d", i/size+1))
		vecs, err := call(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(vecs) != len(batch) {
			return nil, &errs.ProviderError{
				Provider: provider,
				Code:     http.StatusOK,
				Message:  fmt.Sprintf("invalid response: %d embeddings for %d texts", len(vecs), len(batch)),
			}
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// invalidResponse: ответ 2xx, но содержимое не годится.
func invalidResponse(provider, msg string) error {
	return &errs.ProviderError{Provider: provider, Code: http.StatusOK, Message: "invalid response: " + msg}
}

// postJSON: общий POST с bearer-авторизацией. Не-2xx → ProviderError с телом ответа.
func postJSON(ctx context.Context, client *http.Client, provider, url, credential string, payload, dst any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", provider, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", provider, err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return &errs.ProviderError{Provider: provider, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errs.ProviderError{Provider: provider, Code: resp.StatusCode, Message: err.Error(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errs.ProviderError{Provider: provider, Code: resp.StatusCode, Message: string(bytes.TrimSpace(raw))}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &errs.ProviderError{Provider: provider, Code: resp.StatusCode, Message: "invalid response: " + err.Error(), Err: err}
	}
	return nil
}
