package embed

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"pricematch-service/internal/progress"
)

const CohereName = "cohere"

// /v1/embed принимает не больше 96 текстов за вызов.
const cohereBatchSize = 96

type cohereRequest struct {
	Model     string   `json:"model"`
	Texts     []string `json:"texts"`
	InputType string   `json:"input_type"`
	Truncate  string   `json:"truncate"`
}

type cohereResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Cohere: клиент /v1/embed. Прайс и строки BOQ кодируются как документы,
// чтобы векторы обеих сторон были сопоставимы.
type Cohere struct {
	baseURL   string
	model     string
	batchSize int
	client    *http.Client
}

func NewCohere(baseURL, model string, client *http.Client) *Cohere {
	if client == nil {
		client = http.DefaultClient
	}
	return &Cohere{
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		batchSize: cohereBatchSize,
		client:    client,
	}
}

func (c *Cohere) Name() string { return CohereName }

func (c *Cohere) Embed(ctx context.Context, texts []string, credential string, sink progress.Sink) ([][]float32, error) {
	return embedBatched(ctx, CohereName, texts, c.batchSize, sink, func(ctx context.Context, batch []string) ([][]float32, error) {
		var resp cohereResponse
		err := postJSON(ctx, c.client, CohereName, c.baseURL+"/v1/embed", credential,
			cohereRequest{Model: c.model, Texts: batch, InputType: "search_document", Truncate: "END"}, &resp)
		if err != nil {
			return nil, err
		}
		if resp.Embeddings == nil {
			return nil, invalidResponse(CohereName, "missing embeddings")
		}
		for i, v := range resp.Embeddings {
			if len(v) == 0 {
				return nil, invalidResponse(CohereName, fmt.Sprintf("empty embedding at index %d", i))
			}
		}
		return resp.Embeddings, nil
	})
}
