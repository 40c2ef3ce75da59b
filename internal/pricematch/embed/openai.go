package embed

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"pricematch-service/internal/progress"
)

const OpenAIName = "openai"

type openAIRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openAIResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// OpenAI: клиент /v1/embeddings.
type OpenAI struct {
	baseURL   string
	model     string
	batchSize int
	client    *http.Client
}

func NewOpenAI(baseURL, model string, client *http.Client) *OpenAI {
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenAI{
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		batchSize: DefaultBatchSize,
		client:    client,
	}
}

func (o *OpenAI) Name() string { return OpenAIName }

func (o *OpenAI) Embed(ctx context.Context, texts []string, credential string, sink progress.Sink) ([][]float32, error) {
	return embedBatched(ctx, OpenAIName, texts, o.batchSize, sink, func(ctx context.Context, batch []string) ([][]float32, error) {
		var resp openAIResponse
		err := postJSON(ctx, o.client, OpenAIName, o.baseURL+"/v1/embeddings", credential,
			openAIRequest{Model: o.model, Input: batch}, &resp)
		if err != nil {
			return nil, err
		}
		if resp.Data == nil {
			return nil, invalidResponse(OpenAIName, "missing data")
		}
		// data[].index: позиция во входе; порядок массива API не обещает
		out := make([][]float32, len(batch))
		for _, d := range resp.Data {
			switch {
			case d.Index < 0 || d.Index >= len(batch):
				return nil, invalidResponse(OpenAIName, fmt.Sprintf("index %d out of range for %d texts", d.Index, len(batch)))
			case out[d.Index] != nil:
				return nil, invalidResponse(OpenAIName, fmt.Sprintf("duplicate index %d", d.Index))
			case len(d.Embedding) == 0:
				return nil, invalidResponse(OpenAIName, fmt.Sprintf("empty embedding at index %d", d.Index))
			}
			out[d.Index] = d.Embedding
		}
		for i, v := range out {
			if v == nil {
				return nil, invalidResponse(OpenAIName, fmt.Sprintf("no embedding for index %d", i))
			}
		}
		return out, nil
	})
}
