package gemini

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

type fakeModels struct {
	mu sync.Mutex

	generateResp *genai.GenerateContentResponse
	generateErr  error
	countResp    *genai.CountTokensResponse
	countErr     error

	model       string
	contents    []*genai.Content
	config      *genai.GenerateContentConfig
	countCalls  int
	countedText string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.model = model
	f.contents = contents
	f.config = config
	return f.generateResp, f.generateErr
}

func (f *fakeModels) CountTokens(_ context.Context, model string, contents []*genai.Content, _ *genai.CountTokensConfig) (*genai.CountTokensResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.model = model
	f.countCalls++
	f.countedText = contentText(contents)
	return f.countResp, f.countErr
}

func contentText(contents []*genai.Content) string {
	out := ""
	for _, c := range contents {
		if c == nil {
			continue
		}
		for _, p := range c.Parts {
			if p != nil {
				out += p.Text
			}
		}
	}
	return out
}

func textResponse(text string, candidateTokens int32) *genai.GenerateContentResponse {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
	if candidateTokens > 0 {
		resp.UsageMetadata = &genai.GenerateContentResponseUsageMetadata{
			CandidatesTokenCount: candidateTokens,
			TotalTokenCount:      candidateTokens + 10,
		}
	}
	return resp
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string]int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string]int{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.items[key]
	return n, ok
}

func (m *memoryCache) Set(_ context.Context, key string, tokens int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = tokens
}

func newTestAdapter(f *fakeModels, maxTokens int) *Adapter {
	return New(context.Background(), Config{Model: "gemini-test", MaxTokens: maxTokens, Models: f})
}
