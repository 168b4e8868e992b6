package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response      string
	Embedding     []float32
	Err           error
	GenerateCalls int
	LastPrompt    string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.GenerateCalls++
	m.LastPrompt = prompt
	return m.Response, m.Err
}

func (m *MockClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Embedding, nil
}
