package api

import (
	"context"
	"sync"

	"github.com/diogo/advisorchat/internal/models"
)

// MockClient is a mock implementation of AskerInterface for testing
type MockClient struct {
	// Mock return values
	AskResult   *models.AnswerResult
	AskErr      error
	EndpointVal string
	// AskFunc overrides AskResult/AskErr when set
	AskFunc func(ctx context.Context, question string) (*models.AnswerResult, error)

	mu        sync.Mutex
	questions []string
}

// Ensure MockClient implements AskerInterface
var _ AskerInterface = (*MockClient)(nil)

func (m *MockClient) Ask(ctx context.Context, question string) (*models.AnswerResult, error) {
	m.mu.Lock()
	m.questions = append(m.questions, question)
	m.mu.Unlock()

	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return m.AskResult, m.AskErr
}

func (m *MockClient) Endpoint() string {
	if m.EndpointVal == "" {
		return models.DefaultEndpoint
	}
	return m.EndpointVal
}

// Questions returns every question received, in order
func (m *MockClient) Questions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.questions))
	copy(out, m.questions)
	return out
}

// Calls returns how many questions were received
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.questions)
}
