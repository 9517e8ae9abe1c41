package commands

import (
	"context"
	"sync"

	"github.com/aatumaykin/bearobot/internal/purge"
)

// MockPurgeService is a mock implementation of PurgeServiceInterface for testing
type MockPurgeService struct {
	mu     sync.Mutex
	result *purge.Result
	err    error

	requests []purge.Request
}

func (m *MockPurgeService) Run(ctx context.Context, req purge.Request, responder purge.Responder) (*purge.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return m.result, m.err
}

// Requests returns the requests passed to Run
func (m *MockPurgeService) Requests() []purge.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]purge.Request(nil), m.requests...)
}

// MockResponder records replies
type MockResponder struct {
	mu       sync.Mutex
	replyErr error
	replies  []string
}

func (m *MockResponder) Reply(ctx context.Context, content string) (purge.StatusMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, content)
	if m.replyErr != nil {
		return nil, m.replyErr
	}
	return nopStatus{}, nil
}

// Replies returns every reply sent so far
func (m *MockResponder) Replies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.replies...)
}

type nopStatus struct{}

func (nopStatus) Edit(context.Context, string) error { return nil }
