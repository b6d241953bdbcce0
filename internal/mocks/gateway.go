package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/promptgen-api/internal/generation"
)

// GatewayCall records the arguments of one Invoke call.
type GatewayCall struct {
	Ctx             context.Context
	SystemDirective string
	Instruction     string
	Model           string
}

// MockGateway implements generation.Gateway for testing
type MockGateway struct {
	// InvokeFn allows test cases to mock the Invoke behavior
	InvokeFn func(ctx context.Context, systemDirective, instruction, model string) (string, error)

	// Default response values
	Response string
	Err      error

	// mu protects calls for concurrent test cases
	mu    sync.Mutex
	calls []GatewayCall
}

var _ generation.Gateway = (*MockGateway)(nil)

// NewMockGateway returns a MockGateway that answers every call with response.
func NewMockGateway(response string) *MockGateway {
	return &MockGateway{Response: response}
}

// NewFailingGateway returns a MockGateway whose calls fail with err.
func NewFailingGateway(err error) *MockGateway {
	return &MockGateway{Err: err}
}

// Invoke implements the generation.Gateway interface
func (m *MockGateway) Invoke(ctx context.Context, systemDirective, instruction, model string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, GatewayCall{
		Ctx:             ctx,
		SystemDirective: systemDirective,
		Instruction:     instruction,
		Model:           model,
	})
	m.mu.Unlock()

	if m.InvokeFn != nil {
		return m.InvokeFn(ctx, systemDirective, instruction, model)
	}

	return m.Response, m.Err
}

// Calls returns a copy of all recorded calls.
func (m *MockGateway) Calls() []GatewayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GatewayCall(nil), m.calls...)
}

// CallCount returns how many times Invoke was called.
func (m *MockGateway) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
