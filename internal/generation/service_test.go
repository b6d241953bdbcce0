package generation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/promptgen-api/internal/domain"
	"github.com/phrazzld/promptgen-api/internal/generation"
	"github.com/phrazzld/promptgen-api/internal/mocks"
)

type recordedOutcome struct {
	category string
	outcome  string
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []recordedOutcome
}

func (r *fakeRecorder) ObserveGeneration(category, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, recordedOutcome{category: category, outcome: outcome})
}

func newTestService(t *testing.T, gateway generation.Gateway, opts ...generation.Option) *generation.Service {
	t.Helper()
	svc, err := generation.NewService(gateway, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
	require.NoError(t, err)
	return svc
}

func TestNewService_NilGateway(t *testing.T) {
	t.Parallel()

	_, err := generation.NewService(nil, nil)
	assert.Error(t, err)
}

func TestService_Generate_EndToEnd(t *testing.T) {
	t.Parallel()

	gateway := mocks.NewMockGateway(
		`{"title":"Dystopian City Story","prompt":"Write a narrative...","category":"writing"}`,
	)
	recorder := &fakeRecorder{}
	svc := newTestService(t, gateway, generation.WithRecorder(recorder))

	result, err := svc.Generate(context.Background(), domain.GenerationRequest{
		Topic:    "a sci-fi story about robots",
		Category: "Writing",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.GenerationResult{
		Title:    "Dystopian City Story",
		Prompt:   "Write a narrative...",
		Category: "writing",
	}, result)

	require.Equal(t, 1, gateway.CallCount())
	call := gateway.Calls()[0]
	assert.Equal(t, generation.SystemDirective, call.SystemDirective)
	assert.Contains(t, call.Instruction, `"category": "writing"`)
	assert.Contains(t, call.Instruction, `Inspired by the topic: "a sci-fi story about robots"`)
	assert.Contains(t, call.Instruction, domain.DefaultCatalog().ResolveProfile("writing").RoleInstruction)
	assert.Empty(t, call.Model)

	assert.Equal(t, []recordedOutcome{{category: "writing", outcome: generation.OutcomeSuccess}}, recorder.outcomes)
}

func TestService_Generate_RejectsBlankInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  domain.GenerationRequest
	}{
		{name: "empty topic", req: domain.GenerationRequest{Topic: "", Category: "coding"}},
		{name: "whitespace topic", req: domain.GenerationRequest{Topic: "   ", Category: "coding"}},
		{name: "empty category", req: domain.GenerationRequest{Topic: "robots", Category: ""}},
		{name: "whitespace category", req: domain.GenerationRequest{Topic: "robots", Category: " \t"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gateway := mocks.NewMockGateway("{}")
			recorder := &fakeRecorder{}
			svc := newTestService(t, gateway, generation.WithRecorder(recorder))

			_, err := svc.Generate(context.Background(), tc.req)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Zero(t, gateway.CallCount(), "gateway must not be called for invalid input")
			require.Len(t, recorder.outcomes, 1)
			assert.Equal(t, generation.OutcomeRejected, recorder.outcomes[0].outcome)
		})
	}
}

func TestService_Generate_FallbackOnMalformedOutput(t *testing.T) {
	t.Parallel()

	gateway := mocks.NewMockGateway("Here is a prompt: draw a cat")
	recorder := &fakeRecorder{}
	svc := newTestService(t, gateway, generation.WithRecorder(recorder))

	result, err := svc.Generate(context.Background(), domain.GenerationRequest{Topic: "cats", Category: " ART "})

	require.NoError(t, err)
	assert.Equal(t, domain.GenerationResult{
		Title:    generation.FallbackTitle,
		Prompt:   "Here is a prompt: draw a cat",
		Category: "art",
	}, result)
	assert.Equal(t, generation.OutcomeFallback, recorder.outcomes[0].outcome)
}

func TestService_Generate_ForcesRequestCategory(t *testing.T) {
	t.Parallel()

	gateway := mocks.NewMockGateway(`{"title":"T","prompt":"P","category":"business"}`)
	svc := newTestService(t, gateway)

	result, err := svc.Generate(context.Background(), domain.GenerationRequest{Topic: "t", Category: "Coding"})

	require.NoError(t, err)
	assert.Equal(t, "coding", result.Category)
	assert.Equal(t, "T", result.Title)
}

func TestService_Generate_UnknownCategoryUsesFunProfile(t *testing.T) {
	t.Parallel()

	gateway := mocks.NewMockGateway(`{"title":"T","prompt":"P","category":"poetry"}`)
	svc := newTestService(t, gateway)

	result, err := svc.Generate(context.Background(), domain.GenerationRequest{Topic: "t", Category: "Poetry"})

	require.NoError(t, err)
	assert.Equal(t, "poetry", result.Category)
	instruction := gateway.Calls()[0].Instruction
	assert.Contains(t, instruction, domain.DefaultCatalog().ResolveProfile(domain.CategoryFun).RoleInstruction)
	assert.Contains(t, instruction, `"category": "poetry"`)
}

func TestService_Generate_GatewayFailure(t *testing.T) {
	t.Parallel()

	gateway := mocks.NewFailingGateway(generation.NewGatewayError("cohere", errors.New("timeout")))
	recorder := &fakeRecorder{}
	svc := newTestService(t, gateway, generation.WithRecorder(recorder))

	_, err := svc.Generate(context.Background(), domain.GenerationRequest{Topic: "t", Category: "fun"})

	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrGateway)
	assert.Equal(t, "timeout", err.Error())
	assert.Equal(t, 1, gateway.CallCount(), "gateway must not be retried")
	assert.Equal(t, generation.OutcomeFailed, recorder.outcomes[0].outcome)
}

func TestService_Generate_WrapsForeignErrors(t *testing.T) {
	t.Parallel()

	gateway := mocks.NewFailingGateway(errors.New("connection refused"))
	svc := newTestService(t, gateway)

	_, err := svc.Generate(context.Background(), domain.GenerationRequest{Topic: "t", Category: "fun"})

	var gwErr *generation.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "connection refused", gwErr.Error())
}

func TestService_Generate_Timeout(t *testing.T) {
	t.Parallel()

	gateway := &mocks.MockGateway{
		InvokeFn: func(ctx context.Context, _, _, _ string) (string, error) {
			<-ctx.Done()
			return "", generation.NewGatewayError("test", ctx.Err())
		},
	}
	svc := newTestService(t, gateway, generation.WithTimeout(10*time.Millisecond))

	_, err := svc.Generate(context.Background(), domain.GenerationRequest{Topic: "t", Category: "fun"})

	assert.ErrorIs(t, err, generation.ErrGateway)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestService_Generate_PassesModelOverride(t *testing.T) {
	t.Parallel()

	gateway := mocks.NewMockGateway(`{"title":"T","prompt":"P","category":"fun"}`)
	svc := newTestService(t, gateway)

	_, err := svc.Generate(context.Background(), domain.GenerationRequest{Topic: "t", Category: "fun", Model: " command-r "})

	require.NoError(t, err)
	assert.Equal(t, "command-r", gateway.Calls()[0].Model)
}

func TestService_Generate_Concurrent(t *testing.T) {
	t.Parallel()

	gateway := &mocks.MockGateway{
		InvokeFn: func(_ context.Context, _, _, _ string) (string, error) {
			return `{"title":"T","prompt":"P","category":"fun"}`, nil
		},
	}
	svc := newTestService(t, gateway)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Generate(context.Background(), domain.GenerationRequest{Topic: "t", Category: "fun"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, gateway.CallCount())
}
