package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"support-chat-be/internal/constant"
	"support-chat-be/pkg/llm"
	"support-chat-be/pkg/llm/factory"
)

type stubProvider struct {
	response string
	err      error
	calls    int
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestGateway(primary, fallback *stubProvider) *Gateway {
	reg := factory.NewRegistry()
	reg.Register("primary-model", primary)
	reg.Register("fallback-model", fallback)
	return New(reg, "primary-model", "fallback-model", 5*time.Second, nopLogger{})
}

func TestGenerateUsesPrimary(t *testing.T) {
	primary := &stubProvider{response: "hello"}
	fallback := &stubProvider{response: "unused"}
	g := newTestGateway(primary, fallback)

	res := g.Generate(context.Background(), "hi", nil, "")

	if res.Content != "hello" {
		t.Errorf("Content = %q, want %q", res.Content, "hello")
	}
	if res.ModelUsed != "primary-model" {
		t.Errorf("ModelUsed = %q, want %q", res.ModelUsed, "primary-model")
	}
	if fallback.calls != 0 {
		t.Errorf("fallback called %d times, want 0", fallback.calls)
	}
}

func TestGenerateModelHintOverridesDefault(t *testing.T) {
	primary := &stubProvider{response: "from primary"}
	fallback := &stubProvider{response: "from fallback"}
	g := newTestGateway(primary, fallback)

	res := g.Generate(context.Background(), "hi", nil, "fallback-model")

	if res.ModelUsed != "fallback-model" {
		t.Errorf("ModelUsed = %q, want %q", res.ModelUsed, "fallback-model")
	}
	if primary.calls != 0 {
		t.Errorf("primary called %d times, want 0", primary.calls)
	}
}

func TestGenerateUnknownHintFallsBackToDefault(t *testing.T) {
	primary := &stubProvider{response: "ok"}
	fallback := &stubProvider{response: "unused"}
	g := newTestGateway(primary, fallback)

	res := g.Generate(context.Background(), "hi", nil, "no-such-model")

	if res.ModelUsed != "primary-model" {
		t.Errorf("ModelUsed = %q, want %q", res.ModelUsed, "primary-model")
	}
}

func TestGenerateFallsBackOnce(t *testing.T) {
	primary := &stubProvider{err: errors.New("provider down")}
	fallback := &stubProvider{response: "rescued"}
	g := newTestGateway(primary, fallback)

	res := g.Generate(context.Background(), "hi", nil, "")

	if res.Content != "rescued" {
		t.Errorf("Content = %q, want %q", res.Content, "rescued")
	}
	if res.ModelUsed != "fallback-model" {
		t.Errorf("ModelUsed = %q, want %q", res.ModelUsed, "fallback-model")
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls = (%d, %d), want (1, 1)", primary.calls, fallback.calls)
	}
}

func TestGenerateBothFailReturnsApology(t *testing.T) {
	primary := &stubProvider{err: errors.New("down")}
	fallback := &stubProvider{err: errors.New("also down")}
	g := newTestGateway(primary, fallback)

	res := g.Generate(context.Background(), "hi", nil, "")

	if res.ModelUsed != constant.ModelFallback {
		t.Errorf("ModelUsed = %q, want %q", res.ModelUsed, constant.ModelFallback)
	}
	if res.Content != constant.FallbackResponse {
		t.Errorf("Content = %q, want the fixed apology", res.Content)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls = (%d, %d), want exactly one attempt each", primary.calls, fallback.calls)
	}
}

func TestGenerateEmptyResponseIsFailure(t *testing.T) {
	primary := &stubProvider{response: "   "}
	fallback := &stubProvider{response: "real answer"}
	g := newTestGateway(primary, fallback)

	res := g.Generate(context.Background(), "hi", nil, "")

	if res.Content != "real answer" {
		t.Errorf("Content = %q, want %q", res.Content, "real answer")
	}
	if res.ModelUsed != "fallback-model" {
		t.Errorf("ModelUsed = %q, want %q", res.ModelUsed, "fallback-model")
	}
}
