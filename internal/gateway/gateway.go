package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"support-chat-be/internal/constant"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/pkg/llm"
	"support-chat-be/pkg/llm/factory"
)

// Result is what the pipeline gets back. Generate never fails: after one
// fallback attempt the fixed apology is returned tagged with model "fallback".
type Result struct {
	Content   string
	ModelUsed string
}

// Gateway fronts every registered language-model backend with uniform
// selection and fallback semantics.
type Gateway struct {
	registry      *factory.Registry
	defaultModel  string
	fallbackModel string
	timeout       time.Duration
	logger        logger.ILogger
}

func New(registry *factory.Registry, defaultModel, fallbackModel string, timeout time.Duration, log logger.ILogger) *Gateway {
	return &Gateway{
		registry:      registry,
		defaultModel:  defaultModel,
		fallbackModel: fallbackModel,
		timeout:       timeout,
		logger:        log,
	}
}

// Generate sends the prompt with the session history to the selected model.
// Selection: modelHint wins if registered, else the configured default. On
// failure exactly one fallback to a different model is attempted; if that
// fails too, the apology response is returned instead of an error.
func (g *Gateway) Generate(ctx context.Context, prompt string, history []llm.Message, modelHint string) Result {
	primary := g.selectPrimary(modelHint)

	content, err := g.attempt(ctx, primary, prompt, history)
	if err == nil {
		return Result{Content: content, ModelUsed: primary}
	}

	g.logger.Warn("Gateway", "Primary model failed, attempting fallback", map[string]interface{}{
		"model": primary,
		"error": err.Error(),
	})

	fallback := g.selectFallback(primary)
	if fallback != "" {
		content, err = g.attempt(ctx, fallback, prompt, history)
		if err == nil {
			return Result{Content: content, ModelUsed: fallback}
		}
		g.logger.Error("Gateway", "Fallback model failed", map[string]interface{}{
			"model": fallback,
			"error": err.Error(),
		})
	}

	return Result{
		Content:   constant.FallbackResponse,
		ModelUsed: constant.ModelFallback,
	}
}

func (g *Gateway) selectPrimary(modelHint string) string {
	if modelHint != "" {
		if _, ok := g.registry.Lookup(modelHint); ok {
			return modelHint
		}
		g.logger.Warn("Gateway", "Model hint not registered, using default", map[string]interface{}{
			"hint":    modelHint,
			"default": g.defaultModel,
		})
	}
	return g.defaultModel
}

// selectFallback picks a model different from the one that just failed.
// Returns "" when no distinct model is available.
func (g *Gateway) selectFallback(failed string) string {
	if g.fallbackModel != "" && !strings.EqualFold(g.fallbackModel, failed) {
		return g.fallbackModel
	}
	if !strings.EqualFold(g.defaultModel, failed) {
		return g.defaultModel
	}
	for _, name := range g.registry.Models() {
		if !strings.EqualFold(name, failed) {
			return name
		}
	}
	return ""
}

func (g *Gateway) attempt(ctx context.Context, model, prompt string, history []llm.Message) (string, error) {
	provider, ok := g.registry.Lookup(model)
	if !ok {
		return "", fmt.Errorf("no provider registered for model %s", model)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: prompt})

	content, err := provider.Chat(callCtx, messages, llm.WithModel(model))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("model %s returned an empty response", model)
	}
	return content, nil
}
