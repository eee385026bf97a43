package ai_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurudeen19/rag-fortress/internal/application/ports"
	"github.com/nurudeen19/rag-fortress/internal/domain"
	"github.com/nurudeen19/rag-fortress/internal/infrastructure/ai"
	"github.com/nurudeen19/rag-fortress/pkg/logger"
)

type fakeLLM struct {
	name  string
	out   string
	err   error
	calls int
}

func (f *fakeLLM) Name() string { return f.name }

func (f *fakeLLM) Generate(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	return f.out, f.err
}

type fakeEmbedder struct {
	name  string
	out   [][]float32
	err   error
	calls int
}

func (f *fakeEmbedder) Name() string { return f.name }

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	return f.out, f.err
}

func testLog() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func TestLLMChain_FirstProviderWins(t *testing.T) {
	first := &fakeLLM{name: "first", out: "answer"}
	second := &fakeLLM{name: "second", out: "other"}
	chain := ai.NewLLMChain([]ports.LLMService{first, second}, 0, time.Minute, testLog())

	out, err := chain.Generate(context.Background(), "", "q")
	require.NoError(t, err)
	assert.Equal(t, "answer", out)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "the second provider must not be called when the first succeeds")
}

func TestLLMChain_FailsOverToNext(t *testing.T) {
	first := &fakeLLM{name: "first", err: errors.New("boom")}
	second := &fakeLLM{name: "second", out: "fallback"}
	chain := ai.NewLLMChain([]ports.LLMService{first, second}, 0, time.Minute, testLog())

	out, err := chain.Generate(context.Background(), "", "q")
	require.NoError(t, err)
	assert.Equal(t, "fallback", out)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestLLMChain_CooldownSkipsFailedProvider(t *testing.T) {
	first := &fakeLLM{name: "first", err: errors.New("boom")}
	second := &fakeLLM{name: "second", out: "fallback"}
	chain := ai.NewLLMChain([]ports.LLMService{first, second}, 0, time.Minute, testLog())

	_, err := chain.Generate(context.Background(), "", "q")
	require.NoError(t, err)

	// Second call: first provider is cooling down and must be skipped.
	_, err = chain.Generate(context.Background(), "", "q")
	require.NoError(t, err)
	assert.Equal(t, 1, first.calls, "a cooling-down provider must not be retried")
	assert.Equal(t, 2, second.calls)
}

func TestLLMChain_RecoversAfterSuccess(t *testing.T) {
	flaky := &fakeLLM{name: "flaky", err: errors.New("boom")}
	chain := ai.NewLLMChain([]ports.LLMService{flaky}, 0, time.Nanosecond, testLog())

	_, err := chain.Generate(context.Background(), "", "q")
	require.Error(t, err)

	// Cooldown of 1ns has elapsed; the provider is retried and now works.
	flaky.err = nil
	flaky.out = "recovered"
	time.Sleep(time.Millisecond)

	out, err := chain.Generate(context.Background(), "", "q")
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
}

func TestLLMChain_AllFail(t *testing.T) {
	first := &fakeLLM{name: "first", err: errors.New("a")}
	second := &fakeLLM{name: "second", err: errors.New("b")}
	chain := ai.NewLLMChain([]ports.LLMService{first, second}, 0, time.Minute, testLog())

	_, err := chain.Generate(context.Background(), "", "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoProviderAvailable)
}

func TestEmbeddingChain_FailsOverToNext(t *testing.T) {
	first := &fakeEmbedder{name: "first", err: errors.New("down")}
	second := &fakeEmbedder{name: "second", out: [][]float32{{0.1, 0.2}}}
	chain := ai.NewEmbeddingChain([]ports.EmbeddingService{first, second}, 0, time.Minute, testLog())

	out, err := chain.Embed(context.Background(), []string{"text"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 1, second.calls)
}

func TestEmbeddingChain_AllFail(t *testing.T) {
	first := &fakeEmbedder{name: "first", err: errors.New("down")}
	chain := ai.NewEmbeddingChain([]ports.EmbeddingService{first}, 0, time.Minute, testLog())

	_, err := chain.Embed(context.Background(), []string{"text"})
	assert.ErrorIs(t, err, domain.ErrNoProviderAvailable)
}
