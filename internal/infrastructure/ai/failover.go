package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nurudeen19/rag-fortress/internal/application/ports"
	"github.com/nurudeen19/rag-fortress/internal/domain"
	"github.com/nurudeen19/rag-fortress/pkg/logger"
)

// health tracks per-provider cooldowns. A provider that fails is taken out
// of rotation until its cooldown elapses, so one flapping upstream does not
// add latency to every request.
type health struct {
	mu        sync.Mutex
	cooldown  time.Duration
	downUntil map[string]time.Time
}

func newHealth(cooldown time.Duration) *health {
	return &health{cooldown: cooldown, downUntil: make(map[string]time.Time)}
}

func (h *health) available(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return time.Now().After(h.downUntil[name])
}

func (h *health) markDown(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.downUntil[name] = time.Now().Add(h.cooldown)
}

func (h *health) markUp(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.downUntil, name)
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Compile-time checks that the chains implement their ports.
var (
	_ ports.LLMService       = (*LLMChain)(nil)
	_ ports.EmbeddingService = (*EmbeddingChain)(nil)
)

// LLMChain implements LLMService by trying providers in order with automatic
// failover. Each provider gets its own client-side rate limiter.
type LLMChain struct {
	providers []ports.LLMService
	limiters  map[string]*rate.Limiter
	health    *health
	log       *logger.Logger
}

// NewLLMChain builds the chain. providers must be in preference order;
// cooldown is how long a failing provider stays out of rotation.
func NewLLMChain(providers []ports.LLMService, rps float64, cooldown time.Duration, log *logger.Logger) *LLMChain {
	limiters := make(map[string]*rate.Limiter, len(providers))
	for _, p := range providers {
		limiters[p.Name()] = newLimiter(rps)
	}
	return &LLMChain{
		providers: providers,
		limiters:  limiters,
		health:    newHealth(cooldown),
		log:       log,
	}
}

// Name identifies the chain in logs.
func (c *LLMChain) Name() string { return "llm-chain" }

// Generate tries each healthy provider in order and returns the first
// successful completion. Context cancellation aborts the whole chain.
func (c *LLMChain) Generate(ctx context.Context, system, prompt string) (string, error) {
	var errs []string
	for _, p := range c.providers {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !c.health.available(p.Name()) {
			continue
		}
		if err := c.limiters[p.Name()].Wait(ctx); err != nil {
			return "", err
		}
		out, err := p.Generate(ctx, system, prompt)
		if err != nil {
			c.health.markDown(p.Name())
			c.log.Warn().Err(err).Str("provider", p.Name()).Msg("llm provider failed, trying next")
			errs = append(errs, fmt.Sprintf("%s: %v", p.Name(), err))
			continue
		}
		c.health.markUp(p.Name())
		return out, nil
	}
	if len(errs) == 0 {
		return "", fmt.Errorf("llm chain: all providers cooling down: %w", domain.ErrNoProviderAvailable)
	}
	return "", fmt.Errorf("llm chain: %s: %w", strings.Join(errs, "; "), domain.ErrNoProviderAvailable)
}

// EmbeddingChain implements EmbeddingService by trying providers in order
// with automatic failover.
type EmbeddingChain struct {
	providers []ports.EmbeddingService
	limiters  map[string]*rate.Limiter
	health    *health
	log       *logger.Logger
}

// NewEmbeddingChain builds the chain. providers must be in preference order.
func NewEmbeddingChain(providers []ports.EmbeddingService, rps float64, cooldown time.Duration, log *logger.Logger) *EmbeddingChain {
	limiters := make(map[string]*rate.Limiter, len(providers))
	for _, p := range providers {
		limiters[p.Name()] = newLimiter(rps)
	}
	return &EmbeddingChain{
		providers: providers,
		limiters:  limiters,
		health:    newHealth(cooldown),
		log:       log,
	}
}

// Name identifies the chain in logs.
func (c *EmbeddingChain) Name() string { return "embedding-chain" }

// Embed tries each healthy provider in order and returns the first
// successful batch of vectors.
func (c *EmbeddingChain) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var errs []string
	for _, p := range c.providers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !c.health.available(p.Name()) {
			continue
		}
		if err := c.limiters[p.Name()].Wait(ctx); err != nil {
			return nil, err
		}
		out, err := p.Embed(ctx, texts)
		if err != nil {
			c.health.markDown(p.Name())
			c.log.Warn().Err(err).Str("provider", p.Name()).Msg("embedding provider failed, trying next")
			errs = append(errs, fmt.Sprintf("%s: %v", p.Name(), err))
			continue
		}
		c.health.markUp(p.Name())
		return out, nil
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("embedding chain: all providers cooling down: %w", domain.ErrNoProviderAvailable)
	}
	return nil, fmt.Errorf("embedding chain: %s: %w", strings.Join(errs, "; "), domain.ErrNoProviderAvailable)
}
