package ports

import "context"

// LLMService is the outbound port for text generation. Any adapter
// (Anthropic, Gemini, mock) implements this contract; the application layer
// only knows the interface, never the concrete provider.
type LLMService interface {
	// Generate produces a completion for the prompt. The system prompt may
	// be empty. The context should carry a timeout; provider calls can take
	// several seconds.
	Generate(ctx context.Context, system, prompt string) (string, error)

	// Name identifies the provider in logs and failover bookkeeping.
	Name() string
}
