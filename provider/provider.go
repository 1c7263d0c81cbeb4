package provider

import (
	"context"
	"errors"

	"github.com/hmansouri/flightscout/config"
	openai_provider "github.com/hmansouri/flightscout/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI Client = "openai"
)

// Provider is the interface all LLM implementations must satisfy. One
// method is enough: the recommender only ever needs a single completion.
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// NewProvider creates an LLM client from the configuration. Any
// OpenAI-compatible endpoint works through llm.base_url (Together, local
// gateways).
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch Client(cfg.Type) {
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("llm.api_key not set")
		}
		return openai_provider.NewClient(
			cfg.APIKey,
			cfg.BaseURL,
			cfg.Model,
			cfg.Temperature,
			cfg.MaxTokens,
			cfg.Timeout,
		), nil
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
