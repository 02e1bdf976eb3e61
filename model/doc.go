// Package model defines the provider-neutral completion interface consumed
// by agents and model-driven policies, plus a deterministic MockModel for
// tests. Concrete adapters live in the openai and anthropic subpackages.
package model
