// Package agent provides ready-made core.Agent implementations: ModelAgent
// drives a model.Model with the session transcript and supports streaming
// and handoff declarations; FuncAgent wraps a plain function.
package agent
