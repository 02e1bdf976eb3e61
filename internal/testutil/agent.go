// Package testutil provides deterministic agent doubles for tests: scripted
// replies, injectable latency and failures, optional streaming, and a queued
// human-input stub.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/convoke-ai/convoke/core"
)

// ScriptedAgent replies with a fixed script, one entry per call, cycling
// when exhausted. Latency and a failing turn can be injected.
type ScriptedAgent struct {
	id          core.AgentID
	description string
	script      []string
	transfers   []string
	latency     time.Duration
	failOn      int
	failErr     error
	stream      bool

	mu    sync.Mutex
	calls int
}

// ScriptedOption customizes a ScriptedAgent.
type ScriptedOption func(*ScriptedAgent)

// WithDescription sets the roster description.
func WithDescription(desc string) ScriptedOption {
	return func(a *ScriptedAgent) { a.description = desc }
}

// WithLatency delays every reply by d.
func WithLatency(d time.Duration) ScriptedOption {
	return func(a *ScriptedAgent) { a.latency = d }
}

// WithTransfers declares a handoff target per scripted turn. An empty entry
// means no transfer on that turn.
func WithTransfers(targets ...string) ScriptedOption {
	return func(a *ScriptedAgent) { a.transfers = targets }
}

// WithFailure makes the call-th call (zero-based) fail with err.
func WithFailure(call int, err error) ScriptedOption {
	return func(a *ScriptedAgent) { a.failOn, a.failErr = call, err }
}

// WithStreaming makes the agent implement core.StreamingAgent, emitting the
// reply as per-rune chunks.
func WithStreaming() ScriptedOption {
	return func(a *ScriptedAgent) { a.stream = true }
}

// NewScriptedAgent builds an agent that replies with the given script.
func NewScriptedAgent(id core.AgentID, script []string, optFns ...ScriptedOption) *ScriptedAgent {
	a := &ScriptedAgent{id: id, description: string(id), script: script, failOn: -1}
	for _, fn := range optFns {
		fn(a)
	}
	return a
}

// ID implements core.Agent.
func (a *ScriptedAgent) ID() core.AgentID { return a.id }

// Description implements core.Agent.
func (a *ScriptedAgent) Description() string { return a.description }

// Calls returns how many times the agent has been invoked.
func (a *ScriptedAgent) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func (a *ScriptedAgent) next() (reply, transfer string, err error) {
	a.mu.Lock()
	call := a.calls
	a.calls++
	a.mu.Unlock()

	if call == a.failOn {
		return "", "", a.failErr
	}
	if len(a.script) == 0 {
		return "", "", fmt.Errorf("agent %s has no script", a.id)
	}
	reply = a.script[call%len(a.script)]
	if call < len(a.transfers) {
		transfer = a.transfers[call]
	}
	return reply, transfer, nil
}

// Respond implements core.Agent.
func (a *ScriptedAgent) Respond(ctx context.Context, _ []core.Message) (core.Message, error) {
	if a.latency > 0 {
		select {
		case <-time.After(a.latency):
		case <-ctx.Done():
			return core.Message{}, ctx.Err()
		}
	}
	reply, transfer, err := a.next()
	if err != nil {
		return core.Message{}, err
	}
	msg := core.NewAgentMessage(a.id, reply)
	msg.Transfer = transfer
	return msg, nil
}

// RespondStream implements core.StreamingAgent when WithStreaming is set.
// Without it the engine treats the agent as non-streaming anyway, since the
// interface assertion is done on the concrete value.
func (a *ScriptedAgent) RespondStream(ctx context.Context, history []core.Message) (<-chan core.Chunk, <-chan error) {
	chunks := make(chan core.Chunk)
	errCh := make(chan error, 1)
	go func() {
		defer close(chunks)
		defer close(errCh)
		msg, err := a.Respond(ctx, history)
		if err != nil {
			errCh <- err
			return
		}
		if !a.stream {
			chunks <- core.Chunk{Author: string(a.id), Delta: msg.Content, Final: true}
			return
		}
		runes := []rune(msg.Content)
		for i, r := range runes {
			chunks <- core.Chunk{Author: string(a.id), Delta: string(r), Final: i == len(runes)-1}
		}
	}()
	return chunks, errCh
}

// HumanInputStub replays a queue of canned user inputs. When the queue is
// exhausted GetInput fails, which surfaces loops that ask more often than
// the test expected.
type HumanInputStub struct {
	mu     sync.Mutex
	inputs []string
	asked  int
}

// NewHumanInputStub builds a stub replaying the given inputs in order.
func NewHumanInputStub(inputs ...string) *HumanInputStub {
	return &HumanInputStub{inputs: inputs}
}

// Asked returns how many inputs have been requested.
func (h *HumanInputStub) Asked() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.asked
}

// GetInput implements core.HumanInputProvider.
func (h *HumanInputStub) GetInput(context.Context) (core.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.asked >= len(h.inputs) {
		return core.Message{}, fmt.Errorf("human input requested %d times, only %d provided", h.asked+1, len(h.inputs))
	}
	msg := core.NewUserMessage(h.inputs[h.asked])
	h.asked++
	return msg, nil
}
