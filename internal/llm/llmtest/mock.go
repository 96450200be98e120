// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"github.com/ppiankov/claimcheck/internal/llm"
)

// Reply is one scripted answer
type Reply struct {
	Text string
	Err  error
}

// MockProvider answers prompts from a script. Rules are checked in order;
// the first rule whose substring occurs in the prompt wins. Unmatched
// prompts get Default.
type MockProvider struct {
	Rules   []Rule
	Default Reply

	// Unavailable makes IsAvailable report false
	Unavailable bool

	mu    sync.Mutex
	calls []llm.CompletionRequest
}

// Rule maps a prompt substring to a reply
type Rule struct {
	Contains string
	Reply    Reply
}

// On appends a rule and returns the mock for chaining
func (m *MockProvider) On(contains string, text string) *MockProvider {
	m.Rules = append(m.Rules, Rule{Contains: contains, Reply: Reply{Text: text}})
	return m
}

// Fail appends a rule that returns err
func (m *MockProvider) Fail(contains string, err error) *MockProvider {
	m.Rules = append(m.Rules, Rule{Contains: contains, Reply: Reply{Err: err}})
	return m
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) IsAvailable(ctx context.Context) bool { return !m.Unavailable }

// Complete records the request and returns the scripted reply
func (m *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	reply := m.Default
	for _, r := range m.Rules {
		if strings.Contains(req.Prompt, r.Contains) {
			reply = r.Reply
			break
		}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return &llm.CompletionResponse{Text: reply.Text, Model: req.Model}, nil
}

// Calls returns the recorded requests
func (m *MockProvider) Calls() []llm.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.CompletionRequest(nil), m.calls...)
}
