package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Provider is one LLM backend. Anthropic, OpenAI-compatible and Gemini
// adapters implement it, and the retry and logging decorators wrap it.
type Provider interface {
	// Generate runs one completion. With a Schema set, Content is JSON that
	// has been validated against it; otherwise it is the model's text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the configured model, after alias resolution.
	ModelID() string

	// Name is the backend name stored with each request event.
	Name() string
}

// Request is a prompt. Tutor calls send a system prompt and one user turn.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema // nil asks for plain text
	MaxTokens   int
	Temperature float64 // 0 leaves the backend's default
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured replies. Adapters pass it to
// the backend's native structured output; replies are validated against it
// either way. Share schemas by pointer: the compiled validator is cached on
// first use.
type Schema struct {
	Name        string // kebab-case, e.g. "grammar-explanation"
	Description string
	Definition  map[string]any

	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
}

type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that served the request, which may be a dated
	// snapshot of the configured alias.
	Model string

	// StopReason is StopEnd or StopMaxTokens. Refusals never produce a
	// Response; they surface as *ErrRefused.
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Normalised stop reasons shared by every adapter.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopBlocked   = "blocked"
)

// reply is what an adapter extracted from its SDK's response before the
// shared checks run.
type reply struct {
	content json.RawMessage
	stop    string
	reason  string // provider-specific detail for refusals
	usage   Usage
	model   string
}

// finish applies the checks every provider shares: refusals and empty
// replies are errors, truncated structured output is reported with the
// partial content, and schema-bound content is validated.
func finish(req Request, r reply) (*Response, error) {
	if r.stop == StopBlocked {
		return nil, &ErrRefused{Reason: r.reason}
	}
	if len(bytes.TrimSpace(r.content)) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("empty reply (stop reason %q)", r.stop)}
	}
	if req.Schema != nil {
		if r.stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: r.content}
		}
		if err := validateResponse(req.Schema, r.content); err != nil {
			return nil, err
		}
	}
	if r.stop == "" {
		r.stop = StopEnd
	}
	return &Response{
		Content:    r.content,
		Usage:      r.usage,
		Model:      r.model,
		StopReason: r.stop,
	}, nil
}

// classifyStatus turns an HTTP status from a provider API into one of the
// package's error types. A zero status means the request never got an answer.
func classifyStatus(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
