package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/grammiz/internal/llm"
)

// ErrClosed is returned by requests made after Close.
var ErrClosed = errors.New("tutor closed")

// Service generates mistake explanations asynchronously. Only one request
// is in flight at a time; a new request cancels the previous one.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	seq     int
	cancel  context.CancelFunc
	pending *Result
	ready   chan struct{}
	closed  bool
}

// NewService creates an explanation service. A nil logger discards
// diagnostics.
func NewService(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, logger: logger}
}

// Explain generates an explanation synchronously.
func (s *Service) Explain(ctx context.Context, in Input) (*Explanation, error) {
	if in.Question == nil {
		return nil, fmt.Errorf("explain: no question")
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, "explanation")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(in)},
		},
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("explanation generation: %w", err)
	}

	var out struct {
		Explanation string `json:"explanation"`
		Tip         string `json:"tip"`
		Example     string `json:"example"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}
	if out.Explanation == "" {
		return nil, fmt.Errorf("parse explanation response: empty explanation")
	}

	return &Explanation{Explanation: out.Explanation, Tip: out.Tip, Example: out.Example}, nil
}

// Request starts explanation generation in the background and returns the
// request's sequence number. Any earlier in-flight request is cancelled and
// its result discarded.
func (s *Service) Request(ctx context.Context, in Input) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if s.cancel != nil {
		s.cancel()
	}

	s.seq++
	seq := s.seq
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.pending = nil
	ready := make(chan struct{})
	s.ready = ready

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		exp, err := s.Explain(ctx, in)
		if err != nil {
			s.logger.Warn("tutor explanation failed", zap.Int("seq", seq), zap.Error(err))
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.seq {
			return
		}
		s.pending = &Result{Seq: seq, Explanation: exp, Err: err}
		close(ready)
	}()
	return seq, nil
}

// Consume returns the latest result if it is ready and clears it.
func (s *Service) Consume() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Result{}, false
	}
	r := *s.pending
	s.pending = nil
	return r, true
}

// Wait blocks until the latest request finishes or ctx is done, then
// consumes its result.
func (s *Service) Wait(ctx context.Context) (Result, bool) {
	s.mu.Lock()
	ready := s.ready
	s.mu.Unlock()
	if ready == nil {
		return Result{}, false
	}
	select {
	case <-ready:
		return s.Consume()
	case <-ctx.Done():
		return Result{}, false
	}
}

// Close cancels any in-flight request and waits for it to exit.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}
