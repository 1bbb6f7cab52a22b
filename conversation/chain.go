// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package conversation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/studyhall/ai"
	"github.com/poiesic/studyhall/core"
	"github.com/poiesic/studyhall/vectorindex"
)

const (
	defaultTopK        = 4
	defaultCallTimeout = 60 * time.Second
)

// Chain answers questions for one conversation using retrieved context plus
// prior turns. It owns the conversation's vector index and memory.
type Chain struct {
	// mu serializes turns within one conversation so concurrent Ask calls
	// cannot interleave their memory reads and appends. Different
	// conversations proceed fully in parallel.
	mu sync.Mutex

	generator   ai.Generator
	index       *vectorindex.Index
	memory      *Memory
	topK        int
	callTimeout time.Duration
	logger      *slog.Logger
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithTopK sets how many chunks are retrieved per question.
// Default is 4.
func WithTopK(k int) ChainOption {
	return func(c *Chain) {
		if k > 0 {
			c.topK = k
		}
	}
}

// WithCallTimeout bounds each model call within a turn.
// Default is 60s.
func WithCallTimeout(timeout time.Duration) ChainOption {
	return func(c *Chain) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ChainOption {
	return func(c *Chain) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChain creates a retrieval chain over the given index.
func NewChain(generator ai.Generator, index *vectorindex.Index, opts ...ChainOption) (*Chain, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}

	c := &Chain{
		generator:   generator,
		index:       index,
		memory:      NewMemory(),
		topK:        defaultTopK,
		callTimeout: defaultCallTimeout,
		logger:      slog.Default().With("component", "chain"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Memory exposes the conversation's turn log.
func (c *Chain) Memory() *Memory {
	return c.memory
}

// Ask answers a single question: retrieve the most relevant chunks, prompt
// the model with retrieved context plus the full history, and record the
// turn on success. On failure the error propagates and memory is left
// untouched; only successful turns are recorded.
//
// Ask is intentionally not retried. A retried turn that failed after the
// model produced an answer could append the exchange to memory twice;
// callers that want another attempt re-ask explicitly.
func (c *Chain) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", core.ErrEmptyQuestion
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	retrieveCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	chunks, err := c.index.Query(retrieveCtx, question, c.topK)
	cancel()
	if err != nil {
		c.logger.Error("error retrieving context for question", "err", err)
		return "", err
	}

	prompt := buildAnswerPrompt(chunks, c.memory.History(), question)

	generateCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	answer, err := c.generator.Generate(generateCtx, prompt)
	cancel()
	if err != nil {
		c.logger.Error("error generating answer", "err", err)
		return "", err
	}

	c.memory.Append(question, answer)
	c.logger.Debug("turn complete", "retrieved", len(chunks), "turns", c.memory.Len())
	return answer, nil
}
