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


package learning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/studyhall/ai"
	"github.com/poiesic/studyhall/core"
)

const defaultCallTimeout = 60 * time.Second

// Analyzer turns a free-form learning goal into a structured study plan by
// prompting a language model for schema-conforming JSON.
//
// The model call is made exactly once per request; malformed-JSON responses
// are replaced by a deterministic fallback plan rather than retried, so the
// caller always gets a usable plan when the model itself is reachable.
type Analyzer struct {
	generator   ai.Generator
	callTimeout time.Duration
	logger      *slog.Logger

	// Injection points for deterministic tests.
	now   func() time.Time
	newID func() string
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithCallTimeout sets the per-request deadline for the model call.
func WithCallTimeout(d time.Duration) AnalyzerOption {
	return func(a *Analyzer) {
		a.callTimeout = d
	}
}

// WithLogger sets the logger used by the analyzer.
func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = logger.With("component", "learning-analyzer")
	}
}

// NewAnalyzer creates an analyzer backed by the given generator.
func NewAnalyzer(generator ai.Generator, opts ...AnalyzerOption) (*Analyzer, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	a := &Analyzer{
		generator:   generator,
		callTimeout: defaultCallTimeout,
		logger:      slog.Default().With("component", "learning-analyzer"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Analyze produces a study plan for a learning goal.
//
// The raw model response is cleaned up (markdown fences stripped, common
// key-quoting slips repaired) before decoding. A response that is not
// syntactically valid JSON yields the deterministic fallback plan; a
// response that parses but does not conform to the plan shape is a hard
// error and is never papered over.
func (a *Analyzer) Analyze(ctx context.Context, goal string) (*core.StudyPlan, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, ErrEmptyGoal
	}

	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	response, err := a.generator.GenerateJSON(callCtx, buildAnalysisPrompt(goal))
	if err != nil {
		a.logger.Error("study plan generation failed", "err", err)
		return nil, fmt.Errorf("generating study plan: %w", err)
	}

	plan, err := a.decodePlan(response)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// decodePlan parses the raw model output into a plan, distinguishing
// syntax failures (recovered via fallback) from shape failures (hard
// errors).
func (a *Analyzer) decodePlan(raw string) (*core.StudyPlan, error) {
	cleaned := repairJSON(stripFences(raw))

	var plan core.StudyPlan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			a.logger.Error("study plan response has wrong field types",
				"field", typeErr.Field, "err", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
		}

		a.logger.Warn("study plan response is not valid JSON, using fallback",
			"response", cleaned, "err", err)
		return a.fallbackPlan(), nil
	}

	if err := validatePlan(&plan); err != nil {
		a.logger.Error("study plan response violates plan shape", "err", err)
		return nil, err
	}
	return &plan, nil
}

// validatePlan enforces the plan shape on a successfully parsed response.
func validatePlan(plan *core.StudyPlan) error {
	if len(plan.LearningPaths) == 0 {
		return fmt.Errorf("%w: no learning paths", ErrInvalidPlan)
	}
	if len(plan.Quizzes) == 0 {
		return fmt.Errorf("%w: no quizzes", ErrInvalidPlan)
	}
	if len(plan.Summaries) == 0 {
		return fmt.Errorf("%w: no summaries", ErrInvalidPlan)
	}
	for _, p := range plan.LearningPaths {
		if p.Title == "" {
			return fmt.Errorf("%w: learning path missing title", ErrInvalidPlan)
		}
	}
	for _, q := range plan.Quizzes {
		if q.Title == "" {
			return fmt.Errorf("%w: quiz missing title", ErrInvalidPlan)
		}
	}
	for _, s := range plan.Summaries {
		if s.Topic == "" {
			return fmt.Errorf("%w: summary missing topic", ErrInvalidPlan)
		}
	}
	return nil
}

// fallbackPlan returns the deterministic plan substituted when the model
// produces syntactically invalid JSON. Identifiers are freshly generated;
// everything else is fixed apart from the summary date.
func (a *Analyzer) fallbackPlan() *core.StudyPlan {
	return &core.StudyPlan{
		LearningPaths: []core.LearningPath{
			{
				Id:          a.newID(),
				Title:       "Introduction to Topic",
				Description: "A structured introduction to your chosen topic.",
				Difficulty:  "beginner",
				Progress:    0,
				Topics:      []string{"Basics", "Fundamentals"},
			},
		},
		Quizzes: []core.Quiz{
			{
				Id:         a.newID(),
				Title:      "Basic Concepts Quiz",
				Topic:      "Fundamentals",
				Difficulty: "easy",
				Questions:  5,
				Completed:  false,
			},
		},
		Summaries: []core.Summary{
			{
				Id:      a.newID(),
				Topic:   "Key Concepts",
				Content: "Start with the fundamentals and build toward more advanced material.",
				Date:    a.now().Format("2006-01-02"),
			},
		},
	}
}
