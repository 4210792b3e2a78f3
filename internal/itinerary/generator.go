package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrEmptyPlan is returned by models that answer with no days.
var ErrEmptyPlan = errors.New("model returned an empty plan")

// Model produces a structured plan for a prompt.
type Model interface {
	GeneratePlan(ctx context.Context, prompt string) (Plan, error)
}

// Result is the outcome of Generate. When Fallback is set, Plan holds the
// canned plan and Err the reason the model could not be used.
type Result struct {
	Plan     Plan
	Fallback bool
	Err      error
}

// Generator asks a Model for a plan and substitutes the fallback plan on any failure.
type Generator struct {
	model Model
	log   *slog.Logger
}

// NewGenerator creates a Generator. A nil model always yields the fallback.
func NewGenerator(model Model, log *slog.Logger) *Generator {
	return &Generator{model: model, log: log.With("component", "itinerary")}
}

// Generate never fails: there is no retry, the first error selects the fallback.
func (g *Generator) Generate(ctx context.Context, req Request) Result {
	if g.model == nil {
		return g.fallback(ctx, req, errors.New("no itinerary model configured"))
	}

	plan, err := g.model.GeneratePlan(ctx, BuildPrompt(req))
	if err == nil && len(plan.Days) == 0 {
		err = ErrEmptyPlan
	}
	if err != nil {
		return g.fallback(ctx, req, fmt.Errorf("generate itinerary: %w", err))
	}

	g.log.InfoContext(ctx, "itinerary generated",
		"destination", req.Destination, "days", len(plan.Days), "activities", plan.ActivityCount())
	return Result{Plan: plan}
}

func (g *Generator) fallback(ctx context.Context, req Request, err error) Result {
	g.log.ErrorContext(ctx, "itinerary generation failed, using fallback plan",
		"destination", req.Destination, "error", err)
	return Result{Plan: Fallback(req.Destination), Fallback: true, Err: err}
}

// Fallback is the fixed single-day plan used when generation fails.
func Fallback(destination string) Plan {
	return Plan{Days: []DayPlan{{
		Title: "Day 1: Arrival & Exploration",
		Activities: []ActivityPlan{
			{
				Title:       "Breakfast at hotel",
				Description: strPtr("Start your day with a hearty meal"),
				Time:        strPtr("08:00"),
				Duration:    intPtr(60),
				Cost:        floatPtr(15.0),
				Category:    strPtr("food"),
				Location:    strPtr("Hotel"),
			},
			{
				Title:       "City tour of " + destination,
				Description: strPtr("Explore the main attractions"),
				Time:        strPtr("10:00"),
				Duration:    intPtr(240),
				Cost:        floatPtr(50.0),
				Category:    strPtr("sightseeing"),
				Location:    strPtr(destination + " City Center"),
			},
		},
	}}}
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
