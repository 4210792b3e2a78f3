// Package llm adapts hosted language models to the itinerary and chat
// components.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"wanderai-backend/internal/itinerary"
	"wanderai-backend/internal/utils"
)

const tracerName = "wanderai/llm"

// contentGenerator is the subset of genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiItineraryModel asks Gemini for a plan constrained to a JSON schema.
type GeminiItineraryModel struct {
	models      contentGenerator
	model       string
	temperature float32
	timeout     time.Duration
}

// NewGeminiItineraryModel creates the genai client for the Gemini API backend.
func NewGeminiItineraryModel(ctx context.Context, apiKey, model string, temperature float32, timeout time.Duration) (*GeminiItineraryModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiItineraryModel{models: client.Models, model: model, temperature: temperature, timeout: timeout}, nil
}

func (g *GeminiItineraryModel) GeneratePlan(ctx context.Context, prompt string) (itinerary.Plan, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "GeneratePlan", trace.WithAttributes(
		attribute.String("llm.model", g.model),
		attribute.Int("prompt.length", len(prompt)),
	))
	defer span.End()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   planSchema,
	}
	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	span.SetAttributes(attribute.Int64("response.latency_ms", time.Since(start).Milliseconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate content failed")
		return itinerary.Plan{}, fmt.Errorf("gemini generate: %w", err)
	}

	plan, err := decodePlan(resp.Text())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed plan")
		return itinerary.Plan{}, err
	}
	span.SetAttributes(attribute.Int("plan.days", len(plan.Days)))
	span.SetStatus(codes.Ok, "")
	return plan, nil
}

// decodePlan parses the model output, tolerating a markdown code fence.
func decodePlan(text string) (itinerary.Plan, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return itinerary.Plan{}, fmt.Errorf("empty response from model")
	}

	var plan itinerary.Plan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return itinerary.Plan{}, fmt.Errorf("decode plan: %w", err)
	}
	for i, d := range plan.Days {
		for j, a := range d.Activities {
			if strings.TrimSpace(a.Title) == "" {
				return itinerary.Plan{}, fmt.Errorf("decode plan: day %d activity %d has no title", i+1, j+1)
			}
			// the time column rejects anything that is not a clock time
			if a.Time != nil && !utils.ValidClockTime(*a.Time) {
				plan.Days[i].Activities[j].Time = nil
			}
		}
	}
	return plan, nil
}

func stringField(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

var planSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"days": {
			Type:        genai.TypeArray,
			Description: "List of days",
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title": stringField("Day title"),
					"activities": {
						Type:        genai.TypeArray,
						Description: "List of activities",
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"title":       stringField("Activity title"),
								"description": stringField("Activity description"),
								"time":        stringField("Activity time in HH:MM format"),
								"duration":    {Type: genai.TypeInteger, Description: "Duration in minutes"},
								"cost":        {Type: genai.TypeNumber, Description: "Estimated cost"},
								"category":    stringField("Category: sightseeing, food, transport, etc."),
								"location":    stringField("Location or address"),
							},
							Required: []string{"title", "description", "time", "duration", "cost", "category", "location"},
						},
					},
				},
				Required: []string{"title", "activities"},
			},
		},
	},
	Required: []string{"days"},
}
