package itinerary

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	noInterests = "general sightseeing"
	noContext   = "No additional preferences"
)

// BuildPrompt renders the planning instruction sent to the model.
// The budget line is a hint to the model only; nothing checks the result against it.
func BuildPrompt(req Request) string {
	interests := noInterests
	if len(req.Interests) > 0 {
		interests = strings.Join(req.Interests, ", ")
	}
	chatContext := strings.TrimSpace(req.ChatContext)
	if chatContext == "" {
		chatContext = noContext
	}

	var b strings.Builder
	b.WriteString("You are an expert travel planner. Create a detailed day-by-day itinerary.\n\n")
	fmt.Fprintf(&b, "Destination: %s\n", req.Destination)
	fmt.Fprintf(&b, "Dates: %s to %s\n", formatPromptDate(req.StartDate), formatPromptDate(req.EndDate))
	fmt.Fprintf(&b, "Budget: $%s\n", strconv.FormatFloat(req.Budget, 'f', -1, 64))
	fmt.Fprintf(&b, "Interests: %s\n", interests)
	fmt.Fprintf(&b, "Additional Context: %s\n\n", chatContext)
	b.WriteString("Create a realistic itinerary with specific activities, times, costs, and locations.\n")
	b.WriteString("Include breakfast, lunch, dinner, and activities.\n")
	b.WriteString("Ensure the total cost of all activities stays within the budget.")
	return b.String()
}

func formatPromptDate(t *time.Time) string {
	if t == nil {
		return "unspecified"
	}
	return t.Format("2006-01-02")
}
