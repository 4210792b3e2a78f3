package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_Interests(t *testing.T) {
	tests := []struct {
		name  string
		prefs map[string]any
		want  []string
	}{
		{"nil preferences", nil, nil},
		{"missing key", map[string]any{"budget": "low"}, nil},
		{"decoded json array", map[string]any{"interests": []any{"food", 3, "art"}}, []string{"food", "art"}},
		{"string slice", map[string]any{"interests": []string{"hiking"}}, []string{"hiking"}},
		{"single string", map[string]any{"interests": "museums"}, []string{"museums"}},
		{"empty string", map[string]any{"interests": ""}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Preferences: tt.prefs}
			assert.Equal(t, tt.want, u.Interests())
		})
	}
}

func TestTrip_DestinationOrDefault(t *testing.T) {
	blank := ""
	tokyo := "Tokyo"

	assert.Equal(t, "Unknown", (&Trip{}).DestinationOrDefault("Unknown"))
	assert.Equal(t, "Unknown", (&Trip{Destination: &blank}).DestinationOrDefault("Unknown"))
	assert.Equal(t, "Tokyo", (&Trip{Destination: &tokyo}).DestinationOrDefault("Unknown"))
}

func TestTrip_SetImage(t *testing.T) {
	trip := &Trip{}
	trip.SetImage(nil)
	assert.Nil(t, trip.ImageURL)

	trip.SetImage(&DestinationImage{ImageURL: "https://img", Photographer: "Ann", PhotographerURL: "https://ann"})
	assert.Equal(t, "https://img", *trip.ImageURL)
	assert.Equal(t, "Ann", *trip.Photographer)
	assert.Equal(t, "https://ann", *trip.PhotographerURL)
}
