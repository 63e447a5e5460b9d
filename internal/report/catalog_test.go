package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endpointsOf(specs []CallSpec) []string {
	out := make([]string, len(specs))
	for i, spec := range specs {
		out[i] = spec.Endpoint
	}
	return out
}

func TestPlanFor_TicketDecisionTable(t *testing.T) {
	now := time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name             string
		question         string
		expectedEndpoint string
		expectedQuery    string
		expectedLabel    string
	}{
		{
			name:             "unfiltered",
			question:         "show me tickets",
			expectedEndpoint: "tickets_recent",
			expectedLabel:    "Recent Tickets",
		},
		{
			name:             "status only",
			question:         "how many open tickets",
			expectedEndpoint: "tickets_filtered",
			expectedQuery:    "type:ticket status:open",
			expectedLabel:    "Open Tickets",
		},
		{
			name:             "window only",
			question:         "tickets created today",
			expectedEndpoint: "tickets_filtered",
			expectedQuery:    "type:ticket created>=2024-03-14",
			expectedLabel:    "Tickets Today",
		},
		{
			name:             "both axes combine into one query",
			question:         "how many open tickets do we have today",
			expectedEndpoint: "tickets_filtered",
			expectedQuery:    "type:ticket status:open created>=2024-03-14",
			expectedLabel:    "Open Tickets Today",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs := PlanFor(CategoryTickets, tt.question, now)
			require.Len(t, specs, 1)
			assert.Equal(t, tt.expectedEndpoint, specs[0].Endpoint)
			assert.Equal(t, tt.expectedLabel, specs[0].Label)
			if tt.expectedQuery != "" {
				assert.Equal(t, tt.expectedQuery, specs[0].Params.Get("query"))
			}
		})
	}
}

func TestPlanFor_VoiceBaseFanOut(t *testing.T) {
	specs := PlanFor(CategoryVoice, "how are calls going", time.Now())
	assert.Len(t, specs, 8)
	assert.Contains(t, endpointsOf(specs), "voice_agents_activity")
	assert.NotContains(t, endpointsOf(specs), "voice_missed_calls")
}

func TestPlanFor_VoiceSecondaryKeywords(t *testing.T) {
	specs := PlanFor(CategoryVoice, "show me missed calls and phone numbers", time.Now())
	endpoints := endpointsOf(specs)
	assert.GreaterOrEqual(t, len(specs), 10)
	assert.Contains(t, endpoints, "voice_missed_calls")
	assert.Contains(t, endpoints, "voice_phone_numbers")
	assert.NotContains(t, endpoints, "voice_recordings")
}

func TestPlanFor_VoiceAllConditionals(t *testing.T) {
	specs := PlanFor(CategoryVoice, "missed call analytics with recordings and phone numbers", time.Now())
	assert.Len(t, specs, 12)
}

func TestPlanFor_EveryCategoryHasAPlan(t *testing.T) {
	for _, category := range allCategories {
		specs := PlanFor(category, "summary please", time.Now())
		assert.NotEmpty(t, specs, "category %s has no plan", category)
		for _, spec := range specs {
			assert.Equal(t, category, spec.Category)
			assert.NotEmpty(t, spec.Endpoint)
			assert.NotEmpty(t, spec.Path)
			assert.NotEmpty(t, spec.Schema)
		}
	}
}

func TestDefaultPlan_IsUnfilteredTickets(t *testing.T) {
	specs := DefaultPlan()
	require.Len(t, specs, 1)
	assert.Equal(t, "tickets_recent", specs[0].Endpoint)
	assert.Equal(t, CategoryTickets, specs[0].Category)
}

func TestPlanFor_ResolvedOncePerRequest(t *testing.T) {
	// Different wall-clock dates produce different queries; nothing is cached.
	first := PlanFor(CategoryTickets, "tickets today", time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC))
	second := PlanFor(CategoryTickets, "tickets today", time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC))
	assert.NotEqual(t, first[0].Params.Get("query"), second[0].Params.Get("query"))
}
