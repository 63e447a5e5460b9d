package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk-insights/internal/helpdesk"
)

func ticketResult(label string, count int, items ...interface{}) FetchResult {
	return FetchResult{
		Category: CategoryTickets,
		Endpoint: "tickets_filtered",
		Label:    label,
		ItemsKey: "results",
		Payload:  helpdesk.Payload{"count": float64(count), "results": items},
	}
}

func TestCompress_ScenarioA_FilteredTickets(t *testing.T) {
	bag := NewResultBag()
	bag.Add(ticketResult("Open Tickets Today", 42,
		map[string]interface{}{"id": 101.0, "subject": "Printer on fire", "status": "open"},
	))

	block := Compress(bag, "How many open tickets do we have today?")
	assert.Contains(t, block, "Open Tickets Today: 42")
	assert.Contains(t, block, "#101 Printer on fire (open)")
}

func TestCompress_DeterministicAcrossInsertionOrder(t *testing.T) {
	// P5: identical content, different completion order, identical output.
	voice := FetchResult{
		Category: CategoryVoice,
		Endpoint: "voice_account_overview",
		Label:    "Account Overview",
		Payload:  helpdesk.Payload{"total_calls": float64(200), "answered_calls": float64(175)},
	}
	tickets := ticketResult("Recent Tickets", 12)

	first := NewResultBag()
	first.Add(voice)
	first.Add(tickets)

	second := NewResultBag()
	second.Add(tickets)
	second.Add(voice)

	assert.Equal(t, Compress(first, "q"), Compress(second, "q"))
	assert.Less(t, strings.Index(Compress(first, "q"), "Tickets:"),
		strings.Index(Compress(first, "q"), "Call center:"))
}

func TestCompress_TruncatesListsAtFive(t *testing.T) {
	// P6: 12 itemizable entries render as 5 plus a truncation marker.
	items := make([]interface{}, 12)
	for i := range items {
		items[i] = map[string]interface{}{
			"id":      float64(i + 1),
			"subject": fmt.Sprintf("Issue %d", i+1),
			"status":  "open",
		}
	}
	bag := NewResultBag()
	bag.Add(ticketResult("Open Tickets", 12, items...))

	block := Compress(bag, "open tickets")
	assert.Contains(t, block, "#5 Issue 5")
	assert.NotContains(t, block, "#6 Issue 6")
	assert.Contains(t, block, "...and 7 more")
}

func TestCompress_FailureOnlyCategoryOmitted(t *testing.T) {
	bag := NewResultBag()
	bag.Add(ticketResult("Recent Tickets", 3))
	bag.Add(FetchResult{
		Category: CategoryVoice,
		Endpoint: "voice_current_queue",
		Label:    "Current Queue",
		Err:      "API_AUTH_FAILED: helpdesk API authentication failed",
	})

	block := Compress(bag, "tickets and calls")
	assert.Contains(t, block, "Tickets:")
	assert.NotContains(t, block, "Call center")
	assert.NotContains(t, block, "AUTH")
}

func TestCompress_PayloadWithoutExpectedFieldsOmitted(t *testing.T) {
	bag := NewResultBag()
	bag.Add(FetchResult{
		Category: CategoryVoice,
		Endpoint: "voice_current_queue",
		Label:    "Current Queue",
		Payload:  helpdesk.Payload{"unrelated": "value"},
	})

	assert.Equal(t, "", Compress(bag, "calls"))
}

func TestCompress_VoiceStatsAndRates(t *testing.T) {
	bag := NewResultBag()
	bag.Add(FetchResult{
		Category: CategoryVoice,
		Endpoint: "voice_current_queue",
		Label:    "Current Queue",
		Payload: helpdesk.Payload{
			"current_queue_activity": map[string]interface{}{
				"calls_waiting":     float64(3),
				"average_wait_time": float64(42),
			},
		},
	})
	bag.Add(FetchResult{
		Category: CategoryVoice,
		Endpoint: "voice_account_overview",
		Label:    "Account Overview",
		Payload: helpdesk.Payload{
			"total_calls":    float64(200),
			"answered_calls": float64(175),
		},
	})

	block := Compress(bag, "how are calls going")
	assert.Contains(t, block, "Calls waiting: 3")
	assert.Contains(t, block, "Average wait time (s): 42")
	assert.Contains(t, block, "Total calls: 200")
	assert.Contains(t, block, "Answer rate: 87.5%")
}

func TestCompress_VoiceListCounts(t *testing.T) {
	bag := NewResultBag()
	bag.Add(FetchResult{
		Category: CategoryVoice,
		Endpoint: "voice_phone_numbers",
		Label:    "Phone Numbers",
		ItemsKey: "phone_numbers",
		Payload: helpdesk.Payload{
			"phone_numbers": []interface{}{
				map[string]interface{}{"number": "+15551234"},
				map[string]interface{}{"number": "+15555678"},
			},
			"fetched_count": 2,
		},
	})

	block := Compress(bag, "phone numbers")
	assert.Contains(t, block, "Phone Numbers: 2")
}

func TestCompress_SatisfactionRate(t *testing.T) {
	bag := NewResultBag()
	bag.Add(FetchResult{
		Category: CategorySatisfaction,
		Endpoint: "satisfaction_ratings",
		Label:    "Satisfaction Ratings",
		ItemsKey: "satisfaction_ratings",
		Payload: helpdesk.Payload{
			"satisfaction_ratings": []interface{}{
				map[string]interface{}{"score": "good"},
				map[string]interface{}{"score": "good"},
				map[string]interface{}{"score": "bad"},
			},
		},
	})

	block := Compress(bag, "csat")
	assert.Contains(t, block, "Ratings received: 3")
	assert.Contains(t, block, "Satisfaction rate: 66.7%")
}

func TestCompress_BusinessRulesActiveCounts(t *testing.T) {
	bag := NewResultBag()
	bag.Add(FetchResult{
		Category: CategoryBusinessRules,
		Endpoint: "triggers_list",
		Label:    "Triggers",
		ItemsKey: "triggers",
		Payload: helpdesk.Payload{
			"triggers": []interface{}{
				map[string]interface{}{"title": "Notify on open", "active": true},
				map[string]interface{}{"title": "Old rule", "active": false},
			},
		},
	})

	block := Compress(bag, "triggers")
	assert.Contains(t, block, "Triggers: 2 (1 active)")
}

func TestCompress_ScenarioC_DefaultTicketsOnly(t *testing.T) {
	// Unmatched question: default plan ran, so the block holds one generic
	// tickets overview section and nothing else.
	bag := NewResultBag()
	bag.Add(FetchResult{
		Category: CategoryTickets,
		Endpoint: "tickets_recent",
		Label:    "Recent Tickets",
		ItemsKey: "tickets",
		Payload: helpdesk.Payload{
			"tickets": []interface{}{
				map[string]interface{}{"id": 1.0, "subject": "VPN down", "status": "open"},
			},
			"count": float64(57),
		},
	})

	block := Compress(bag, "what's the weather")
	require.True(t, strings.HasPrefix(block, "Tickets:"))
	assert.Contains(t, block, "Recent Tickets: 57")
	assert.Equal(t, 1, strings.Count(block, ":\n"))
}

func TestCompress_EmptyBag(t *testing.T) {
	assert.Equal(t, "", Compress(NewResultBag(), "anything"))
}

func TestCompress_NoRawJSONForKnownCategories(t *testing.T) {
	bag := NewResultBag()
	bag.Add(ticketResult("Recent Tickets", 4))

	block := Compress(bag, "tickets")
	assert.NotContains(t, block, "{")
}
