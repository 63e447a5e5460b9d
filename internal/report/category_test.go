package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_SingleKeywordPerCategory(t *testing.T) {
	// One representative keyword per category must classify to a set
	// containing that category.
	tests := []struct {
		question string
		expected Category
	}{
		{"how long is the hold queue", CategoryVoice},
		{"any new chat conversations", CategoryChat},
		{"show me the ticket backlog", CategoryTickets},
		{"which agent solved the most", CategoryUsers},
		{"list every organization we support", CategoryOrganizations},
		{"what's our csat this month", CategorySatisfaction},
		{"do we have an automation for that", CategoryBusinessRules},
		{"how many people in the billing department", CategoryGroups},
		{"most used tag", CategoryTags},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			categories := Classify(tt.question)
			assert.Contains(t, categories, tt.expected)
		})
	}
}

func TestClassify_EveryKeywordMatchesItsOwnCategory(t *testing.T) {
	for category, keywords := range categoryKeywords {
		for _, kw := range keywords {
			categories := Classify(kw)
			assert.Contains(t, categories, category, "keyword %q should classify to %s", kw, category)
		}
	}
}

func TestClassify_MultipleCategories(t *testing.T) {
	categories := Classify("compare ticket volume with missed calls")
	assert.Contains(t, categories, CategoryTickets)
	assert.Contains(t, categories, CategoryVoice)
}

func TestClassify_EmptyInput(t *testing.T) {
	assert.Empty(t, Classify(""))
	assert.Empty(t, Classify("   \t\n"))
}

func TestClassify_NoMatch(t *testing.T) {
	assert.Empty(t, Classify("what's the weather"))
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Contains(t, Classify("TICKET Backlog?"), CategoryTickets)
}

func TestClassify_Deterministic(t *testing.T) {
	question := "open tickets and missed calls from agents"
	first := Classify(question)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(question))
	}
}

func TestDetectTicketFilter_DecisionTable(t *testing.T) {
	now := time.Date(2024, time.March, 14, 15, 30, 0, 0, time.UTC) // a Thursday

	tests := []struct {
		name           string
		question       string
		expectedStatus string
		expectedWindow TicketWindow
	}{
		{"neither axis", "show me tickets", "", WindowNone},
		{"status only", "how many open tickets", "open", WindowNone},
		{"window only", "tickets created today", "", WindowToday},
		{"both axes", "open tickets today", "open", WindowToday},
		{"week window", "solved tickets this week", "solved", WindowThisWeek},
		{"pending status", "pending requests", "pending", WindowNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := DetectTicketFilter(tt.question, now)
			assert.Equal(t, tt.expectedStatus, filter.Status)
			assert.Equal(t, tt.expectedWindow, filter.Window)
		})
	}
}

func TestDetectTicketFilter_TodayIsUTCDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// Late evening local time: UTC has already rolled over to the 15th.
	now := time.Date(2024, time.March, 14, 22, 0, 0, 0, loc)

	filter := DetectTicketFilter("tickets today", now)
	assert.Equal(t, WindowToday, filter.Window)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), filter.Since)
}

func TestDetectTicketFilter_ThisWeekStartsMondayLocal(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	now := time.Date(2024, time.March, 14, 10, 0, 0, 0, loc) // Thursday

	filter := DetectTicketFilter("tickets this week", now)
	assert.Equal(t, WindowThisWeek, filter.Window)
	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, loc), filter.Since)
}

func TestDetectTicketFilter_SundayBelongsToEndingWeek(t *testing.T) {
	now := time.Date(2024, time.March, 17, 12, 0, 0, 0, time.UTC) // Sunday

	filter := DetectTicketFilter("tickets this week", now)
	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), filter.Since)
}
