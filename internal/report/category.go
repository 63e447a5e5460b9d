// Package report implements the data-routing core: question classification,
// the endpoint catalog, the concurrent fan-out aggregator and the context
// compressor that digests results for the completion gateway.
package report

import (
	"strings"
	"time"
)

// Category is a logical grouping of a question's intent. Categories are not
// mutually exclusive; one question may match several.
type Category string

const (
	CategoryVoice         Category = "voice"
	CategoryChat          Category = "chat"
	CategoryTickets       Category = "tickets"
	CategoryUsers         Category = "users"
	CategoryOrganizations Category = "organizations"
	CategorySatisfaction  Category = "satisfaction"
	CategoryBusinessRules Category = "business_rules"
	CategoryGroups        Category = "groups"
	CategoryTags          Category = "tags"
)

// allCategories fixes the iteration order so classification output is
// deterministic for identical input.
var allCategories = []Category{
	CategoryTickets,
	CategoryVoice,
	CategorySatisfaction,
	CategoryUsers,
	CategoryChat,
	CategoryOrganizations,
	CategoryGroups,
	CategoryTags,
	CategoryBusinessRules,
}

// categoryKeywords maps each category to its keyword predicates. Matching is
// case-insensitive substring containment, kept data-driven so each category
// is testable and extensible on its own.
var categoryKeywords = map[Category][]string{
	CategoryTickets: {
		"ticket", "backlog", "unresolved", "open", "solved", "pending",
		"closed", "escalat", "sla", "issue", "request",
	},
	CategoryVoice: {
		"call", "phone", "missed", "hold", "queue", "answer rate",
		"voicemail", "ivr", "talk time", "abandon", "dial",
	},
	CategorySatisfaction: {
		"satisfaction", "csat", "rating", "nps", "feedback", "survey",
	},
	CategoryUsers: {
		"agent", "staff", "assignee", "team member", "operator", "admin",
	},
	CategoryChat: {
		"chat", "messaging", "live conversation",
	},
	CategoryOrganizations: {
		"organization", "organisation", "company", "account",
	},
	CategoryGroups: {
		"group", "department",
	},
	CategoryTags: {
		"tag", "label",
	},
	CategoryBusinessRules: {
		"trigger", "automation", "business rule", "macro", "workflow",
	},
}

// Classify inspects a free-text question and returns every category whose
// keyword list matches. Empty or whitespace-only input yields no categories;
// the aggregator substitutes the default plan in that case. Pure text
// analysis, no I/O.
func Classify(question string) []Category {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return nil
	}

	var matched []Category
	for _, cat := range allCategories {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(q, kw) {
				matched = append(matched, cat)
				break
			}
		}
	}
	return matched
}

// TicketWindow names the relative time window detected in a question.
type TicketWindow string

const (
	WindowNone     TicketWindow = ""
	WindowToday    TicketWindow = "today"
	WindowThisWeek TicketWindow = "this_week"
)

// TicketFilter is the secondary classification axis for the tickets
// category: an optional status keyword and an optional relative time window.
type TicketFilter struct {
	Status string
	Window TicketWindow
	Since  time.Time
}

// Filtered reports whether either axis was detected.
func (f TicketFilter) Filtered() bool {
	return f.Status != "" || f.Window != WindowNone
}

var ticketStatuses = []string{"open", "new", "pending", "solved", "closed"}

// DetectTicketFilter extracts the status and time-window axes from a
// question. "today" resolves to the current UTC date; "this week" resolves
// to Monday 00:00:00 in now's location. Resolution happens once per request
// at plan time and is never cached.
func DetectTicketFilter(question string, now time.Time) TicketFilter {
	q := strings.ToLower(question)
	var filter TicketFilter

	for _, status := range ticketStatuses {
		if strings.Contains(q, status) {
			filter.Status = status
			break
		}
	}

	switch {
	case strings.Contains(q, "today"):
		filter.Window = WindowToday
		utc := now.UTC()
		filter.Since = time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	case strings.Contains(q, "this week"):
		filter.Window = WindowThisWeek
		filter.Since = startOfWeek(now)
	}

	return filter
}

// startOfWeek returns Monday 00:00:00 of now's week in now's location.
func startOfWeek(now time.Time) time.Time {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday counts as the end of the week
	}
	monday := now.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
}
