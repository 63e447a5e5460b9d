package report

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// CallSpec describes one remote call of a category plan: the endpoint
// identity, the request to issue, and how to treat the response.
type CallSpec struct {
	Category Category
	Endpoint string
	Label    string
	Path     string
	Params   url.Values
	// ItemsKey non-empty means a paginated list fetch merging arrays under
	// that key; empty means a single stats/object fetch.
	ItemsKey string
	// Schema is an optional JSON-schema shape guard applied to the payload
	// before it reaches the compressor.
	Schema string
}

const objectSchema = `{"type":"object"}`

func listSchema(itemsKey string) string {
	return fmt.Sprintf(`{"type":"object","required":[%q]}`, itemsKey)
}

// PlanFor builds the concrete ordered call list for one matched category.
// Plans are pure functions of (category, question, now); there is no shared
// accumulation across categories.
func PlanFor(category Category, question string, now time.Time) []CallSpec {
	switch category {
	case CategoryTickets:
		return ticketPlan(question, now)
	case CategoryVoice:
		return voicePlan(question)
	case CategorySatisfaction:
		return []CallSpec{
			list(CategorySatisfaction, "satisfaction_ratings", "Satisfaction Ratings",
				"api/v2/satisfaction_ratings", "satisfaction_ratings"),
			list(CategorySatisfaction, "satisfaction_reasons", "Satisfaction Reasons",
				"api/v2/satisfaction_reasons", "reasons"),
		}
	case CategoryUsers:
		spec := list(CategoryUsers, "agents_list", "Agents", "api/v2/users", "users")
		spec.Params = url.Values{"role[]": []string{"agent", "admin"}}
		return []CallSpec{spec}
	case CategoryChat:
		return []CallSpec{
			list(CategoryChat, "chats_recent", "Recent Chats", "api/v2/chats", "chats"),
		}
	case CategoryOrganizations:
		return []CallSpec{
			list(CategoryOrganizations, "organizations_list", "Organizations",
				"api/v2/organizations", "organizations"),
		}
	case CategoryGroups:
		return []CallSpec{
			list(CategoryGroups, "groups_list", "Groups", "api/v2/groups", "groups"),
		}
	case CategoryTags:
		return []CallSpec{
			list(CategoryTags, "tags_list", "Tags", "api/v2/tags", "tags"),
		}
	case CategoryBusinessRules:
		return []CallSpec{
			list(CategoryBusinessRules, "triggers_list", "Triggers", "api/v2/triggers", "triggers"),
			list(CategoryBusinessRules, "automations_list", "Automations", "api/v2/automations", "automations"),
			list(CategoryBusinessRules, "macros_list", "Macros", "api/v2/macros", "macros"),
		}
	default:
		return nil
	}
}

// DefaultPlan is substituted when classification matched nothing, so the
// pipeline never aggregates an empty bag for a non-empty question.
func DefaultPlan() []CallSpec {
	return ticketPlan("", time.Time{})
}

// ticketPlan implements the status × time-window decision table. Both axes
// present combine into one filtered search; one axis filters alone; neither
// fetches an unfiltered recent page.
func ticketPlan(question string, now time.Time) []CallSpec {
	filter := DetectTicketFilter(question, now)
	if !filter.Filtered() {
		spec := list(CategoryTickets, "tickets_recent", "Recent Tickets", "api/v2/tickets", "tickets")
		spec.Params = url.Values{
			"sort_by":    []string{"created_at"},
			"sort_order": []string{"desc"},
			"per_page":   []string{"25"},
		}
		return []CallSpec{spec}
	}

	terms := []string{"type:ticket"}
	var labelParts []string
	if filter.Status != "" {
		terms = append(terms, "status:"+filter.Status)
		labelParts = append(labelParts, capitalize(filter.Status))
	}
	labelParts = append(labelParts, "Tickets")
	if filter.Window != WindowNone {
		terms = append(terms, "created>="+filter.Since.Format("2006-01-02"))
		switch filter.Window {
		case WindowToday:
			labelParts = append(labelParts, "Today")
		case WindowThisWeek:
			labelParts = append(labelParts, "This Week")
		}
	}

	spec := list(CategoryTickets, "tickets_filtered", strings.Join(labelParts, " "),
		"api/v2/search", "results")
	spec.Params = url.Values{"query": []string{strings.Join(terms, " ")}}
	return []CallSpec{spec}
}

// voicePlan always fans out into the eight base call-center calls; secondary
// keywords append missed-calls, phone-numbers, analytics and recordings.
func voicePlan(question string) []CallSpec {
	specs := []CallSpec{
		stats(CategoryVoice, "voice_current_queue", "Current Queue",
			"api/v2/channels/voice/stats/current_queue_activity"),
		stats(CategoryVoice, "voice_account_overview", "Account Overview",
			"api/v2/channels/voice/stats/account_overview"),
		stats(CategoryVoice, "voice_agents_overview", "Agents Overview",
			"api/v2/channels/voice/stats/agents_overview"),
		stats(CategoryVoice, "voice_agents_activity", "Agents Activity",
			"api/v2/channels/voice/stats/agents_activity"),
		stats(CategoryVoice, "voice_historical_queue", "Historical Queue",
			"api/v2/channels/voice/stats/historical_queue_activity"),
		list(CategoryVoice, "voice_recent_calls", "Recent Calls",
			"api/v2/channels/voice/calls", "calls"),
		list(CategoryVoice, "voice_availabilities", "Agent Availability",
			"api/v2/channels/voice/availabilities", "availabilities"),
		list(CategoryVoice, "voice_lines", "Lines",
			"api/v2/channels/voice/lines", "lines"),
	}

	q := strings.ToLower(question)
	if strings.Contains(q, "missed") || strings.Contains(q, "abandon") {
		spec := list(CategoryVoice, "voice_missed_calls", "Missed Calls",
			"api/v2/channels/voice/calls", "calls")
		spec.Params = url.Values{"status": []string{"missed"}}
		specs = append(specs, spec)
	}
	if strings.Contains(q, "phone") || strings.Contains(q, "number") {
		specs = append(specs, list(CategoryVoice, "voice_phone_numbers", "Phone Numbers",
			"api/v2/channels/voice/phone_numbers", "phone_numbers"))
	}
	if strings.Contains(q, "analytic") || strings.Contains(q, "trend") {
		specs = append(specs, stats(CategoryVoice, "voice_analytics", "Call Analytics",
			"api/v2/channels/voice/stats/historical_analytics"))
	}
	if strings.Contains(q, "record") {
		specs = append(specs, list(CategoryVoice, "voice_recordings", "Recordings",
			"api/v2/channels/voice/recordings", "recordings"))
	}

	return specs
}

func list(category Category, endpoint, label, path, itemsKey string) CallSpec {
	return CallSpec{
		Category: category,
		Endpoint: endpoint,
		Label:    label,
		Path:     path,
		ItemsKey: itemsKey,
		Schema:   listSchema(itemsKey),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func stats(category Category, endpoint, label, path string) CallSpec {
	return CallSpec{
		Category: category,
		Endpoint: endpoint,
		Label:    label,
		Path:     path,
		Schema:   objectSchema,
	}
}
