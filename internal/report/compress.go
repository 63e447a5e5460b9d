package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// compressionOrder fixes the category order of the context block so output
// is deterministic regardless of network completion order.
var compressionOrder = []Category{
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

// maxListItems caps every itemized list in the context block.
const maxListItems = 5

// Compress converts a result bag into the bounded natural-language digest
// injected into the completion prompt. Categories with only failures, or
// whose payloads lack every expected field, contribute no section.
func Compress(bag *ResultBag, question string) string {
	var sections []string

	for _, category := range compressionOrder {
		successes := successesOf(bag, category)
		if len(successes) == 0 {
			continue
		}
		if section := formatCategory(category, successes); section != "" {
			sections = append(sections, section)
		}
	}

	// Last resort for a category the formatters don't know: a truncated raw
	// echo beats dropping fetched data on the floor.
	for _, category := range unknownCategories(bag) {
		successes := successesOf(bag, category)
		if len(successes) == 0 {
			continue
		}
		if raw := rawFallback(category, successes[0]); raw != "" {
			sections = append(sections, raw)
		}
	}

	return strings.Join(sections, "\n\n")
}

func successesOf(bag *ResultBag, category Category) []FetchResult {
	var out []FetchResult
	for _, result := range bag.ByCategory(category) {
		if !result.Failed() && result.Payload != nil {
			out = append(out, result)
		}
	}
	return out
}

func unknownCategories(bag *ResultBag) []Category {
	known := make(map[Category]bool, len(compressionOrder))
	for _, category := range compressionOrder {
		known[category] = true
	}
	var out []Category
	seen := make(map[Category]bool)
	for _, result := range bag.Results() {
		if !known[result.Category] && !seen[result.Category] {
			seen[result.Category] = true
			out = append(out, result.Category)
		}
	}
	return out
}

func formatCategory(category Category, successes []FetchResult) string {
	switch category {
	case CategoryTickets:
		return formatTickets(successes)
	case CategoryVoice:
		return formatVoice(successes)
	case CategorySatisfaction:
		return formatSatisfaction(successes)
	case CategoryUsers:
		return formatUsers(successes)
	case CategoryChat:
		return formatChats(successes)
	case CategoryOrganizations:
		return formatNamedList("Organizations", successes)
	case CategoryGroups:
		return formatNamedList("Groups", successes)
	case CategoryTags:
		return formatTags(successes)
	case CategoryBusinessRules:
		return formatBusinessRules(successes)
	default:
		return ""
	}
}

func formatTickets(successes []FetchResult) string {
	var lines []string
	for _, result := range successes {
		count, ok := countOf(result)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d", result.Label, count))
		lines = append(lines, itemLines(result, func(item map[string]interface{}) string {
			subject := stringField(item, "subject", "raw_subject", "description")
			status := stringField(item, "status")
			id := numberOr(item["id"], 0)
			switch {
			case subject != "" && status != "":
				return fmt.Sprintf("- #%d %s (%s)", int(id), subject, status)
			case subject != "":
				return fmt.Sprintf("- #%d %s", int(id), subject)
			default:
				return ""
			}
		})...)
	}
	if len(lines) == 0 {
		return ""
	}
	return "Tickets:\n" + strings.Join(lines, "\n")
}

// voiceStatFields is the fixed extraction list for the call-center stats
// payloads; anything outside it is ignored, never echoed.
var voiceStatFields = []struct {
	key   string
	label string
}{
	{"calls_waiting", "Calls waiting"},
	{"agents_online", "Agents online"},
	{"total_calls", "Total calls"},
	{"answered_calls", "Answered calls"},
	{"missed_calls", "Missed calls"},
	{"average_wait_time", "Average wait time (s)"},
	{"longest_wait_time", "Longest wait time (s)"},
	{"average_talk_time", "Average talk time (s)"},
}

func formatVoice(successes []FetchResult) string {
	var lines []string
	seenLabels := make(map[string]bool)

	var answered, total float64
	var haveAnswered, haveTotal bool

	for _, field := range voiceStatFields {
		for _, result := range successes {
			if result.ItemsKey != "" {
				continue
			}
			if v, ok := findNumber(result.Payload, field.key); ok {
				lines = append(lines, fmt.Sprintf("%s: %d", field.label, int(v)))
				seenLabels[strings.ToLower(field.label)] = true
				switch field.key {
				case "answered_calls":
					answered, haveAnswered = v, true
				case "total_calls":
					total, haveTotal = v, true
				}
				break
			}
		}
	}

	if haveAnswered && haveTotal && total > 0 {
		lines = append(lines, fmt.Sprintf("Answer rate: %.1f%%", answered/total*100))
	}

	for _, result := range successes {
		if result.ItemsKey == "" {
			continue
		}
		count, ok := countOf(result)
		if !ok || seenLabels[strings.ToLower(result.Label)] {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d", result.Label, count))
	}

	if len(lines) == 0 {
		return ""
	}
	return "Call center:\n" + strings.Join(lines, "\n")
}

func formatSatisfaction(successes []FetchResult) string {
	var lines []string
	for _, result := range successes {
		if result.Endpoint != "satisfaction_ratings" {
			continue
		}
		items := itemsOf(result)
		if len(items) == 0 {
			continue
		}
		var good, bad int
		for _, item := range items {
			switch stringField(item, "score") {
			case "good":
				good++
			case "bad":
				bad++
			}
		}
		lines = append(lines, fmt.Sprintf("Ratings received: %d", len(items)))
		if good+bad > 0 {
			lines = append(lines, fmt.Sprintf("Satisfaction rate: %.1f%%", float64(good)/float64(good+bad)*100))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "Satisfaction:\n" + strings.Join(lines, "\n")
}

func formatUsers(successes []FetchResult) string {
	var lines []string
	for _, result := range successes {
		count, ok := countOf(result)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d", result.Label, count))
		lines = append(lines, itemLines(result, func(item map[string]interface{}) string {
			name := stringField(item, "name")
			if name == "" {
				return ""
			}
			if role := stringField(item, "role"); role != "" {
				return fmt.Sprintf("- %s (%s)", name, role)
			}
			return "- " + name
		})...)
	}
	if len(lines) == 0 {
		return ""
	}
	return "Staff:\n" + strings.Join(lines, "\n")
}

func formatChats(successes []FetchResult) string {
	var lines []string
	for _, result := range successes {
		if count, ok := countOf(result); ok {
			lines = append(lines, fmt.Sprintf("%s: %d", result.Label, count))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "Chat:\n" + strings.Join(lines, "\n")
}

func formatNamedList(header string, successes []FetchResult) string {
	var lines []string
	for _, result := range successes {
		count, ok := countOf(result)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d", result.Label, count))
		lines = append(lines, itemLines(result, func(item map[string]interface{}) string {
			if name := stringField(item, "name"); name != "" {
				return "- " + name
			}
			return ""
		})...)
	}
	if len(lines) == 0 {
		return ""
	}
	return header + ":\n" + strings.Join(lines, "\n")
}

func formatTags(successes []FetchResult) string {
	var lines []string
	for _, result := range successes {
		items := itemsOf(result)
		if len(items) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("Tags in use: %d", len(items)))
		lines = append(lines, itemLines(result, func(item map[string]interface{}) string {
			name := stringField(item, "name")
			if name == "" {
				return ""
			}
			if count, ok := item["count"]; ok {
				return fmt.Sprintf("- %s (%d)", name, int(numberOr(count, 0)))
			}
			return "- " + name
		})...)
	}
	if len(lines) == 0 {
		return ""
	}
	return "Tags:\n" + strings.Join(lines, "\n")
}

func formatBusinessRules(successes []FetchResult) string {
	var lines []string
	for _, result := range successes {
		items := itemsOf(result)
		if len(items) == 0 {
			continue
		}
		active := 0
		for _, item := range items {
			if isActive, ok := item["active"].(bool); ok && isActive {
				active++
			}
		}
		lines = append(lines, fmt.Sprintf("%s: %d (%d active)", result.Label, len(items), active))
	}
	if len(lines) == 0 {
		return ""
	}
	return "Business rules:\n" + strings.Join(lines, "\n")
}

func rawFallback(category Category, result FetchResult) string {
	raw, err := json.Marshal(result.Payload)
	if err != nil {
		return ""
	}
	const rawCap = 300
	body := string(raw)
	if len(body) > rawCap {
		body = body[:rawCap] + "..."
	}
	return fmt.Sprintf("%s (raw):\n%s", category, body)
}

// itemLines renders up to maxListItems entries plus a truncation marker.
func itemLines(result FetchResult, render func(map[string]interface{}) string) []string {
	items := itemsOf(result)
	var lines []string
	rendered := 0
	for _, item := range items {
		if rendered == maxListItems {
			break
		}
		if line := render(item); line != "" {
			lines = append(lines, line)
			rendered++
		}
	}
	if rendered == maxListItems && len(items) > maxListItems {
		lines = append(lines, fmt.Sprintf("...and %d more", len(items)-maxListItems))
	}
	return lines
}

func itemsOf(result FetchResult) []map[string]interface{} {
	if result.ItemsKey == "" {
		return nil
	}
	rawItems, ok := result.Payload[result.ItemsKey].([]interface{})
	if !ok {
		return nil
	}
	var items []map[string]interface{}
	for _, raw := range rawItems {
		if item, ok := raw.(map[string]interface{}); ok {
			items = append(items, item)
		}
	}
	return items
}

// countOf prefers the API's own count field, then the pagination total, then
// the item list length.
func countOf(result FetchResult) (int, bool) {
	if v, ok := result.Payload["count"]; ok {
		if n, isNum := asNumber(v); isNum {
			return int(n), true
		}
	}
	if v, ok := result.Payload["fetched_count"]; ok {
		if n, isNum := asNumber(v); isNum {
			return int(n), true
		}
	}
	if items := itemsOf(result); items != nil {
		return len(items), true
	}
	return 0, false
}

// findNumber looks for key at the payload's top level, then one level down
// inside nested objects, matching how stats endpoints wrap their body.
func findNumber(payload map[string]interface{}, key string) (float64, bool) {
	if v, ok := payload[key]; ok {
		return asNumber(v)
	}
	// Sorted walk keeps output stable when several nested objects carry the key.
	nestedKeys := make([]string, 0, len(payload))
	for k := range payload {
		nestedKeys = append(nestedKeys, k)
	}
	sort.Strings(nestedKeys)
	for _, k := range nestedKeys {
		if nested, ok := payload[k].(map[string]interface{}); ok {
			if inner, ok := nested[key]; ok {
				return asNumber(inner)
			}
		}
	}
	return 0, false
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func stringField(item map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := item[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func numberOr(v interface{}, fallback float64) float64 {
	if n, ok := asNumber(v); ok {
		return n
	}
	return fallback
}
