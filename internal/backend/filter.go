package backend

import (
	"strings"

	"github.com/spogdesk/concierge/internal/model"
)

// candidateKeys are the object fields that may hold a display name when
// extracting candidates from nested structures.
var candidateKeys = []string{"name", "full_name", "email", "firstName"}

// ExtractCandidates recursively collects candidate name/status strings
// from a JSON-like value: arrays are walked element-wise, objects
// contribute their known name-like fields, bare strings contribute
// themselves.
func ExtractCandidates(v any) []string {
	var out []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			out = append(out, ExtractCandidates(item)...)
		}
	case map[string]any:
		for _, key := range candidateKeys {
			if s, ok := val[key].(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case string:
		out = append(out, val)
	}
	return out
}

// matchFuzzy reports whether one string is a case-insensitive substring
// of the other, in either direction.
func matchFuzzy(filter, candidate string) bool {
	f := strings.ToLower(strings.TrimSpace(filter))
	c := strings.ToLower(strings.TrimSpace(candidate))
	if f == "" || c == "" {
		return false
	}
	return strings.Contains(c, f) || strings.Contains(f, c)
}

func matchAny(filter string, candidates []string) bool {
	for _, c := range candidates {
		if matchFuzzy(filter, c) {
			return true
		}
	}
	return false
}

// Filter applies the client-side filter pass: a record is retained only
// when it matches every active predicate. Assignee filters inspect the
// assignee and created_by fields; status filters inspect status.
func Filter(records model.ResultSet, assignee, status string) model.ResultSet {
	if assignee == "" && status == "" {
		return records
	}

	filtered := make(model.ResultSet, 0, len(records))
	for _, rec := range records {
		if assignee != "" {
			candidates := append(
				ExtractCandidates(rec["assignee"]),
				ExtractCandidates(rec["created_by"])...,
			)
			if !matchAny(assignee, candidates) {
				continue
			}
		}
		if status != "" {
			if !matchAny(status, ExtractCandidates(rec["status"])) {
				continue
			}
		}
		filtered = append(filtered, rec)
	}
	return filtered
}
