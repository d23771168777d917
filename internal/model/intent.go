package model

import (
	"strings"
)

// ResourceKind identifies a collaborator resource type.
type ResourceKind string

const (
	ResourceUser   ResourceKind = "user"
	ResourceItem   ResourceKind = "item"
	ResourceTicket ResourceKind = "ticket"
)

// ParseResource maps a free-form resource label to a known kind.
func ParseResource(s string) (ResourceKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "users":
		return ResourceUser, true
	case "item", "items":
		return ResourceItem, true
	case "ticket", "tickets", "incident", "incidents":
		return ResourceTicket, true
	}
	return "", false
}

// SearchMode controls whether a turn fetches one page or scans forward
// until it finds results.
type SearchMode string

const (
	ModeSinglePage SearchMode = "single_page"
	ModeDeepScan   SearchMode = "deep_scan"
)

// NavAction is a relative page navigation directive.
type NavAction string

const (
	NavNone NavAction = ""
	NavNext NavAction = "next"
	NavPrev NavAction = "prev"
)

// Navigation is the parsed page directive for a turn. TargetPage takes
// priority over Action; zero means no explicit page was requested.
type Navigation struct {
	TargetPage int
	Action     NavAction
}

// Intent is the structured interpretation of a user utterance. It is
// produced once per turn by the intent parser; only the resolved offset
// is computed downstream.
type Intent struct {
	Resource   ResourceKind
	EntityID   string
	Navigation Navigation
	Query      string
	Assignee   string
	Status     string
	Mode       SearchMode
}

// DefaultIntent is the safe fallback used when the router reply cannot
// be parsed: no filters, no query, first page, single-page mode.
func DefaultIntent() Intent {
	return Intent{
		Resource: ResourceTicket,
		Mode:     ModeSinglePage,
	}
}
