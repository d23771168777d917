package agent

import (
	"github.com/spogdesk/concierge/internal/model"
)

// decision is the scan controller's verdict after a fetch.
type decision int

const (
	decisionRespond decision = iota
	decisionNextPage
)

// decide determines whether the turn stops or advances to the next
// page. The loop terminates on any results, outside deep-scan mode, or
// when the attempt budget is spent. attempts counts fetches already
// performed, so a budget of 5 allows exactly 5 fetches.
func decide(results model.ResultSet, mode model.SearchMode, attempts, budget int) decision {
	if len(results) > 0 || mode != model.ModeDeepScan || attempts >= budget {
		return decisionRespond
	}
	return decisionNextPage
}
