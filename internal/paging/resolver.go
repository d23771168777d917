// Package paging owns all page-offset arithmetic. Offsets are computed
// here deterministically from the classified navigation directive; the
// language model never produces an offset that is trusted.
package paging

import (
	"github.com/spogdesk/concierge/internal/model"
)

// Resolve converts the previous offset and a navigation directive into
// the new offset. Rules, in priority order:
//
//  1. explicit target page P >= 1: (P-1) * pageSize
//  2. "next": previous + pageSize
//  3. "prev": previous - pageSize, floored at 0
//  4. otherwise: unchanged
//
// The result is always a non-negative multiple of pageSize when the
// previous offset was.
func Resolve(previous int, nav model.Navigation, pageSize int) int {
	if previous < 0 {
		previous = 0
	}

	switch {
	case nav.TargetPage >= 1:
		return (nav.TargetPage - 1) * pageSize
	case nav.Action == model.NavNext:
		return previous + pageSize
	case nav.Action == model.NavPrev:
		if previous < pageSize {
			return 0
		}
		return previous - pageSize
	}
	return previous
}

// PageNumber converts an offset back into a 1-based page number, the
// form the collaborator API expects.
func PageNumber(offset, pageSize int) int {
	if pageSize <= 0 || offset <= 0 {
		return 1
	}
	return offset/pageSize + 1
}
