package agent

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spogdesk/concierge/internal/backend"
	"github.com/spogdesk/concierge/internal/model"
)

// fetchFilter performs one fetch against the collaborator and applies
// the client-side filter pass. Backend failures are degraded to an
// empty result set so the rest of the turn proceeds normally.
func (a *Agent) fetchFilter(ctx context.Context, t *turn) model.ResultSet {
	// A concrete entity id wins over pagination and filters.
	if t.intent.EntityID != "" {
		rec, err := a.backend.FetchByID(ctx, t.intent.Resource, t.intent.EntityID)
		if err != nil {
			// A missing record is a legitimate empty answer, not a
			// degraded turn.
			if !errors.Is(err, backend.ErrNotFound) {
				t.degraded = true
				t.log.Warn("entity lookup failed",
					zap.String("resource", string(t.intent.Resource)),
					zap.String("entity_id", t.intent.EntityID),
					zap.Error(err),
				)
			}
			return nil
		}
		return model.ResultSet{rec}
	}

	page, err := a.backend.FetchPage(ctx, t.intent.Resource, t.page.Limit, t.page.Offset, t.intent.Query)
	if err != nil {
		t.degraded = true
		t.log.Warn("page fetch failed, treating as empty",
			zap.String("resource", string(t.intent.Resource)),
			zap.Int("offset", t.page.Offset),
			zap.Error(err),
		)
		return nil
	}

	return backend.Filter(page, t.intent.Assignee, t.intent.Status)
}
