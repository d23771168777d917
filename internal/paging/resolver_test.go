package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spogdesk/concierge/internal/model"
)

func TestResolveExplicitPage(t *testing.T) {
	tests := []struct {
		name     string
		previous int
		page     int
		want     int
	}{
		{"page 1 is offset 0", 0, 1, 0},
		{"page 3 with prior offset 100", 100, 3, 40},
		{"page 4", 0, 4, 60},
		{"explicit page ignores previous offset", 80, 2, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.previous, model.Navigation{TargetPage: tt.page}, 20)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRelative(t *testing.T) {
	assert.Equal(t, 40, Resolve(20, model.Navigation{Action: model.NavNext}, 20))
	assert.Equal(t, 20, Resolve(0, model.Navigation{Action: model.NavNext}, 20))
	assert.Equal(t, 0, Resolve(20, model.Navigation{Action: model.NavPrev}, 20))

	// "previous" at the first page never goes negative
	assert.Equal(t, 0, Resolve(0, model.Navigation{Action: model.NavPrev}, 20))
}

func TestResolveNoDirective(t *testing.T) {
	assert.Equal(t, 60, Resolve(60, model.Navigation{}, 20))
	assert.Equal(t, 0, Resolve(-5, model.Navigation{}, 20))
}

func TestResolveStaysPageAligned(t *testing.T) {
	for page := 1; page <= 10; page++ {
		got := Resolve(0, model.Navigation{TargetPage: page}, 20)
		assert.GreaterOrEqual(t, got, 0)
		assert.Zero(t, got%20)
	}
}

func TestPageNumber(t *testing.T) {
	assert.Equal(t, 1, PageNumber(0, 20))
	assert.Equal(t, 2, PageNumber(20, 20))
	assert.Equal(t, 5, PageNumber(80, 20))
	assert.Equal(t, 1, PageNumber(0, 0))
}
