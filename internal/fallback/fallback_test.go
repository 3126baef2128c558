package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/floorplan"
)

func TestLoad(t *testing.T) {
	plan, err := Load()
	require.NoError(t, err)

	assert.Len(t, plan.Seats, 12)
	assert.Len(t, plan.DeskAreas, 2)
	assert.Len(t, plan.FloorSymbols, 4)
	assert.Equal(t, 105.0, plan.OfficeLayout.Width)
	for _, s := range plan.FloorSymbols {
		assert.True(t, s.Kind.Valid(), s.ID)
	}

	e := floorplan.NewEditor(*plan)
	var ids []string
	for _, s := range e.Seats() {
		ids = append(ids, s.ID)
	}
	assert.NotContains(t, ids, "D9")
	assert.Contains(t, ids, "D1")
}

func TestLoadReturnsCopies(t *testing.T) {
	a, err := Load()
	require.NoError(t, err)
	a.Seats[0].Status = domain.SeatOccupied

	b, err := Load()
	require.NoError(t, err)
	assert.Equal(t, domain.SeatAvailable, b.Seats[0].Status)
}
