// Package fallback holds the floor plan served when the API is unreachable.
package fallback

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kirinyoku/deskgo/internal/domain"
)

// Notice is shown alongside the fallback plan.
const Notice = "Floor plan service is unavailable. Showing sample data; bookings and edits may not be saved."

//go:embed floorplan.yaml
var raw []byte

// Load returns a fresh copy of the bundled plan.
func Load() (*domain.FloorPlan, error) {
	var plan domain.FloorPlan
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("fallback.Load: %w", err)
	}
	if plan.Resources == nil {
		plan.Resources = []domain.Resource{}
	}
	return &plan, nil
}
