package floorplan

import (
	"encoding/json"
	"fmt"

	"github.com/kirinyoku/deskgo/internal/domain"
)

// SavePayload builds the request body for saving the editor's merged document
// under key. plan_json is the document encoded as a JSON string.
func (e *Editor) SavePayload(key domain.FloorKey) (domain.SavePayload, error) {
	const op = "floorplan.Editor.SavePayload"

	b, err := json.Marshal(e.Document())
	if err != nil {
		return domain.SavePayload{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.SavePayload{
		BuildingName:   key.Building,
		OfficeLocation: key.Office,
		FloorID:        key.Floor,
		PlanJSON:       string(b),
	}, nil
}
