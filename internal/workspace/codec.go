package workspace

import (
	"encoding/json"
	"fmt"

	"github.com/kirinyoku/deskgo/internal/booking"
	"github.com/kirinyoku/deskgo/internal/floorplan"
	postgresrepo "github.com/kirinyoku/deskgo/internal/repository/postgres"
)

// state is the jsonb document kept per workspace.
type state struct {
	Editor *floorplan.Editor `json:"editor"`
	Dialog booking.Dialog    `json:"dialog"`
	Source Source            `json:"source"`
	Notice string            `json:"notice,omitempty"`
}

func toRecord(w *Workspace) (postgresrepo.WorkspaceRecord, error) {
	b, err := json.Marshal(state{
		Editor: w.Editor,
		Dialog: w.Dialog,
		Source: w.Source,
		Notice: w.Notice,
	})
	if err != nil {
		return postgresrepo.WorkspaceRecord{}, fmt.Errorf("workspace: encode state: %w", err)
	}

	return postgresrepo.WorkspaceRecord{
		ID:        w.ID,
		SessionID: w.SessionID,
		Building:  w.Key.Building,
		Office:    w.Key.Office,
		Floor:     w.Key.Floor,
		Date:      w.Key.Date,
		State:     b,
		Stale:     w.Stale,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}, nil
}

func fromRecord(rec postgresrepo.WorkspaceRecord) (*Workspace, error) {
	var st state
	if err := json.Unmarshal(rec.State, &st); err != nil {
		return nil, fmt.Errorf("workspace: decode state: %w", err)
	}
	if st.Editor == nil {
		return nil, fmt.Errorf("workspace: decode state: no editor")
	}

	w := &Workspace{
		ID:        rec.ID,
		SessionID: rec.SessionID,
		Editor:    st.Editor,
		Dialog:    st.Dialog,
		Source:    st.Source,
		Notice:    st.Notice,
		Stale:     rec.Stale,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	w.Key.Building, w.Key.Office, w.Key.Floor, w.Key.Date = rec.Building, rec.Office, rec.Floor, rec.Date
	return w, nil
}
