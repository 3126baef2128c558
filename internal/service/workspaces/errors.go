package workspaces

import "errors"

var (
	ErrForbidden      = errors.New("administrator role required")
	ErrInvalidFloor   = errors.New("building, office and floor are required")
	ErrInvalidDate    = errors.New("date must be formatted YYYY-MM-DD")
	ErrSaveInProgress = errors.New("a save of this workspace is already in progress")
	ErrInvalidZoom    = errors.New("unknown zoom action")
)
