package service

import (
	"github.com/kirinyoku/deskgo/internal/service/admin"
	"github.com/kirinyoku/deskgo/internal/service/auth"
	"github.com/kirinyoku/deskgo/internal/service/bookings"
	"github.com/kirinyoku/deskgo/internal/service/resources"
	"github.com/kirinyoku/deskgo/internal/service/workspaces"
)

type Services struct {
	Auth       *auth.Service
	Workspaces *workspaces.Service
	Bookings   *bookings.Service
	Resources  *resources.Service
	Admin      *admin.Service
}
