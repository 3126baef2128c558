package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kirinyoku/deskgo/internal/domain"
)

// Claims are the parts of a backend access token deskgo looks at.
type Claims struct {
	Subject   string
	Role      domain.Role
	ExpiresAt time.Time
}

// ReadClaims decodes token without verifying its signature. The backend owns
// the signing key and re-validates every call; deskgo only needs the role and
// expiry for display and routing.
func ReadClaims(token string) (Claims, error) {
	const op = "session.ReadClaims"

	tok, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("%s: %w", op, err)
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("%s: unexpected claims type %T", op, tok.Claims)
	}

	var out Claims
	if sub, err := mc.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if role, ok := mc["role"].(string); ok {
		out.Role = domain.Role(role)
	}
	if out.Subject == "" {
		if id, ok := mc["userId"].(string); ok {
			out.Subject = id
		}
	}
	return out, nil
}
