package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kirinyoku/deskgo/internal/domain"
)

// The API answers in more than one shape:
//
//	{"success": true, "data": {...}}
//	{"success": false, "error": {"code": "...", "message": "..."}}
//	{"user": {...}, "token": "..."}            (legacy, flat)
//	{"message": "..."} / {"error": "..."}      (legacy errors)
//	[...]                                      (legacy bare lists)
//
// normalize is the single place that knows about this. Everything past it
// sees the payload or an *APIError.
func normalize(status int, body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	ok := status >= 200 && status < 300

	if len(body) == 0 {
		if ok {
			return nil, nil
		}
		return nil, &APIError{Status: status}
	}

	if body[0] != '{' {
		if ok {
			return json.RawMessage(body), nil
		}
		return nil, &APIError{Status: status, Message: string(body)}
	}

	var env struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Code    string          `json:"code"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		if ok {
			return nil, fmt.Errorf("backend: decode response: %w", err)
		}
		return nil, &APIError{Status: status, Message: string(body)}
	}

	failed := !ok || (env.Success != nil && !*env.Success)
	if failed {
		apiErr := &APIError{Status: status, Code: env.Code, Message: env.Message}
		if apiErr.Status < 400 {
			apiErr.Status = http.StatusUnprocessableEntity
		}
		readErrorField(env.Error, apiErr)
		return nil, apiErr
	}

	if len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data, nil
	}
	// Legacy flat shape, or a bare {"success": true}.
	return json.RawMessage(body), nil
}

func readErrorField(raw json.RawMessage, into *APIError) {
	if len(raw) == 0 || string(raw) == "null" {
		return
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if into.Message == "" {
			into.Message = s
		}
		return
	}
	var obj struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Code != "" {
			into.Code = obj.Code
		}
		if obj.Message != "" {
			into.Message = obj.Message
		}
	}
}

func decode[T any](raw json.RawMessage) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("backend: decode payload: %w", err)
	}
	return out, nil
}

// decodeList accepts a bare list or a list wrapped in a named field, as in
// {"users": [...]} or {"items": [...]}.
func decodeList[T any](raw json.RawMessage, fields ...string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return []T{}, nil
	}
	if raw[0] == '[' {
		return decode[[]T](raw)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("backend: decode list: %w", err)
	}
	for _, f := range append(fields, "items", "results") {
		if v, ok := obj[f]; ok {
			return decodeList[T](v)
		}
	}
	return nil, fmt.Errorf("backend: decode list: no list field in response")
}

func decodeAuth(raw json.RawMessage) (domain.AuthResult, error) {
	var in struct {
		User              domain.User `json:"user"`
		Token             string      `json:"token"`
		AccessToken       string      `json:"accessToken"`
		RefreshToken      string      `json:"refreshToken"`
		RefreshTokenSnake string      `json:"refresh_token"`
		Tokens            *struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return domain.AuthResult{}, fmt.Errorf("backend: decode auth: %w", err)
	}

	out := domain.AuthResult{
		User:         in.User,
		Token:        firstNonEmpty(in.Token, in.AccessToken),
		RefreshToken: firstNonEmpty(in.RefreshToken, in.RefreshTokenSnake),
	}
	if in.Tokens != nil {
		out.Token = firstNonEmpty(out.Token, in.Tokens.AccessToken)
		out.RefreshToken = firstNonEmpty(out.RefreshToken, in.Tokens.RefreshToken)
	}
	if out.User.Role == "" {
		out.User.Role = domain.RoleUser
	}
	return out, nil
}

// decodeFloorPlan accepts the plan itself, a {"floorPlan": {...}} wrapper, or
// a saved record carrying the plan as a JSON string in plan_json.
func decodeFloorPlan(raw json.RawMessage) (*domain.FloorPlan, error) {
	var in struct {
		domain.FloorPlan
		PlanJSON *string           `json:"plan_json"`
		Wrapped  *domain.FloorPlan `json:"floorPlan"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("backend: decode floor plan: %w", err)
	}

	switch {
	case in.Wrapped != nil:
		return in.Wrapped, nil
	case in.PlanJSON != nil:
		var plan domain.FloorPlan
		if err := json.Unmarshal([]byte(*in.PlanJSON), &plan); err != nil {
			return nil, fmt.Errorf("backend: decode plan_json: %w", err)
		}
		return &plan, nil
	}

	plan := in.FloorPlan
	if plan.Seats == nil && plan.DeskAreas == nil && plan.FloorSymbols == nil {
		return nil, fmt.Errorf("backend: decode floor plan: empty document")
	}
	return &plan, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// unwrap returns raw's field named key when raw is an object that has it,
// and raw unchanged otherwise.
func unwrap(raw json.RawMessage, key string) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return raw
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return raw
	}
	if v, ok := obj[key]; ok && string(v) != "null" {
		return v
	}
	return raw
}
