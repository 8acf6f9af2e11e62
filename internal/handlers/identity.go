package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UserIDHeader carries the caller's user ID, set by the gateway that
// authenticates requests.
const UserIDHeader = "X-User-ID"

var (
	errInvalidUserID    = errors.New("invalid " + UserIDHeader + " header")
	errIdentityRequired = errors.New(UserIDHeader + " header is required")
)

// requestUserID returns the caller's ID, or nil for anonymous requests.
func requestUserID(c *fiber.Ctx) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Get(UserIDHeader))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errInvalidUserID
	}
	return &id, nil
}

// requireUserID is requestUserID for endpoints that need a caller.
func requireUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := requestUserID(c)
	if err != nil {
		return uuid.Nil, err
	}
	if id == nil {
		return uuid.Nil, errIdentityRequired
	}
	return *id, nil
}
