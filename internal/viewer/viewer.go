// Package viewer carries the identity of whoever issued a request. It is
// passed explicitly into every service call instead of living in globals.
package viewer

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const localsKey = "viewer"

type Viewer struct {
	UserID   uuid.UUID
	IsAdmin  bool
	IsBanned bool
}

// Anonymous is the viewer of an unauthenticated request.
var Anonymous = Viewer{}

func (v Viewer) IsAnonymous() bool {
	return v.UserID == uuid.Nil
}

// CanModify reports whether the viewer may delete content written by authorID.
func (v Viewer) CanModify(authorID uuid.UUID) bool {
	if v.IsAnonymous() {
		return false
	}
	return v.IsAdmin || v.UserID == authorID
}

// From returns the viewer stored on the fiber context, or Anonymous.
func From(c *fiber.Ctx) Viewer {
	if v, ok := c.Locals(localsKey).(Viewer); ok {
		return v
	}
	return Anonymous
}

func Store(c *fiber.Ctx, v Viewer) {
	c.Locals(localsKey, v)
}

// SubjectFromToken extracts the user UUID from the JWT placed in locals by
// the auth middleware.
func SubjectFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, errors.New("invalid token in context")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}
	if sub == "" {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}
