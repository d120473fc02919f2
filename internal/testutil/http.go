package testutil

import (
	"net/http"
	"net/http/httptest"

	"github.com/cardroomhq/stakehub/internal/app/system/auth"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID      string
	Name    string
	Email   string
	Role    string
	Blocked bool
}

// AdminUser returns a TestUser with the admin global role.
func AdminUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Admin",
		Email: "admin@test.com",
		Role:  string(models.GlobalRoleAdmin),
	}
}

// EditorUser returns a TestUser with the editor global role.
func EditorUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Editor",
		Email: "editor@test.com",
		Role:  string(models.GlobalRoleEditor),
	}
}

// PlainUser returns a TestUser with the basic user global role.
func PlainUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test User",
		Email: "user@test.com",
		Role:  string(models.GlobalRoleUser),
	}
}

// ForUser returns a TestUser wrapping an existing fixture user so requests
// carry its real ObjectID.
func ForUser(u models.User) TestUser {
	return TestUser{
		ID:      u.ID.Hex(),
		Name:    u.FullName,
		Email:   u.Email,
		Role:    string(u.Role),
		Blocked: u.Blocked(),
	}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the session middleware and injects the user
// directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Role:    user.Role,
		Blocked: user.Blocked,
	})
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}
