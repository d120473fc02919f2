// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	userstore "github.com/cardroomhq/stakehub/internal/app/store/users"
	"github.com/cardroomhq/stakehub/internal/app/system/auth"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/ratelimit"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Users      *userstore.Store
	Limits     *ratelimit.LoginLimiter
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		Users:      userstore.New(db),
		Limits:     ratelimit.NewLoginLimiter(),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates by email and password and starts a session.
// Pending accounts must verify first; blocked accounts get the distinct
// blocked error even with the right password.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httpjson.BadRequest(w, "email and password are required")
		return
	}

	if ok, msg := h.Limits.Check(r, req.Email); !ok {
		httpjson.TooManyRequests(w, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err == mongo.ErrNoDocuments {
		httpjson.Unauthenticated(w)
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "login lookup failed", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httpjson.Unauthenticated(w)
		return
	}

	switch user.Status {
	case models.UserStatusBlocked:
		httpjson.AccountBlocked(w)
		return
	case models.UserStatusPending:
		httpjson.Forbidden(w, "verify your email before signing in")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, user.ID.Hex()); err != nil {
		httpjson.Internal(w, h.Log, "start session failed", err)
		return
	}
	h.Limits.ResetEmail(req.Email)

	h.Log.Info("user signed in", zap.String("user_id", user.ID.Hex()))
	httpjson.Write(w, http.StatusOK, map[string]any{
		"id":        user.ID.Hex(),
		"full_name": user.FullName,
		"email":     user.Email,
		"role":      user.Role,
	})
}

// HandleMe returns the signed-in user's identity.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Unauthenticated(w)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"id":        u.ID,
		"full_name": u.Name,
		"email":     u.Email,
		"role":      u.Role,
	})
}
