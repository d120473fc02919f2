// internal/app/features/register/register.go
package register

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/sanitize"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userstore "github.com/cardroomhq/stakehub/internal/app/store/users"
	"github.com/cardroomhq/stakehub/internal/app/system/mailer"
)

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a pending account and mails a verification link.
// The account stays role "user" until the link is consumed.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}

	req.FullName = sanitize.Text(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if req.FullName == "" {
		httpjson.BadRequest(w, "full_name is required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		httpjson.BadRequest(w, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		httpjson.BadRequest(w, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpjson.Internal(w, h.Log, "bcrypt hash failed", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		AuthMethod:   "password",
	})
	if err == userstore.ErrDuplicateEmail {
		httpjson.Conflict(w, err.Error())
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "create user failed", err)
		return
	}

	if err := h.sendVerification(ctx, user.ID, user.FullName, user.Email); err != nil {
		// The account exists; the user can request a resend.
		h.Log.Warn("send verification failed", zap.Error(err), zap.String("email", user.Email))
	}

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"id":     user.ID.Hex(),
		"email":  user.Email,
		"status": user.Status,
	})
}

// HandleResend reissues the verification link for a pending account. To
// avoid leaking which emails exist, the response is the same whether or
// not the address matched.
func (h *Handler) HandleResend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err == nil && user.Status == models.UserStatusPending {
		if err := h.sendVerification(ctx, user.ID, user.FullName, user.Email); err != nil {
			h.Log.Warn("resend verification failed", zap.Error(err))
		}
	}

	httpjson.Write(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *Handler) sendVerification(ctx context.Context, userID primitive.ObjectID, name, email string) error {
	v, err := h.Verify.Create(ctx, userID, h.VerifyExpiry)
	if err != nil {
		return err
	}

	msg := mailer.BuildVerificationEmail(mailer.VerificationEmailData{
		SiteName:  h.SiteName,
		Name:      name,
		VerifyURL: fmt.Sprintf("%s/register/verify?token=%s", h.BaseURL, v.Token),
		ExpiresIn: formatExpiry(h.VerifyExpiry),
	})
	msg.To = email
	return h.Mail.Send(msg)
}

// formatExpiry formats a duration as a human-readable string for the
// verification mail, e.g. "30 minutes" or "24 hours".
func formatExpiry(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := minutes / 60
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
