// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"net/http"

	notificationstore "github.com/cardroomhq/stakehub/internal/app/store/notifications"
	"github.com/cardroomhq/stakehub/internal/app/system/authz"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/paging"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves a user's own notification feed. There is no cross-user
// access at all; every operation is scoped to the session user.
type Handler struct {
	Log   *zap.Logger
	Store *notificationstore.Store
}

// NewHandler constructs a notifications Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Store: notificationstore.New(db)}
}

// HandleList returns the caller's notifications, newest first. ?unread=1
// filters to unread rows; ?limit= caps the page.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthenticated(w)
		return
	}

	unreadOnly := query.Get(r, "unread") != ""
	limit := paging.ParseLimit(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rows, err := h.Store.ListForUser(ctx, uid, unreadOnly, limit)
	if err != nil {
		httpjson.Internal(w, h.Log, "list notifications failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"notifications": rows})
}

// HandleMarkRead marks one of the caller's notifications read.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthenticated(w)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "bad notification id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Store.MarkRead(ctx, id, uid)
	if err == mongo.ErrNoDocuments {
		httpjson.NotFound(w, "notification not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "mark notification read failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"read": true})
}

// HandleMarkAllRead marks the caller's whole feed read.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthenticated(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Store.MarkAllRead(ctx, uid)
	if err != nil {
		httpjson.Internal(w, h.Log, "mark all read failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"marked": n})
}
