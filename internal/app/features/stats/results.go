// internal/app/features/stats/results.go
package stats

import (
	"context"
	"net/http"

	"github.com/cardroomhq/stakehub/internal/app/policy/access"
	"github.com/cardroomhq/stakehub/internal/app/policy/grouppolicy"
	"github.com/cardroomhq/stakehub/internal/app/policy/tablepolicy"
	"github.com/cardroomhq/stakehub/internal/app/store/queries/tablestats"
	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/cardroomhq/stakehub/internal/app/system/timeouts"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleTableResults returns per-player buy-in/cash-out/net totals for one
// table. Anyone who may view the table may see its results.
func (h *Handler) HandleTableResults(w http.ResponseWriter, r *http.Request) {
	tid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "bad table id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := tablepolicy.ResolveAction(ctx, h.DB, r, tid, access.ActionView)
	if err != nil {
		httpjson.Internal(w, h.Log, "resolve table action failed", err)
		return
	}
	if !v.Allowed {
		httpjson.Denied(w, v)
		return
	}

	results, err := tablestats.TableResults(ctx, h.DB, tid)
	if err != nil {
		httpjson.Internal(w, h.Log, "table results query failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"results": results})
}

// HandleGroupLeaderboard returns running per-user totals across the
// group's finished tables, best net first.
func (h *Handler) HandleGroupLeaderboard(w http.ResponseWriter, r *http.Request) {
	gid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "bad group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := grouppolicy.Resolve(ctx, h.DB, r, gid, models.GroupRoleViewer)
	if err != nil {
		httpjson.Internal(w, h.Log, "resolve group access failed", err)
		return
	}
	if !v.Allowed {
		httpjson.Denied(w, v)
		return
	}

	entries, err := tablestats.GroupLeaderboard(ctx, h.DB, gid)
	if err != nil {
		httpjson.Internal(w, h.Log, "leaderboard query failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"leaderboard": entries})
}
