// Package access implements the permission-resolution core: the layered
// rules deciding whether a user may read or mutate a group, a table, or
// the records under them.
//
// The resolver is a pure decision procedure over three injected read-only
// lookups (group, membership, table). It performs no mutation and keeps no
// cross-request state, so every invocation is independently evaluable from
// freshly fetched data.
//
// Verdicts and storage failures are kept strictly apart: a denial is a
// Verdict with Allowed=false and a Reason; a failed lookup (I/O, timeout)
// is a non-nil error and must surface as a server-side error upstream,
// never as a denial.
//
// Authorization rules, in precedence order:
//   - A global admin is allowed everything, unconditionally. Every other
//     branch is skipped.
//   - The group owner is allowed everything within their group.
//   - Membership roles (editor/viewer) are ranked by the fixed hierarchy
//     owner(3) > editor(2) > viewer(1) > none(0).
//   - A global "user" role is a ceiling: their membership-derived
//     privileges are capped at viewer level even if the stored membership
//     role is editor. Only a global "editor" is trusted at their full
//     membership level.
//   - On an inactive (finished) table, edit, delete, and status changes
//     are restricted to the table's creator for everyone below group
//     owner.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/cardroomhq/stakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned by lookups when the target record does not
// exist. The resolver turns it into a DenyNotFound verdict; any other
// lookup error propagates unchanged.
var ErrNotFound = errors.New("access: not found")

// GroupInfo is the minimal group state the resolver needs.
type GroupInfo struct {
	ID      primitive.ObjectID
	OwnerID primitive.ObjectID
	Active  bool
}

// TableInfo is the minimal table state the resolver needs.
type TableInfo struct {
	ID        primitive.ObjectID
	CreatorID primitive.ObjectID
	GroupID   *primitive.ObjectID // nil for ungrouped tables
	Active    bool
}

// GroupLookup fetches group ownership state.
type GroupLookup interface {
	GroupInfo(ctx context.Context, groupID primitive.ObjectID) (GroupInfo, error)
}

// MembershipLookup fetches the stored membership role for a (group, user)
// pair. found=false means no relation; that is not an error.
type MembershipLookup interface {
	MembershipRole(ctx context.Context, groupID, userID primitive.ObjectID) (role models.GroupRole, found bool, err error)
}

// TableLookup fetches table context.
type TableLookup interface {
	TableInfo(ctx context.Context, tableID primitive.ObjectID) (TableInfo, error)
}

// Action is a table operation subject to permission checks.
type Action string

const (
	ActionView          Action = "view"
	ActionEdit          Action = "edit"
	ActionDelete        Action = "delete"
	ActionAddPlayer     Action = "add-player"
	ActionRemovePlayer  Action = "remove-player"
	ActionChangeStatus  Action = "change-status"
	ActionRecordBuyIn   Action = "record-buyin"
	ActionRecordCashOut Action = "record-cashout"
)

// Mutating reports whether the action changes table state. Everything but
// plain viewing mutates.
func (a Action) Mutating() bool { return a != ActionView }

// EffectiveRole is the resolver's computed, context-specific privilege for
// a user+group pair.
type EffectiveRole string

const (
	EffectiveAdmin  EffectiveRole = "admin"
	EffectiveOwner  EffectiveRole = "owner"
	EffectiveEditor EffectiveRole = "editor"
	EffectiveViewer EffectiveRole = "viewer"
	EffectiveNone   EffectiveRole = "none"
)

// DenyReason identifies why a verdict denied. The reasons are distinct
// because they drive different messages (and HTTP statuses) upstream.
type DenyReason int

const (
	DenyNone             DenyReason = iota // verdict allowed
	DenyNotFound                           // target group/table does not exist
	DenyNoRelation                         // caller has no relation to the group
	DenyInsufficientRole                   // membership role below the required role
	DenyNoGroupAccess                      // grouped table, group access denied
	DenyNotCreator                         // action reserved for the table's creator
	DenyMembersViewOnly                    // viewer members may only view
	DenyViewOnly                           // global "user" role has view-only access
)

// Message returns the human-readable denial reason surfaced to clients.
func (d DenyReason) Message() string {
	switch d {
	case DenyNotFound:
		return "not found"
	case DenyNoRelation:
		return "no relation to group"
	case DenyInsufficientRole:
		return "insufficient group role"
	case DenyNoGroupAccess:
		return "no access to this group"
	case DenyNotCreator:
		return "only the creator may do this on a finished table"
	case DenyMembersViewOnly:
		return "members can only view"
	case DenyViewOnly:
		return "view-only access"
	}
	return ""
}

// Verdict is the outcome of a resolution. When Allowed, EffectiveRole
// carries the privilege downstream handlers act under; when denied,
// Reason says why.
type Verdict struct {
	Allowed       bool
	EffectiveRole EffectiveRole
	Reason        DenyReason
}

func allow(role EffectiveRole) Verdict { return Verdict{Allowed: true, EffectiveRole: role} }

func deny(reason DenyReason) Verdict {
	return Verdict{EffectiveRole: EffectiveNone, Reason: reason}
}

// Resolver combines an identity with the injected lookups into allow/deny
// verdicts. It is safe for concurrent use.
type Resolver struct {
	groups      GroupLookup
	memberships MembershipLookup
	tables      TableLookup
}

// NewResolver builds a Resolver over the given lookups.
func NewResolver(groups GroupLookup, memberships MembershipLookup, tables TableLookup) *Resolver {
	return &Resolver{groups: groups, memberships: memberships, tables: tables}
}

// ResolveGroupAccess decides whether the caller may act on the group at
// the given required role, short-circuiting as soon as a sufficient
// condition is confirmed.
//
// Order matters:
//  1. global admin: allow, skip every lookup
//  2. missing group: deny not-found
//  3. owner: allow
//  4. no membership row: deny no-relation
//  5. membership role (capped at viewer for a global "user") compared
//     against the required role
func (r *Resolver) ResolveGroupAccess(ctx context.Context, userID primitive.ObjectID, globalRole models.GlobalRole, groupID primitive.ObjectID, required models.GroupRole) (Verdict, error) {
	if globalRole == models.GlobalRoleAdmin {
		return allow(EffectiveAdmin), nil
	}

	g, err := r.groups.GroupInfo(ctx, groupID)
	if errors.Is(err, ErrNotFound) {
		return deny(DenyNotFound), nil
	}
	if err != nil {
		return Verdict{}, fmt.Errorf("group lookup: %w", err)
	}

	if g.OwnerID == userID {
		return allow(EffectiveOwner), nil
	}

	role, found, err := r.memberships.MembershipRole(ctx, groupID, userID)
	if err != nil {
		return Verdict{}, fmt.Errorf("membership lookup: %w", err)
	}
	if !found {
		return deny(DenyNoRelation), nil
	}

	if !cappedRole(globalRole, role).Meets(required) {
		return deny(DenyInsufficientRole), nil
	}
	// The verdict carries the stored membership role; table resolution
	// re-applies the global ceiling before trusting it.
	return allow(effectiveFromMembership(role)), nil
}

// ResolveTableAction decides whether the caller may perform the action on
// the table.
func (r *Resolver) ResolveTableAction(ctx context.Context, userID primitive.ObjectID, globalRole models.GlobalRole, tableID primitive.ObjectID, action Action) (Verdict, error) {
	if globalRole == models.GlobalRoleAdmin {
		return allow(EffectiveAdmin), nil
	}

	t, err := r.tables.TableInfo(ctx, tableID)
	if errors.Is(err, ErrNotFound) {
		return deny(DenyNotFound), nil
	}
	if err != nil {
		return Verdict{}, fmt.Errorf("table lookup: %w", err)
	}

	if t.GroupID == nil {
		return r.resolveUngrouped(userID, globalRole, t, action), nil
	}

	gv, err := r.ResolveGroupAccess(ctx, userID, globalRole, *t.GroupID, models.GroupRoleViewer)
	if err != nil {
		return Verdict{}, err
	}
	if !gv.Allowed {
		// Covers both "no relation" and a group that vanished out from
		// under its table: the table exists, the caller just has no
		// usable way in.
		return deny(DenyNoGroupAccess), nil
	}

	eff := gv.EffectiveRole
	// Global-role ceiling: a membership-derived editor is only trusted at
	// editor level if the caller's global role is also editor. Owners are
	// never capped.
	if eff == EffectiveEditor && globalRole != models.GlobalRoleEditor {
		eff = EffectiveViewer
	}

	switch eff {
	case EffectiveOwner:
		return allow(EffectiveOwner), nil
	case EffectiveEditor:
		if v, denied := creatorGate(userID, t, action); denied {
			return v, nil
		}
		return allow(EffectiveEditor), nil
	default: // viewer
		if action == ActionView {
			return allow(EffectiveViewer), nil
		}
		return deny(DenyMembersViewOnly), nil
	}
}

// resolveUngrouped handles tables that belong to no group. Editors may
// work on them subject to the creator gate; plain users are view-only.
func (r *Resolver) resolveUngrouped(userID primitive.ObjectID, globalRole models.GlobalRole, t TableInfo, action Action) Verdict {
	if globalRole == models.GlobalRoleEditor {
		if v, denied := creatorGate(userID, t, action); denied {
			return v
		}
		return allow(EffectiveEditor)
	}
	// Global "user": never any mutating access, even to their own tables.
	if action == ActionView {
		return allow(EffectiveNone)
	}
	return deny(DenyViewOnly)
}

// creatorGate applies the single creator rule shared by edit, delete, and
// status changes:
//   - delete is always creator-only
//   - edit and change-status are creator-only once the table is finished;
//     while a table is active any editor may adjust it collaboratively
func creatorGate(userID primitive.ObjectID, t TableInfo, action Action) (Verdict, bool) {
	switch action {
	case ActionDelete:
		if t.CreatorID != userID {
			return deny(DenyNotCreator), true
		}
	case ActionEdit, ActionChangeStatus:
		if !t.Active && t.CreatorID != userID {
			return deny(DenyNotCreator), true
		}
	}
	return Verdict{}, false
}

// cappedRole applies the global-role ceiling to a stored membership role:
// only a global editor keeps elevated group privileges; everyone else is
// capped at viewer level.
func cappedRole(globalRole models.GlobalRole, stored models.GroupRole) models.GroupRole {
	if globalRole != models.GlobalRoleEditor && stored.Level() > models.GroupRoleViewer.Level() {
		return models.GroupRoleViewer
	}
	return stored
}

func effectiveFromMembership(role models.GroupRole) EffectiveRole {
	switch role {
	case models.GroupRoleEditor:
		return EffectiveEditor
	case models.GroupRoleViewer:
		return EffectiveViewer
	}
	return EffectiveNone
}
