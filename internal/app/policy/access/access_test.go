package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cardroomhq/stakehub/internal/app/policy/access"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore backs all three lookup interfaces with in-memory maps so the
// resolver can be exercised without a database.
type fakeStore struct {
	groups      map[primitive.ObjectID]access.GroupInfo
	memberships map[[2]primitive.ObjectID]models.GroupRole // [group, user] -> role
	tables      map[primitive.ObjectID]access.TableInfo

	failGroups      error
	failMemberships error
	failTables      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		groups:      map[primitive.ObjectID]access.GroupInfo{},
		memberships: map[[2]primitive.ObjectID]models.GroupRole{},
		tables:      map[primitive.ObjectID]access.TableInfo{},
	}
}

func (f *fakeStore) GroupInfo(_ context.Context, id primitive.ObjectID) (access.GroupInfo, error) {
	if f.failGroups != nil {
		return access.GroupInfo{}, f.failGroups
	}
	g, ok := f.groups[id]
	if !ok {
		return access.GroupInfo{}, access.ErrNotFound
	}
	return g, nil
}

func (f *fakeStore) MembershipRole(_ context.Context, groupID, userID primitive.ObjectID) (models.GroupRole, bool, error) {
	if f.failMemberships != nil {
		return "", false, f.failMemberships
	}
	role, ok := f.memberships[[2]primitive.ObjectID{groupID, userID}]
	return role, ok, nil
}

func (f *fakeStore) TableInfo(_ context.Context, id primitive.ObjectID) (access.TableInfo, error) {
	if f.failTables != nil {
		return access.TableInfo{}, f.failTables
	}
	t, ok := f.tables[id]
	if !ok {
		return access.TableInfo{}, access.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) addGroup(owner primitive.ObjectID) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.groups[id] = access.GroupInfo{ID: id, OwnerID: owner, Active: true}
	return id
}

func (f *fakeStore) addMembership(groupID, userID primitive.ObjectID, role models.GroupRole) {
	f.memberships[[2]primitive.ObjectID{groupID, userID}] = role
}

func (f *fakeStore) addTable(creator primitive.ObjectID, groupID *primitive.ObjectID, active bool) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.tables[id] = access.TableInfo{ID: id, CreatorID: creator, GroupID: groupID, Active: active}
	return id
}

func newResolver(f *fakeStore) *access.Resolver {
	return access.NewResolver(f, f, f)
}

func mustAllow(t *testing.T, v access.Verdict, err error, want access.EffectiveRole) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if !v.Allowed {
		t.Fatalf("expected allow, got deny (%v: %q)", v.Reason, v.Reason.Message())
	}
	if v.EffectiveRole != want {
		t.Errorf("effective role: got %q, want %q", v.EffectiveRole, want)
	}
}

func mustDeny(t *testing.T, v access.Verdict, err error, want access.DenyReason) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if v.Allowed {
		t.Fatalf("expected deny (%v), got allow as %q", want, v.EffectiveRole)
	}
	if v.Reason != want {
		t.Errorf("deny reason: got %v (%q), want %v (%q)", v.Reason, v.Reason.Message(), want, want.Message())
	}
}

func TestResolveGroupAccess_AdminAlwaysAllowed(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	admin := primitive.NewObjectID()

	// Even a group that does not exist: admin short-circuits before any
	// lookup.
	v, err := r.ResolveGroupAccess(context.Background(), admin, models.GlobalRoleAdmin, primitive.NewObjectID(), models.GroupRoleOwner)
	mustAllow(t, v, err, access.EffectiveAdmin)
}

func TestResolveGroupAccess_MissingGroup_NotFound(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)

	v, err := r.ResolveGroupAccess(context.Background(), primitive.NewObjectID(), models.GlobalRoleEditor, primitive.NewObjectID(), models.GroupRoleViewer)
	mustDeny(t, v, err, access.DenyNotFound)
}

func TestResolveGroupAccess_OwnerAllowed(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	owner := primitive.NewObjectID()
	gid := f.addGroup(owner)

	v, err := r.ResolveGroupAccess(context.Background(), owner, models.GlobalRoleEditor, gid, models.GroupRoleOwner)
	mustAllow(t, v, err, access.EffectiveOwner)
}

func TestResolveGroupAccess_NoRelation_Denied(t *testing.T) {
	// Scenario: group G1 owned by U1; U2 has no membership row.
	f := newFakeStore()
	r := newResolver(f)
	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()
	g1 := f.addGroup(u1)

	v, err := r.ResolveGroupAccess(context.Background(), u2, models.GlobalRoleUser, g1, models.GroupRoleViewer)
	mustDeny(t, v, err, access.DenyNoRelation)
}

func TestResolveGroupAccess_ViewerNeverMeetsEditorRequirement(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	owner := primitive.NewObjectID()
	viewer := primitive.NewObjectID()
	gid := f.addGroup(owner)
	f.addMembership(gid, viewer, models.GroupRoleViewer)

	for _, required := range []models.GroupRole{models.GroupRoleEditor, models.GroupRoleOwner} {
		v, err := r.ResolveGroupAccess(context.Background(), viewer, models.GlobalRoleEditor, gid, required)
		mustDeny(t, v, err, access.DenyInsufficientRole)
	}
}

func TestResolveGroupAccess_EditorMembershipMeetsEditor(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	owner := primitive.NewObjectID()
	editor := primitive.NewObjectID()
	gid := f.addGroup(owner)
	f.addMembership(gid, editor, models.GroupRoleEditor)

	v, err := r.ResolveGroupAccess(context.Background(), editor, models.GlobalRoleEditor, gid, models.GroupRoleEditor)
	mustAllow(t, v, err, access.EffectiveEditor)
}

func TestResolveGroupAccess_GlobalUserCappedAtViewer(t *testing.T) {
	// A global "user" whose stored membership role is editor is still
	// capped at viewer-level requirements; the stored role is not
	// trusted unless the global role is editor.
	f := newFakeStore()
	r := newResolver(f)
	owner := primitive.NewObjectID()
	u := primitive.NewObjectID()
	gid := f.addGroup(owner)
	f.addMembership(gid, u, models.GroupRoleEditor)

	v, err := r.ResolveGroupAccess(context.Background(), u, models.GlobalRoleUser, gid, models.GroupRoleEditor)
	mustDeny(t, v, err, access.DenyInsufficientRole)

	// Viewer-level requirements still pass.
	v, err = r.ResolveGroupAccess(context.Background(), u, models.GlobalRoleUser, gid, models.GroupRoleViewer)
	mustAllow(t, v, err, access.EffectiveEditor)
}

func TestResolveGroupAccess_LookupErrorIsNotADenial(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	boom := errors.New("connection reset")
	f.failGroups = boom

	_, err := r.ResolveGroupAccess(context.Background(), primitive.NewObjectID(), models.GlobalRoleEditor, primitive.NewObjectID(), models.GroupRoleViewer)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
}

func TestResolveGroupAccess_MembershipLookupError(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	owner := primitive.NewObjectID()
	gid := f.addGroup(owner)
	boom := errors.New("timeout")
	f.failMemberships = boom

	_, err := r.ResolveGroupAccess(context.Background(), primitive.NewObjectID(), models.GlobalRoleEditor, gid, models.GroupRoleViewer)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
}

func TestResolveTableAction_AdminAlwaysAllowed(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	admin := primitive.NewObjectID()
	// Table does not even exist.
	v, err := r.ResolveTableAction(context.Background(), admin, models.GlobalRoleAdmin, primitive.NewObjectID(), access.ActionDelete)
	mustAllow(t, v, err, access.EffectiveAdmin)
}

func TestResolveTableAction_MissingTable_NotFound(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)

	v, err := r.ResolveTableAction(context.Background(), primitive.NewObjectID(), models.GlobalRoleEditor, primitive.NewObjectID(), access.ActionView)
	mustDeny(t, v, err, access.DenyNotFound)
}

func TestResolveTableAction_Ungrouped_ActiveTable_AnyEditorMayEdit(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	creator := primitive.NewObjectID()
	other := primitive.NewObjectID()
	tid := f.addTable(creator, nil, true)

	v, err := r.ResolveTableAction(context.Background(), other, models.GlobalRoleEditor, tid, access.ActionEdit)
	mustAllow(t, v, err, access.EffectiveEditor)
}

func TestResolveTableAction_Ungrouped_InactiveTable_CreatorGate(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	creator := primitive.NewObjectID()
	other := primitive.NewObjectID()
	tid := f.addTable(creator, nil, false)

	for _, action := range []access.Action{access.ActionEdit, access.ActionDelete, access.ActionChangeStatus} {
		v, err := r.ResolveTableAction(context.Background(), other, models.GlobalRoleEditor, tid, action)
		mustDeny(t, v, err, access.DenyNotCreator)

		v, err = r.ResolveTableAction(context.Background(), creator, models.GlobalRoleEditor, tid, action)
		mustAllow(t, v, err, access.EffectiveEditor)
	}
}

func TestResolveTableAction_Ungrouped_DeleteIsCreatorOnlyEvenWhenActive(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	creator := primitive.NewObjectID()
	other := primitive.NewObjectID()
	tid := f.addTable(creator, nil, true)

	v, err := r.ResolveTableAction(context.Background(), other, models.GlobalRoleEditor, tid, access.ActionDelete)
	mustDeny(t, v, err, access.DenyNotCreator)
}

func TestResolveTableAction_Ungrouped_GlobalUserViewOnly(t *testing.T) {
	// Scenario: ungrouped table created by U3 who has global role "user".
	// Even the creator gets no mutating access.
	f := newFakeStore()
	r := newResolver(f)
	u3 := primitive.NewObjectID()
	tid := f.addTable(u3, nil, true)

	v, err := r.ResolveTableAction(context.Background(), u3, models.GlobalRoleUser, tid, access.ActionDelete)
	mustDeny(t, v, err, access.DenyViewOnly)

	v, err = r.ResolveTableAction(context.Background(), u3, models.GlobalRoleUser, tid, access.ActionView)
	mustAllow(t, v, err, access.EffectiveNone)
}

func TestResolveTableAction_Grouped_NoGroupAccess(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	gid := f.addGroup(owner)
	tid := f.addTable(owner, &gid, true)

	v, err := r.ResolveTableAction(context.Background(), stranger, models.GlobalRoleEditor, tid, access.ActionView)
	mustDeny(t, v, err, access.DenyNoGroupAccess)
}

func TestResolveTableAction_Grouped_VanishedGroupDeniesAccess(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	creator := primitive.NewObjectID()
	ghost := primitive.NewObjectID() // never added to f.groups
	tid := f.addTable(creator, &ghost, true)

	v, err := r.ResolveTableAction(context.Background(), creator, models.GlobalRoleEditor, tid, access.ActionView)
	mustDeny(t, v, err, access.DenyNoGroupAccess)
}

func TestResolveTableAction_Grouped_EditorEditsActiveTable(t *testing.T) {
	// Scenario: U2 is an editor member of G1; T1 in G1 created by U1,
	// still active. Any editor may edit an active table.
	f := newFakeStore()
	r := newResolver(f)
	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()
	g1 := f.addGroup(u1)
	f.addMembership(g1, u2, models.GroupRoleEditor)
	t1 := f.addTable(u1, &g1, true)

	v, err := r.ResolveTableAction(context.Background(), u2, models.GlobalRoleEditor, t1, access.ActionEdit)
	mustAllow(t, v, err, access.EffectiveEditor)
}

func TestResolveTableAction_Grouped_InactiveTable_NonCreatorEditorDenied(t *testing.T) {
	// Scenario: same T1 now finished. Only its creator may edit.
	f := newFakeStore()
	r := newResolver(f)
	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()
	g1 := f.addGroup(u1)
	f.addMembership(g1, u2, models.GroupRoleEditor)
	t1 := f.addTable(u1, &g1, false)

	v, err := r.ResolveTableAction(context.Background(), u2, models.GlobalRoleEditor, t1, access.ActionEdit)
	mustDeny(t, v, err, access.DenyNotCreator)
}

func TestResolveTableAction_Grouped_OwnerBypassesCreatorGate(t *testing.T) {
	// Scenario: the group owner edits a finished table they did not
	// create. Owners are never subject to the creator gate.
	f := newFakeStore()
	r := newResolver(f)
	owner := primitive.NewObjectID()
	creator := primitive.NewObjectID()
	gid := f.addGroup(owner)
	f.addMembership(gid, creator, models.GroupRoleEditor)
	tid := f.addTable(creator, &gid, false)

	v, err := r.ResolveTableAction(context.Background(), owner, models.GlobalRoleEditor, tid, access.ActionEdit)
	mustAllow(t, v, err, access.EffectiveOwner)

	v, err = r.ResolveTableAction(context.Background(), owner, models.GlobalRoleEditor, tid, access.ActionDelete)
	mustAllow(t, v, err, access.EffectiveOwner)
}

func TestResolveTableAction_Grouped_ViewerDeniedEverythingButView(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	owner := primitive.NewObjectID()
	viewer := primitive.NewObjectID()
	gid := f.addGroup(owner)
	f.addMembership(gid, viewer, models.GroupRoleViewer)
	tid := f.addTable(owner, &gid, true)

	v, err := r.ResolveTableAction(context.Background(), viewer, models.GlobalRoleEditor, tid, access.ActionView)
	mustAllow(t, v, err, access.EffectiveViewer)

	mutating := []access.Action{
		access.ActionEdit, access.ActionDelete, access.ActionAddPlayer,
		access.ActionRemovePlayer, access.ActionChangeStatus,
		access.ActionRecordBuyIn, access.ActionRecordCashOut,
	}
	for _, action := range mutating {
		v, err := r.ResolveTableAction(context.Background(), viewer, models.GlobalRoleEditor, tid, action)
		mustDeny(t, v, err, access.DenyMembersViewOnly)
	}
}

func TestResolveTableAction_Grouped_GlobalUserCeilingAppliesToTableActions(t *testing.T) {
	// A global "user" with a stored editor membership is treated as a
	// viewer for table actions: the global role is a ceiling.
	f := newFakeStore()
	r := newResolver(f)
	owner := primitive.NewObjectID()
	u := primitive.NewObjectID()
	gid := f.addGroup(owner)
	f.addMembership(gid, u, models.GroupRoleEditor)
	tid := f.addTable(owner, &gid, true)

	v, err := r.ResolveTableAction(context.Background(), u, models.GlobalRoleUser, tid, access.ActionRecordBuyIn)
	mustDeny(t, v, err, access.DenyMembersViewOnly)

	v, err = r.ResolveTableAction(context.Background(), u, models.GlobalRoleUser, tid, access.ActionView)
	mustAllow(t, v, err, access.EffectiveViewer)
}

func TestResolveTableAction_Grouped_GroupOwnerWithGlobalUserRoleIsNotCapped(t *testing.T) {
	// The ceiling applies to membership-derived roles only; ownership is
	// resolved before the gate and stays fully privileged.
	f := newFakeStore()
	r := newResolver(f)
	owner := primitive.NewObjectID()
	gid := f.addGroup(owner)
	tid := f.addTable(primitive.NewObjectID(), &gid, false)

	v, err := r.ResolveTableAction(context.Background(), owner, models.GlobalRoleUser, tid, access.ActionEdit)
	mustAllow(t, v, err, access.EffectiveOwner)
}

func TestResolveTableAction_TableLookupError(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	boom := errors.New("socket closed")
	f.failTables = boom

	_, err := r.ResolveTableAction(context.Background(), primitive.NewObjectID(), models.GlobalRoleEditor, primitive.NewObjectID(), access.ActionView)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
}

func TestResolveTableAction_GroupLookupErrorPropagatesFromGroupResolution(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	creator := primitive.NewObjectID()
	gid := primitive.NewObjectID()
	tid := f.addTable(creator, &gid, true)
	boom := errors.New("primary stepped down")
	f.failGroups = boom

	_, err := r.ResolveTableAction(context.Background(), creator, models.GlobalRoleEditor, tid, access.ActionView)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
}

func TestResolve_IdempotentForIdenticalInputs(t *testing.T) {
	f := newFakeStore()
	r := newResolver(f)
	owner := primitive.NewObjectID()
	member := primitive.NewObjectID()
	gid := f.addGroup(owner)
	f.addMembership(gid, member, models.GroupRoleViewer)
	tid := f.addTable(owner, &gid, true)

	first, err1 := r.ResolveTableAction(context.Background(), member, models.GlobalRoleEditor, tid, access.ActionRecordBuyIn)
	second, err2 := r.ResolveTableAction(context.Background(), member, models.GlobalRoleEditor, tid, access.ActionRecordBuyIn)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if first != second {
		t.Errorf("verdicts differ for identical inputs: %+v vs %+v", first, second)
	}
}

func TestActionMutating(t *testing.T) {
	if access.ActionView.Mutating() {
		t.Error("view must not be mutating")
	}
	for _, a := range []access.Action{
		access.ActionEdit, access.ActionDelete, access.ActionAddPlayer,
		access.ActionRemovePlayer, access.ActionChangeStatus,
		access.ActionRecordBuyIn, access.ActionRecordCashOut,
	} {
		if !a.Mutating() {
			t.Errorf("%s must be mutating", a)
		}
	}
}
