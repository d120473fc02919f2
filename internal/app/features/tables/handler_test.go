package tables_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cardroomhq/stakehub/internal/app/features/tables"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"github.com/cardroomhq/stakehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*tables.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return tables.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func tableRequest(method, path, body string, u models.User, tid primitive.ObjectID) *http.Request {
	var req *http.Request
	if body == "" {
		req = testutil.NewAuthenticatedRequest(method, path, testutil.ForUser(u))
	} else {
		req = testutil.WithUser(
			httptest.NewRequest(method, path, strings.NewReader(body)),
			testutil.ForUser(u))
	}
	return testutil.WithChiURLParam(req, "id", tid.Hex())
}

func TestHandleView_GroupViewerAllowed(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	owner := f.CreateUser(ctx, "Owner", "owner@test.com", models.GlobalRoleUser)
	viewer := f.CreateUser(ctx, "Viewer", "viewer@test.com", models.GlobalRoleUser)
	group := f.CreateGroup(ctx, "Friday Game", owner.ID)
	f.CreateMembership(ctx, group.ID, viewer.ID, models.GroupRoleViewer)
	table := f.CreateTable(ctx, "Main Table", owner.ID, &group.ID, models.TableStatusActive)
	p := f.CreatePlayer(ctx, table.ID, nil, "Guest Gary")
	f.CreateTransaction(ctx, table.ID, p.ID, models.TransactionBuyIn, 5000, owner.ID)

	rec := httptest.NewRecorder()
	h.HandleView(rec, tableRequest("GET", "/tables/"+table.ID.Hex(), "", viewer, table.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		EffectiveRole string               `json:"effective_role"`
		Players       []models.Player      `json:"players"`
		Transactions  []models.Transaction `json:"transactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.EffectiveRole != "viewer" {
		t.Errorf("effective_role = %q, want viewer", body.EffectiveRole)
	}
	if len(body.Players) != 1 || len(body.Transactions) != 1 {
		t.Errorf("got %d players / %d transactions, want 1 / 1", len(body.Players), len(body.Transactions))
	}
}

func TestHandleEdit_GroupEditorOnActiveTable(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	owner := f.CreateUser(ctx, "Owner", "owner@test.com", models.GlobalRoleUser)
	editor := f.CreateUser(ctx, "Editor", "editor@test.com", models.GlobalRoleEditor)
	group := f.CreateGroup(ctx, "Friday Game", owner.ID)
	f.CreateMembership(ctx, group.ID, editor.ID, models.GroupRoleEditor)
	table := f.CreateTable(ctx, "Main Table", owner.ID, &group.ID, models.TableStatusActive)

	rec := httptest.NewRecorder()
	h.HandleEdit(rec, tableRequest("PATCH", "/tables/"+table.ID.Hex(),
		`{"name":"Feature Table","stakes":"2/5"}`, editor, table.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated models.Table
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Name != "Feature Table" || updated.Stakes != "2/5" {
		t.Errorf("got %q/%q, want renamed table with new stakes", updated.Name, updated.Stakes)
	}
}

func TestHandleEdit_FinishedTableCreatorOnly(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	owner := f.CreateUser(ctx, "Owner", "owner@test.com", models.GlobalRoleUser)
	creator := f.CreateUser(ctx, "Creator", "creator@test.com", models.GlobalRoleEditor)
	other := f.CreateUser(ctx, "Other", "other@test.com", models.GlobalRoleEditor)
	group := f.CreateGroup(ctx, "Friday Game", owner.ID)
	f.CreateMembership(ctx, group.ID, creator.ID, models.GroupRoleEditor)
	f.CreateMembership(ctx, group.ID, other.ID, models.GroupRoleEditor)
	table := f.CreateTable(ctx, "Done Table", creator.ID, &group.ID, models.TableStatusFinished)

	rec := httptest.NewRecorder()
	h.HandleEdit(rec, tableRequest("PATCH", "/tables/"+table.ID.Hex(),
		`{"name":"Hijacked"}`, other, table.ID))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-creator status = %d, want 403 on finished table", rec.Code)
	}

	rec2 := httptest.NewRecorder()
	h.HandleEdit(rec2, tableRequest("PATCH", "/tables/"+table.ID.Hex(),
		`{"name":"Corrected"}`, creator, table.ID))
	if rec2.Code != http.StatusOK {
		t.Fatalf("creator status = %d: %s", rec2.Code, rec2.Body.String())
	}
}

func TestHandleEdit_OwnerBypassesCreatorGate(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	owner := f.CreateUser(ctx, "Owner", "owner@test.com", models.GlobalRoleUser)
	creator := f.CreateUser(ctx, "Creator", "creator@test.com", models.GlobalRoleEditor)
	group := f.CreateGroup(ctx, "Friday Game", owner.ID)
	f.CreateMembership(ctx, group.ID, creator.ID, models.GroupRoleEditor)
	table := f.CreateTable(ctx, "Done Table", creator.ID, &group.ID, models.TableStatusFinished)

	rec := httptest.NewRecorder()
	h.HandleEdit(rec, tableRequest("PATCH", "/tables/"+table.ID.Hex(),
		`{"name":"Owner Edit"}`, owner, table.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleStatus_ReopenCreatorGated(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	owner := f.CreateUser(ctx, "Owner", "owner@test.com", models.GlobalRoleUser)
	creator := f.CreateUser(ctx, "Creator", "creator@test.com", models.GlobalRoleEditor)
	other := f.CreateUser(ctx, "Other", "other@test.com", models.GlobalRoleEditor)
	group := f.CreateGroup(ctx, "Friday Game", owner.ID)
	f.CreateMembership(ctx, group.ID, creator.ID, models.GroupRoleEditor)
	f.CreateMembership(ctx, group.ID, other.ID, models.GroupRoleEditor)
	table := f.CreateTable(ctx, "Done Table", creator.ID, &group.ID, models.TableStatusFinished)

	rec := httptest.NewRecorder()
	h.HandleStatus(rec, tableRequest("POST", "/tables/"+table.ID.Hex()+"/status",
		`{"status":"active"}`, other, table.ID))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-creator reopen status = %d, want 403", rec.Code)
	}

	rec2 := httptest.NewRecorder()
	h.HandleStatus(rec2, tableRequest("POST", "/tables/"+table.ID.Hex()+"/status",
		`{"status":"active"}`, creator, table.ID))
	if rec2.Code != http.StatusOK {
		t.Fatalf("creator reopen status = %d: %s", rec2.Code, rec2.Body.String())
	}
	var reopened models.Table
	if err := json.Unmarshal(rec2.Body.Bytes(), &reopened); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reopened.Status != models.TableStatusActive || reopened.EndedAt != nil {
		t.Errorf("got status %q ended_at %v, want active with ended_at cleared", reopened.Status, reopened.EndedAt)
	}
}

func TestHandleDelete_AlwaysCreatorGated(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	owner := f.CreateUser(ctx, "Owner", "owner@test.com", models.GlobalRoleUser)
	creator := f.CreateUser(ctx, "Creator", "creator@test.com", models.GlobalRoleEditor)
	other := f.CreateUser(ctx, "Other", "other@test.com", models.GlobalRoleEditor)
	group := f.CreateGroup(ctx, "Friday Game", owner.ID)
	f.CreateMembership(ctx, group.ID, creator.ID, models.GroupRoleEditor)
	f.CreateMembership(ctx, group.ID, other.ID, models.GroupRoleEditor)
	table := f.CreateTable(ctx, "Main Table", creator.ID, &group.ID, models.TableStatusActive)
	p := f.CreatePlayer(ctx, table.ID, nil, "Guest Gary")
	f.CreateTransaction(ctx, table.ID, p.ID, models.TransactionBuyIn, 10000, creator.ID)

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, tableRequest("DELETE", "/tables/"+table.ID.Hex(), "", other, table.ID))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-creator delete status = %d, want 403 even on active table", rec.Code)
	}

	rec2 := httptest.NewRecorder()
	h.HandleDelete(rec2, tableRequest("DELETE", "/tables/"+table.ID.Hex(), "", creator, table.ID))
	if rec2.Code != http.StatusOK {
		t.Fatalf("creator delete status = %d: %s", rec2.Code, rec2.Body.String())
	}

	for _, coll := range []string{"tables", "players", "transactions"} {
		filter := bson.M{"table_id": table.ID}
		if coll == "tables" {
			filter = bson.M{"_id": table.ID}
		}
		n, err := f.DB().Collection(coll).CountDocuments(ctx, filter)
		if err != nil {
			t.Fatalf("count %s: %v", coll, err)
		}
		if n != 0 {
			t.Errorf("%s rows left = %d, want 0", coll, n)
		}
	}
}

func TestHandleBuyIn_ViewerDenied(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	owner := f.CreateUser(ctx, "Owner", "owner@test.com", models.GlobalRoleUser)
	viewer := f.CreateUser(ctx, "Viewer", "viewer@test.com", models.GlobalRoleEditor)
	group := f.CreateGroup(ctx, "Friday Game", owner.ID)
	f.CreateMembership(ctx, group.ID, viewer.ID, models.GroupRoleViewer)
	table := f.CreateTable(ctx, "Main Table", owner.ID, &group.ID, models.TableStatusActive)
	p := f.CreatePlayer(ctx, table.ID, nil, "Guest Gary")

	body := `{"player_id":"` + p.ID.Hex() + `","amount_cents":5000}`
	rec := httptest.NewRecorder()
	h.HandleBuyIn(rec, tableRequest("POST", "/tables/"+table.ID.Hex()+"/buyins", body, viewer, table.ID))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for viewer recording buy-in", rec.Code)
	}
}

func TestHandleBuyIn_RecordsLedgerRow(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	owner := f.CreateUser(ctx, "Owner", "owner@test.com", models.GlobalRoleUser)
	editor := f.CreateUser(ctx, "Editor", "editor@test.com", models.GlobalRoleEditor)
	group := f.CreateGroup(ctx, "Friday Game", owner.ID)
	f.CreateMembership(ctx, group.ID, editor.ID, models.GroupRoleEditor)
	table := f.CreateTable(ctx, "Main Table", owner.ID, &group.ID, models.TableStatusActive)
	p := f.CreatePlayer(ctx, table.ID, nil, "Guest Gary")

	body := `{"player_id":"` + p.ID.Hex() + `","amount_cents":5000,"note":"rebuy"}`
	rec := httptest.NewRecorder()
	h.HandleBuyIn(rec, tableRequest("POST", "/tables/"+table.ID.Hex()+"/buyins", body, editor, table.ID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var tx models.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &tx); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tx.Kind != models.TransactionBuyIn || tx.AmountCents != 5000 {
		t.Errorf("got %q/%d, want buyin of 5000 cents", tx.Kind, tx.AmountCents)
	}
	if tx.RecordedBy != editor.ID {
		t.Errorf("recorded_by = %s, want caller %s", tx.RecordedBy.Hex(), editor.ID.Hex())
	}
}

func TestHandleCashOut_PlayerFromOtherTable(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	editor := f.CreateUser(ctx, "Editor", "editor@test.com", models.GlobalRoleEditor)
	table := f.CreateTable(ctx, "Mine", editor.ID, nil, models.TableStatusActive)
	otherTable := f.CreateTable(ctx, "Other", editor.ID, nil, models.TableStatusActive)
	stray := f.CreatePlayer(ctx, otherTable.ID, nil, "Stray Seat")

	body := `{"player_id":"` + stray.ID.Hex() + `","amount_cents":2500}`
	rec := httptest.NewRecorder()
	h.HandleCashOut(rec, tableRequest("POST", "/tables/"+table.ID.Hex()+"/cashouts", body, editor, table.ID))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for seat at another table", rec.Code)
	}
}

func TestHandleBuyIn_RejectsNonPositiveAmount(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	editor := f.CreateUser(ctx, "Editor", "editor@test.com", models.GlobalRoleEditor)
	table := f.CreateTable(ctx, "Mine", editor.ID, nil, models.TableStatusActive)
	p := f.CreatePlayer(ctx, table.ID, nil, "Guest Gary")

	body := `{"player_id":"` + p.ID.Hex() + `","amount_cents":0}`
	rec := httptest.NewRecorder()
	h.HandleBuyIn(rec, tableRequest("POST", "/tables/"+table.ID.Hex()+"/buyins", body, editor, table.ID))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for zero amount", rec.Code)
	}
}

func TestHandleRemovePlayer_DropsLedgerRows(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	editor := f.CreateUser(ctx, "Editor", "editor@test.com", models.GlobalRoleEditor)
	table := f.CreateTable(ctx, "Mine", editor.ID, nil, models.TableStatusActive)
	p := f.CreatePlayer(ctx, table.ID, nil, "Guest Gary")
	keep := f.CreatePlayer(ctx, table.ID, nil, "Keep Kim")
	f.CreateTransaction(ctx, table.ID, p.ID, models.TransactionBuyIn, 5000, editor.ID)
	f.CreateTransaction(ctx, table.ID, keep.ID, models.TransactionBuyIn, 5000, editor.ID)

	req := tableRequest("DELETE", "/tables/"+table.ID.Hex()+"/players/"+p.ID.Hex(), "", editor, table.ID)
	req = testutil.WithChiURLParam(req, "playerID", p.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleRemovePlayer(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if n, _ := f.DB().Collection("transactions").CountDocuments(ctx, bson.M{"player_id": p.ID}); n != 0 {
		t.Errorf("removed player's transactions left = %d, want 0", n)
	}
	if n, _ := f.DB().Collection("transactions").CountDocuments(ctx, bson.M{"player_id": keep.ID}); n != 1 {
		t.Errorf("other player's transactions = %d, want 1 untouched", n)
	}
}

func TestHandleAddPlayer_GuestNeedsName(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	editor := f.CreateUser(ctx, "Editor", "editor@test.com", models.GlobalRoleEditor)
	table := f.CreateTable(ctx, "Mine", editor.ID, nil, models.TableStatusActive)

	rec := httptest.NewRecorder()
	h.HandleAddPlayer(rec, tableRequest("POST", "/tables/"+table.ID.Hex()+"/players",
		`{"name":"  "}`, editor, table.ID))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for blank guest name", rec.Code)
	}
}

func TestHandleCreate_RequiresEditorRole(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	plain := f.CreateUser(ctx, "Dana", "dana@test.com", models.GlobalRoleUser)

	req := testutil.WithUser(
		httptest.NewRequest("POST", "/tables", strings.NewReader(`{"name":"My Table"}`)),
		testutil.ForUser(plain))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for global user", rec.Code)
	}
}

func TestHandleCreate_GroupedNeedsGroupEditor(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	owner := f.CreateUser(ctx, "Owner", "owner@test.com", models.GlobalRoleUser)
	viewer := f.CreateUser(ctx, "Viewer", "viewer@test.com", models.GlobalRoleEditor)
	group := f.CreateGroup(ctx, "Friday Game", owner.ID)
	f.CreateMembership(ctx, group.ID, viewer.ID, models.GroupRoleViewer)

	body := `{"name":"New Table","group_id":"` + group.ID.Hex() + `"}`
	req := testutil.WithUser(
		httptest.NewRequest("POST", "/tables", strings.NewReader(body)),
		testutil.ForUser(viewer))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for group viewer", rec.Code)
	}
}

func TestHandleCreate_UngroupedBelongsToCreator(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	editor := f.CreateUser(ctx, "Editor", "editor@test.com", models.GlobalRoleEditor)

	req := testutil.WithUser(
		httptest.NewRequest("POST", "/tables", strings.NewReader(`{"name":"Solo Table","stakes":"1/2"}`)),
		testutil.ForUser(editor))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var table models.Table
	if err := json.Unmarshal(rec.Body.Bytes(), &table); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if table.CreatorID != editor.ID || table.GroupID != nil {
		t.Errorf("got creator %s group %v, want ungrouped table owned by creator", table.CreatorID.Hex(), table.GroupID)
	}
}

func TestHandleView_GlobalUserViewOnlyOnUngrouped(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	editor := f.CreateUser(ctx, "Editor", "editor@test.com", models.GlobalRoleEditor)
	plain := f.CreateUser(ctx, "Dana", "dana@test.com", models.GlobalRoleUser)
	table := f.CreateTable(ctx, "Solo Table", editor.ID, nil, models.TableStatusActive)
	p := f.CreatePlayer(ctx, table.ID, nil, "Guest Gary")

	rec := httptest.NewRecorder()
	h.HandleView(rec, tableRequest("GET", "/tables/"+table.ID.Hex(), "", plain, table.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("view status = %d: %s", rec.Code, rec.Body.String())
	}

	body := `{"player_id":"` + p.ID.Hex() + `","amount_cents":5000}`
	rec2 := httptest.NewRecorder()
	h.HandleBuyIn(rec2, tableRequest("POST", "/tables/"+table.ID.Hex()+"/buyins", body, plain, table.ID))
	if rec2.Code != http.StatusForbidden {
		t.Fatalf("buy-in status = %d, want 403 for view-only global user", rec2.Code)
	}
}

func TestHandleList_UngroupedScopedToCreator(t *testing.T) {
	h, f := newTestHandler(t)
	ctx := context.Background()
	editor := f.CreateUser(ctx, "Editor", "editor@test.com", models.GlobalRoleEditor)
	other := f.CreateUser(ctx, "Other", "other@test.com", models.GlobalRoleEditor)
	mine := f.CreateTable(ctx, "Mine", editor.ID, nil, models.TableStatusActive)
	f.CreateTable(ctx, "Theirs", other.ID, nil, models.TableStatusActive)

	req := testutil.NewAuthenticatedRequest("GET", "/tables", testutil.ForUser(editor))
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Tables []models.Table `json:"tables"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Tables) != 1 || body.Tables[0].ID != mine.ID {
		t.Errorf("got %d tables, want just the caller's ungrouped one", len(body.Tables))
	}
}
