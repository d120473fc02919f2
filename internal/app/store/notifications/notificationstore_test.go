package notificationstore_test

import (
	"testing"

	notificationstore "github.com/cardroomhq/stakehub/internal/app/store/notifications"
	"github.com/cardroomhq/stakehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_AddAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	if err := store.Add(ctx, userID, "group_invite", "You were added to Friday Night Crew"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Add(ctx, otherID, "group_invite", "Not yours"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	rows, err := store.ListForUser(ctx, userID, false, 50)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(rows))
	}
	if rows[0].Kind != "group_invite" {
		t.Errorf("Kind: got %q", rows[0].Kind)
	}
	if rows[0].Read {
		t.Error("new notifications should start unread")
	}
}

func TestStore_ListForUser_UnreadOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	if err := store.Add(ctx, userID, "a", "first"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Add(ctx, userID, "b", "second"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	rows, err := store.ListForUser(ctx, userID, false, 50)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if err := store.MarkRead(ctx, rows[0].ID, userID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	unread, err := store.ListForUser(ctx, userID, true, 50)
	if err != nil {
		t.Fatalf("ListForUser unread failed: %v", err)
	}
	if len(unread) != 1 {
		t.Errorf("expected 1 unread, got %d", len(unread))
	}
}

func TestStore_MarkRead_WrongUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	if err := store.Add(ctx, userID, "a", "mine"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	rows, _ := store.ListForUser(ctx, userID, false, 50)

	err := store.MarkRead(ctx, rows[0].ID, primitive.NewObjectID())
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments for another user, got %v", err)
	}
}

func TestStore_MarkAllRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		if err := store.Add(ctx, userID, "k", "msg"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	n, err := store.MarkAllRead(ctx, userID)
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if n != 3 {
		t.Errorf("marked %d, want 3", n)
	}

	unread, _ := store.ListForUser(ctx, userID, true, 50)
	if len(unread) != 0 {
		t.Errorf("expected 0 unread, got %d", len(unread))
	}
}
