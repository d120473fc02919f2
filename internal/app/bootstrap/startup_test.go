package bootstrap

import (
	"testing"

	"github.com/cardroomhq/stakehub/internal/domain/models"
	"github.com/cardroomhq/stakehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}

	if err := ensureAdmin(ctx, deps, "admin@test.com", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"email": "admin@test.com"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}
	if user.Role != models.GlobalRoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}
	if user.Status != models.UserStatusActive {
		t.Errorf("status = %q, want active", user.Status)
	}
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	existing := f.CreateUser(ctx, "Existing User", "existing@test.com", models.GlobalRoleUser)

	deps := DBDeps{MongoDatabase: db}
	if err := ensureAdmin(ctx, deps, "existing@test.com", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user); err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if user.Role != models.GlobalRoleAdmin {
		t.Errorf("role = %q, want promoted to admin", user.Role)
	}
}

func TestEnsureAdmin_IdempotentForExistingAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateUser(ctx, "Admin", "admin@test.com", models.GlobalRoleAdmin)

	deps := DBDeps{MongoDatabase: db}
	if err := ensureAdmin(ctx, deps, "admin@test.com", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"email_ci": "admin@test.com"})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("admin rows = %d, want 1", n)
	}
}
