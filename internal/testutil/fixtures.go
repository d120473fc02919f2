package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cardroomhq/stakehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an active test user with the given global role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string, role models.GlobalRole) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    text.Fold(email),
		AuthMethod: "password",
		Role:       role,
		Status:     models.UserStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateBlockedUser creates a test user with blocked status.
func (f *Fixtures) CreateBlockedUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    text.Fold(email),
		AuthMethod: "password",
		Role:       models.GlobalRoleUser,
		Status:     models.UserStatusBlocked,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create blocked test user: %v", err)
	}
	return user
}

// CreateGroup creates an active test group owned by ownerID.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, ownerID primitive.ObjectID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		OwnerID:   ownerID,
		Status:    models.GroupStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateMembership adds a user to a group with the given group role.
func (f *Fixtures) CreateMembership(ctx context.Context, groupID, userID primitive.ObjectID, role models.GroupRole) models.GroupMembership {
	f.t.Helper()

	m := models.GroupMembership{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("group_memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateTable creates a table inside a group. Pass nil groupID for an
// ungrouped table.
func (f *Fixtures) CreateTable(ctx context.Context, name string, creatorID primitive.ObjectID, groupID *primitive.ObjectID, status string) models.Table {
	f.t.Helper()

	now := time.Now().UTC()
	table := models.Table{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatorID: creatorID,
		GroupID:   groupID,
		Status:    status,
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == models.TableStatusFinished {
		ended := now
		table.EndedAt = &ended
	}
	if _, err := f.db.Collection("tables").InsertOne(ctx, table); err != nil {
		f.t.Fatalf("failed to create test table: %v", err)
	}
	return table
}

// CreatePlayer seats a player at a table. Pass nil userID for a guest.
func (f *Fixtures) CreatePlayer(ctx context.Context, tableID primitive.ObjectID, userID *primitive.ObjectID, name string) models.Player {
	f.t.Helper()

	p := models.Player{
		ID:       primitive.NewObjectID(),
		TableID:  tableID,
		UserID:   userID,
		Name:     name,
		NameCI:   text.Fold(name),
		SeatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("players").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test player: %v", err)
	}
	return p
}

// CreateTransaction records a buy-in or cash-out for a player.
func (f *Fixtures) CreateTransaction(ctx context.Context, tableID, playerID primitive.ObjectID, kind string, amountCents int64, recordedBy primitive.ObjectID) models.Transaction {
	f.t.Helper()

	tx := models.Transaction{
		ID:          primitive.NewObjectID(),
		TableID:     tableID,
		PlayerID:    playerID,
		Kind:        kind,
		AmountCents: amountCents,
		RecordedBy:  recordedBy,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("transactions").InsertOne(ctx, tx); err != nil {
		f.t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
