// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	userstore "github.com/cardroomhq/stakehub/internal/app/store/users"
	"github.com/cardroomhq/stakehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.SuperAdminEmail, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureAdmin promotes the configured account to global admin, creating it
// if no account with that email exists yet. A fresh install otherwise has
// no way to mint its first admin.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	existing, err := users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role == models.GlobalRoleAdmin && existing.Status == models.UserStatusActive {
			return nil
		}
		if err := users.SetRole(ctx, existing.ID, models.GlobalRoleAdmin); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		if err := users.SetBlocked(ctx, existing.ID, false); err != nil {
			return fmt.Errorf("activate admin: %w", err)
		}
		logger.Info("promoted existing user to admin",
			zap.String("email", email),
			zap.String("user_id", existing.ID.Hex()))
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return fmt.Errorf("look up admin account: %w", err)
	}

	// No password hash: the account signs in with Google, which matches on
	// email and never needs one.
	created, err := users.Create(ctx, models.User{
		FullName:   "Admin",
		Email:      email,
		AuthMethod: "google",
		Role:       models.GlobalRoleAdmin,
		Status:     models.UserStatusActive,
	})
	if err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}
	logger.Info("created admin account",
		zap.String("email", email),
		zap.String("user_id", created.ID.Hex()))
	return nil
}
