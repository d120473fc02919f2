// internal/app/features/register/handler.go
package register

import (
	"time"

	"github.com/cardroomhq/stakehub/internal/app/store/emailverify"
	userstore "github.com/cardroomhq/stakehub/internal/app/store/users"
	"github.com/cardroomhq/stakehub/internal/app/system/mailer"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns account registration and email verification.
type Handler struct {
	DB           *mongo.Database
	Log          *zap.Logger
	Users        *userstore.Store
	Verify       *emailverify.Store
	Mail         mailer.Sender
	BaseURL      string        // for building verification links
	SiteName     string        // shown in mail
	VerifyExpiry time.Duration // how long verification links stay valid
}

func NewHandler(db *mongo.Database, mail mailer.Sender, baseURL, siteName string, verifyExpiry time.Duration, logger *zap.Logger) *Handler {
	if verifyExpiry <= 0 {
		verifyExpiry = emailverify.DefaultExpiry
	}
	return &Handler{
		DB:           db,
		Log:          logger,
		Users:        userstore.New(db),
		Verify:       emailverify.New(db),
		Mail:         mail,
		BaseURL:      baseURL,
		SiteName:     siteName,
		VerifyExpiry: verifyExpiry,
	}
}
