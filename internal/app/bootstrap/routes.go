// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authgooglefeature "github.com/cardroomhq/stakehub/internal/app/features/authgoogle"
	groupsfeature "github.com/cardroomhq/stakehub/internal/app/features/groups"
	healthfeature "github.com/cardroomhq/stakehub/internal/app/features/health"
	loginfeature "github.com/cardroomhq/stakehub/internal/app/features/login"
	logoutfeature "github.com/cardroomhq/stakehub/internal/app/features/logout"
	notificationsfeature "github.com/cardroomhq/stakehub/internal/app/features/notifications"
	registerfeature "github.com/cardroomhq/stakehub/internal/app/features/register"
	statsfeature "github.com/cardroomhq/stakehub/internal/app/features/stats"
	systemusersfeature "github.com/cardroomhq/stakehub/internal/app/features/systemusers"
	tablesfeature "github.com/cardroomhq/stakehub/internal/app/features/tables"
	userstore "github.com/cardroomhq/stakehub/internal/app/store/users"
	"github.com/cardroomhq/stakehub/internal/app/system/auth"
	"github.com/cardroomhq/stakehub/internal/app/system/mailer"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. StakeHub wires the session manager,
// picks a mail sender, and mounts the JSON API feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName,
		appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh user data on each request, so role
	// changes and blocks take effect immediately, not at next sign-in.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Without an SMTP host, verification mail is logged instead of sent.
	// That keeps local development working with no mail relay.
	var mail mailer.Sender
	if appCfg.MailSMTPHost != "" {
		mail = &mailer.SMTPSender{
			Host: appCfg.MailSMTPHost,
			Port: appCfg.MailSMTPPort,
			User: appCfg.MailSMTPUser,
			Pass: appCfg.MailSMTPPass,
			From: appCfg.MailFrom,
		}
	} else {
		mail = &mailer.LogSender{Logger: logger}
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Account creation and email verification
	registerHandler := registerfeature.NewHandler(deps.MongoDatabase, mail,
		appCfg.BaseURL, appCfg.SiteName, appCfg.EmailVerifyExpiry, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(deps.MongoDatabase, sessionMgr,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		[]byte(appCfg.OAuthStateKey), logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Groups and their membership rosters
	groupsHandler := groupsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

	// Tables, seats, and the money ledger
	tablesHandler := tablesfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/tables", tablesfeature.Routes(tablesHandler, sessionMgr))

	// Results and leaderboards
	statsHandler := statsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/stats", statsfeature.Routes(statsHandler, sessionMgr))

	// Per-user notification feed
	notificationsHandler := notificationsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, sessionMgr))

	// Admin console for accounts
	sysUsersHandler := systemusersfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/system/users", systemusersfeature.Routes(sysUsersHandler, sessionMgr))

	return r, nil
}
