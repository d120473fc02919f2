// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, request limits). AppConfig is everything specific to
// StakeHub: database connection strings, session settings, mail delivery,
// OAuth credentials, and startup bootstrap values.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: stakehub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Session lifetime

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty disables auth)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@stakehub.app)
	MailFromName string // From display name

	// Base URL for email links (verification links)
	BaseURL string // e.g., "https://stakehub.app" or "http://localhost:3000"

	// SiteName is used in outgoing email copy.
	SiteName string

	// Email verification settings
	EmailVerifyExpiry time.Duration

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string
	OAuthStateKey      string // Signing key for the OAuth state cookie

	// SuperAdmin bootstrap
	SuperAdminEmail string // Promotes/creates this account as admin on startup
}
