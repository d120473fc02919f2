// Package auth manages cookie sessions and the signed-in user for each
// request.
//
// The session stores only the user's ID. LoadSessionUser re-fetches the
// user record on every request through the configured UserFetcher, so role
// changes and account blocks take effect immediately instead of at the
// next sign-in.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cardroomhq/stakehub/internal/app/system/httpjson"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

// SessionUser is the per-request identity injected into r.Context().
type SessionUser struct {
	ID      string
	Name    string
	Email   string
	Role    string
	Blocked bool
}

// UserFetcher loads a fresh SessionUser by ID. It returns nil when the
// user no longer exists. A blocked user is returned with Blocked set, not
// dropped, so middleware can answer with the distinct blocked error.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in user and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// SessionManager owns the cookie store and the session middleware.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	logger  *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager. The key must
// be at least 32 characters. In production (secure=true) cookies are
// Secure with SameSite=None; in dev they are Lax so http://localhost
// accepts them.
func NewSessionManager(key, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if key == "" {
		return nil, fmt.Errorf("session key is empty; provide 32+ random chars")
	}
	if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(key)))
	}
	if name == "" {
		name = "stakehub-session"
	}

	store := sessions.NewCookieStore([]byte(key))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, logger: logger}, nil
}

// SetUserFetcher wires the per-request user lookup. Until a fetcher is
// set, every request is treated as signed out.
func (m *SessionManager) SetUserFetcher(f UserFetcher) { m.fetcher = f }

// SignIn records the user's ID in the session cookie.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Options.MaxAge = -1
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	return sess.Save(r, w)
}

// LoadSessionUser resolves the session cookie to a fresh user record and
// injects it into the request context. Requests without a valid session
// pass through with no user.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.store.Get(r, m.name)

		isAuth, _ := sess.Values[isAuthKey].(bool)
		userID, _ := sess.Values[userIDKey].(string)
		if !isAuth || userID == "" || m.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}

		u := m.fetcher.FetchUser(r.Context(), userID)
		if u == nil {
			// Stale cookie for a deleted user.
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn rejects requests without a signed-in user with a 401,
// and requests from blocked accounts with the distinct blocked 403. The
// blocked check runs before any role check so a blocked admin is still
// told "blocked", not "forbidden".
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			httpjson.Unauthenticated(w)
			return
		}
		if u.Blocked {
			httpjson.AccountBlocked(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole allows only signed-in, unblocked users whose global role is
// in the allowed set.
func (m *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				httpjson.Unauthenticated(w)
				return
			}
			if u.Blocked {
				httpjson.AccountBlocked(w)
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				httpjson.Forbidden(w, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a user into the request context for tests,
// bypassing the session store.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}
