package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rjoshi/kitegate/kite"
	"github.com/rjoshi/kitegate/tokenstore"
)

type contextKey int

const (
	clientKey contextKey = iota
	profileKey
)

const sessionCookieName = "kitegate_session"

// RequireClient is the per-request session guard for account query routes.
// It resolves the current access token (session first, durable fallback
// second), validates it with a lightweight profile call, and places the
// validated client and profile payload on the request context. Stale tokens
// are always caught here, before any handler runs.
func (a *API) RequireClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, sessionToken, fromSession := a.resolveAccessToken(r)
		if accessToken == "" {
			writeError(w, http.StatusUnauthorized, msgNotLoggedIn)
			return
		}

		client := a.newClient(accessToken)
		profile, err := client.Profile(r.Context())
		if err != nil {
			if kite.IsTokenError(err) {
				if fromSession {
					a.sessions.Delete(sessionToken)
					clearSessionCookie(w, r)
				}
				a.audit.logFailure(AuditSessionExpired, r, err.Error())
				writeError(w, http.StatusUnauthorized, msgSessionExpired)
				return
			}
			a.audit.logFailure(AuditQueryFailure, r, err.Error())
			mapUpstreamError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), clientKey, client)
		ctx = context.WithValue(ctx, profileKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveAccessToken returns the current access token, the session token it
// came from (when resolved via the session store) and whether it came from
// a session. The durable fallback is consulted only when no live session
// holds a token.
func (a *API) resolveAccessToken(r *http.Request) (accessToken, sessionToken string, fromSession bool) {
	if token, session, ok := a.sessionFromRequest(r); ok && session.AccessToken != "" {
		return session.AccessToken, token, true
	}
	if token, err := a.tokens.Get(); err == nil {
		return token, "", false
	} else if !errors.Is(err, tokenstore.ErrNoToken) {
		a.audit.logWarning(AuditTokenReadFailed, r, err.Error())
	}
	return "", "", false
}

func (a *API) sessionFromRequest(r *http.Request) (string, AuthSession, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", AuthSession{}, false
	}
	token, ok := a.verifySessionToken(cookie.Value)
	if !ok {
		return "", AuthSession{}, false
	}
	session, ok := a.sessions.Get(token)
	if !ok {
		return "", AuthSession{}, false
	}
	return token, session, true
}

func clientFromContext(ctx context.Context) *kite.Client {
	client, _ := ctx.Value(clientKey).(*kite.Client)
	return client
}

func profileFromContext(ctx context.Context) json.RawMessage {
	profile, _ := ctx.Value(profileKey).(json.RawMessage)
	return profile
}

// signSessionToken binds the session token to the configured session secret
// so forged cookie values never reach the session store.
func (a *API) signSessionToken(token string) string {
	mac := hmac.New(sha256.New, []byte(a.cfg.SessionSecret))
	mac.Write([]byte(token))
	return token + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (a *API) verifySessionToken(value string) (string, bool) {
	token, sig, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, []byte(a.cfg.SessionSecret))
	mac.Write([]byte(token))
	if !hmac.Equal(got, mac.Sum(nil)) {
		return "", false
	}
	return token, true
}

func (a *API) writeSessionCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    a.signSessionToken(token),
		Path:     "/",
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
	})
}

func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

func requestIsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		return true
	}
	return strings.Contains(strings.ToLower(r.Header.Get("Forwarded")), "proto=https")
}

// urlPrefix returns the reverse-proxy mount prefix for this request: the
// proxy-provided header wins, then the configured prefix. Never ends with
// a trailing slash.
func (a *API) urlPrefix(r *http.Request) string {
	p := r.Header.Get("X-Forwarded-Prefix")
	if p == "" {
		p = a.cfg.PublicPrefix
	}
	return strings.TrimRight(p, "/")
}

func baseHref(prefix string) string {
	if prefix == "" {
		return "/"
	}
	return prefix + "/"
}
