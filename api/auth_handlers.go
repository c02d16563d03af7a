package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rjoshi/kitegate/tokenstore"
	"github.com/rjoshi/kitegate/web"
)

// sessionDuration bounds the server-side session. Kite access tokens are
// themselves invalidated upstream daily; the guard catches that earlier.
const sessionDuration = 24 * time.Hour

const consoleURLPrefix = "https://developers.kite.trade/apps/"

// Home handles GET /. It shows the current login state; token presence is
// best-effort here, real validation happens in the session guard.
func (a *API) Home(w http.ResponseWriter, r *http.Request) {
	loggedIn := false
	if _, session, ok := a.sessionFromRequest(r); ok && session.AccessToken != "" {
		loggedIn = true
	} else if _, err := a.tokens.Get(); err == nil {
		loggedIn = true
	} else if !errors.Is(err, tokenstore.ErrNoToken) {
		a.audit.logWarning(AuditTokenReadFailed, r, err.Error())
	}

	prefix := a.urlPrefix(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := web.RenderIndex(w, web.IndexData{
		BaseHref:   baseHref(prefix),
		Prefix:     prefix,
		LoggedIn:   loggedIn,
		APIKey:     a.cfg.APIKey,
		ConsoleURL: consoleURLPrefix + a.cfg.APIKey,
	})
	if err != nil {
		a.audit.logWarning(AuditQueryFailure, r, err.Error())
	}
}

// Health handles GET /health.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// Login handles GET /login: redirect to the external Kite login page.
// No session state changes here.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	client := a.newClient("")
	http.Redirect(w, r, client.LoginURL(a.cfg.RedirectURI()), http.StatusFound)
}

// Callback handles GET /callback: the external login flow redirects back
// here with a one-time request token, which is exchanged for an access
// token. The access token is stored in a fresh server-side session and in
// the durable fallback.
func (a *API) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if status := q.Get("status"); status != "" && status != "success" {
		msg := q.Get("message")
		if msg == "" {
			msg = "Login failed"
		}
		a.audit.logFailure(AuditLoginFailure, r, msg)
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	requestToken := q.Get("request_token")
	if requestToken == "" {
		a.audit.logFailure(AuditLoginFailure, r, "missing request_token")
		writeError(w, http.StatusBadRequest, "Missing request_token.")
		return
	}

	secret, err := a.apiSecret.Open()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to access api secret")
		return
	}
	client := a.newClient("")
	session, err := client.GenerateSession(r.Context(), requestToken, secret.String())
	secret.Destroy()
	if err != nil {
		a.audit.logFailure(AuditLoginFailure, r, err.Error())
		mapUpstreamError(w, err)
		return
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(sessionDuration)
	a.sessions.Put(token, AuthSession{
		AccessToken:    session.AccessToken,
		UserID:         session.UserID,
		ExpiresAt:      expiresAt,
		LastAccessedAt: time.Now(),
	})
	a.writeSessionCookie(w, r, token, expiresAt)

	// Durable fallback write failures must not fail the login.
	if err := a.tokens.Set(session.AccessToken); err != nil {
		a.audit.logWarning(AuditTokenPersistError, r, err.Error())
	}

	a.audit.logEvent(AuditLoginSuccess, r, session.UserID)

	pretty, err := json.MarshalIndent(session.Raw, "", "    ")
	if err != nil {
		pretty = session.Raw
	}
	prefix := a.urlPrefix(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderErr := web.RenderSuccess(w, web.SuccessData{
		BaseHref:    baseHref(prefix),
		AccessToken: session.AccessToken,
		Profile:     string(pretty),
	})
	if renderErr != nil {
		a.audit.logWarning(AuditQueryFailure, r, renderErr.Error())
	}
}

// Logout handles POST /logout. The server-side session is always removed;
// the durable fallback is cleared only when LOGOUT_CLEARS_FALLBACK is set
// (the default). Redirects to the landing page.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	var userID string
	if token, session, ok := a.sessionFromRequest(r); ok {
		userID = session.UserID
		a.sessions.Delete(token)
	}
	clearSessionCookie(w, r)

	if a.cfg.LogoutClearsFallback {
		if err := a.tokens.Clear(); err != nil && !errors.Is(err, tokenstore.ErrNoToken) {
			a.audit.logWarning(AuditTokenPersistError, r, err.Error())
		}
	}

	a.audit.logEvent(AuditLogout, r, userID)
	http.Redirect(w, r, baseHref(a.urlPrefix(r)), http.StatusFound)
}
