package api

import "net/http"

// Positions handles GET /api/positions: exactly one upstream call, the raw
// payload passed through unwrapped. The summary endpoint relies on this
// shape to return byte-identical values under its keys.
func (a *API) Positions(w http.ResponseWriter, r *http.Request) {
	client := clientFromContext(r.Context())
	positions, err := client.Positions(r.Context())
	if err != nil {
		a.audit.logFailure(AuditQueryFailure, r, err.Error())
		mapUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, positions)
}

// Holdings handles GET /api/holdings.
func (a *API) Holdings(w http.ResponseWriter, r *http.Request) {
	client := clientFromContext(r.Context())
	holdings, err := client.Holdings(r.Context())
	if err != nil {
		a.audit.logFailure(AuditQueryFailure, r, err.Error())
		mapUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, holdings)
}

// Orders handles GET /api/orders.
func (a *API) Orders(w http.ResponseWriter, r *http.Request) {
	client := clientFromContext(r.Context())
	orders, err := client.Orders(r.Context())
	if err != nil {
		a.audit.logFailure(AuditQueryFailure, r, err.Error())
		mapUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// Summary handles GET /api/summary. The profile payload is the one fetched
// by the session guard's validation call; positions and holdings are
// fetched sequentially afterwards. No retries, no caching.
func (a *API) Summary(w http.ResponseWriter, r *http.Request) {
	client := clientFromContext(r.Context())
	profile := profileFromContext(r.Context())

	positions, err := client.Positions(r.Context())
	if err != nil {
		a.audit.logFailure(AuditQueryFailure, r, err.Error())
		mapUpstreamError(w, err)
		return
	}
	holdings, err := client.Holdings(r.Context())
	if err != nil {
		a.audit.logFailure(AuditQueryFailure, r, err.Error())
		mapUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{
		Profile:   profile,
		Positions: positions,
		Holdings:  holdings,
	})
}
