package kite

import "encoding/json"

// UserSession is the payload returned by the request-token exchange. Only
// the fields this service consumes are modeled; Raw preserves the complete
// upstream payload for rendering back to the user.
type UserSession struct {
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
	PublicToken string `json:"public_token"`
	LoginTime   string `json:"login_time"`

	Raw json.RawMessage `json:"-"`
}
