package web_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjoshi/kitegate/web"
)

func TestRenderIndexLoggedOut(t *testing.T) {
	var buf strings.Builder
	err := web.RenderIndex(&buf, web.IndexData{
		BaseHref:   "/",
		LoggedIn:   false,
		APIKey:     "key123",
		ConsoleURL: "https://developers.kite.trade/apps/key123",
	})
	require.NoError(t, err)

	page := buf.String()
	assert.Contains(t, page, `<base href="/">`)
	assert.Contains(t, page, "Login to generate access token.")
	assert.Contains(t, page, "key123")
	assert.Contains(t, page, "https://developers.kite.trade/apps/key123")
	assert.NotContains(t, page, "Logged in")
}

func TestRenderIndexLoggedIn(t *testing.T) {
	var buf strings.Builder
	err := web.RenderIndex(&buf, web.IndexData{
		BaseHref: "/gw/",
		Prefix:   "/gw",
		LoggedIn: true,
		APIKey:   "key123",
	})
	require.NoError(t, err)

	page := buf.String()
	assert.Contains(t, page, `<base href="/gw/">`)
	assert.Contains(t, page, "Logged in")
	assert.Contains(t, page, `href="api/holdings"`)
	assert.Contains(t, page, `href="api/orders"`)
	assert.Contains(t, page, `href="api/positions"`)
	assert.Contains(t, page, `href="api/summary"`)
	assert.Contains(t, page, `action="logout"`)
	assert.NotContains(t, page, "Login to generate access token.")
}

func TestRenderSuccess(t *testing.T) {
	var buf strings.Builder
	err := web.RenderSuccess(&buf, web.SuccessData{
		BaseHref:    "/",
		AccessToken: "acc-1",
		Profile:     `{"user_id": "AB1234"}`,
	})
	require.NoError(t, err)

	page := buf.String()
	assert.Contains(t, page, "Success")
	assert.Contains(t, page, "acc-1")
	assert.Contains(t, page, "AB1234")
	assert.Contains(t, page, `href="api/holdings"`)
}

func TestRenderSuccessEscapesProfile(t *testing.T) {
	var buf strings.Builder
	err := web.RenderSuccess(&buf, web.SuccessData{
		BaseHref:    "/",
		AccessToken: "acc-1",
		Profile:     `<script>alert(1)</script>`,
	})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "<script>")
}
