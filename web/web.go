// Package web renders the HTML pages served by kitegate: the landing page
// and the post-login success page. Templates are embedded so the binary is
// self-contained.
package web

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var content embed.FS

var tmpl = template.Must(template.ParseFS(content, "templates/*.html"))

// IndexData feeds the landing page template.
type IndexData struct {
	// BaseHref makes relative links resolve under the reverse-proxy prefix.
	// Always ends with "/".
	BaseHref string
	// Prefix is the mount prefix without a trailing slash; empty when the
	// service is served from the root.
	Prefix     string
	LoggedIn   bool
	APIKey     string
	ConsoleURL string
}

// SuccessData feeds the post-login success page template.
type SuccessData struct {
	BaseHref    string
	AccessToken string
	// Profile is the pretty-printed upstream session payload.
	Profile string
}

// RenderIndex writes the landing page.
func RenderIndex(w io.Writer, data IndexData) error {
	return tmpl.ExecuteTemplate(w, "index.html", data)
}

// RenderSuccess writes the post-login success page.
func RenderSuccess(w io.Writer, data SuccessData) error {
	return tmpl.ExecuteTemplate(w, "success.html", data)
}
