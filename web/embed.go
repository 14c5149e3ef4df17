// Package web embeds the login page and the single-page dashboard.
package web

import "embed"

//go:embed index.html login.html app.js style.css
var FS embed.FS
