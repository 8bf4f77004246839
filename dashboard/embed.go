// Package dashboard provides the embedded display page for SensorBoard.
//
// The page is compiled into the binary, so the board ships as a single
// executable. It is served by the internal server package at "/".
package dashboard

import "embed"

// Assets is an embedded filesystem containing the display page.
//
//	assets/
//	  index.html    - page with inline CSS and the SSE client
//
// index.html carries three placeholders filled at request time:
// {{.Title}}, {{.Container}} (the id of the region element) and {{.Content}}
// (the current frame).
//
//go:embed assets/*
var Assets embed.FS
