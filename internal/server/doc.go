// Package server serves the rendered display region over HTTP.
//
// The page at "/" embeds a container element that receives each rendered
// frame wholesale via Server-Sent Events at "/api/sse". The current frame is
// also available as JSON at "/api/content", and Prometheus metrics at
// "/metrics".
//
// The server is started by [sensorboard.Board.Start] and shuts down
// gracefully, with a 5-second timeout, when its context is cancelled.
package server
