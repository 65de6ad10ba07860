// Package server holds the HTTP server configuration.
//
// The main application entry point starts Fiber; this package only defines the
// listen port, the optional API key and the metrics endpoint path.
//
// # Usage
//
// The core/config package embeds Config under the "server" key:
//
//	SERVER_PORT=8080
//	SERVER_API_KEY=secret
//	SERVER_METRICS_PATH=/metrics
package server
