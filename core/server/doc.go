// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application; this package only defines
// the listen port, the API key guarding every route and which routes stay
// public.
package server
