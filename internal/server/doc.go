// Package server hosts the loopback Fiber HTTP service the desktop GUI talks
// to. It bootstraps the app with recover/request-id middlewares, structured
// access logging, and JSON error bodies, and exposes the command routes
// (remote-file cache, API config, device identity) via the routes subpackage.
// The service binds to localhost only; it is an internal command channel, not
// a public API surface, so keep exports narrow and accept explicit
// dependencies.
package server
