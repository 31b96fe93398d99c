// Package cache implements the URL-keyed content cache backing the desktop
// shell's remote file commands. A URL maps to a deterministic key (sha256 hex
// digest + inferred extension), the key to a flat file under the cache root,
// and Manager.Resolve orchestrates lookup, fetch and populate. Resolve
// degrades to the original URL on any fetch/write failure so the GUI always
// receives a renderable reference; only explicit maintenance operations
// (clear, size, save/read pass-throughs) surface errors to callers.
package cache
