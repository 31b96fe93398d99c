// Package apiconfig persists the remote-API configuration (base URL, auth
// token, device identity) as a JSON file under the application data
// directory. The Store is constructed once at process start and injected
// into whichever components need it; its mutex guards the in-memory mirror
// of the on-disk file. It is a sibling of the content cache and never
// interacts with it.
package apiconfig
