// Package control carries the JSON-RPC surface between the arena CLI and
// the daemon, spoken over a Unix domain socket. The server side embeds in
// arenad and delegates to the daemon's operations; the client side backs
// the CLI commands. Request and response types live in types.go and form
// the compatibility contract between the two binaries.
package control
