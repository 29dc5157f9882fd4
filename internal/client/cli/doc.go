// Package cli provides the interactive essaydesk command-line client.
//
// It wires configuration, the gRPC API client and a REPL. A background
// watcher pings the server and flips the prompt between online and offline.
//
// Key features:
//   - Register / Login / Logout
//   - Submit an essay to a teacher and see its scores (students)
//   - Progress of a student with per-criterion averages
//   - Group statistics and CSV export (teachers)
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
