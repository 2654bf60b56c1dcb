// Package cli provides the interactive paperkeeper command-line client.
//
// It wires configuration, the local SQLite cache, the remote collection
// client, the session and the catalog controller, then runs a REPL over the
// catalog. Typical flow: read or prompt for the ID token, serve the cached
// list and reconcile it with the server, then execute user commands while the
// list refreshes in the background.
//
// Key features:
//   - List / More / Search / Refresh the catalog
//   - Show a paper's details; Edit or Delete papers you own
//   - Upload new papers
//   - Verify the account's email
//
// The cobra command tree is built by NewRootCommand; its default command
// starts App.Run, which blocks until the user exits.
package cli
