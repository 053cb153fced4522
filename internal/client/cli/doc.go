// Package cli provides the interactive EduPocket command-line client.
//
// It wires configuration, local storage, the REST API client, the freshness
// gate and the sync registry into an interactive REPL that works offline.
// Typical flow: open the local database, start a background connectivity
// watcher, and execute user commands against the cached data.
//
// Key features:
//   - Browse classes, students and the wall from the local cache
//   - Compose wall posts and record attendance offline
//   - Automatic replay of offline records when connectivity returns
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, netwatch.Monitor, and runREPL for details.
package cli
