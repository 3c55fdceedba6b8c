// Package cli provides the interactive voice diary client.
//
// It wires configuration, the local identity store, the REST and health
// clients, microphone capture, and a REPL that drives the publish workflow
// and the discovery commands. A background watcher probes the server's gRPC
// health service and switches the client between online and offline mode.
//
// Typical session:
//
//	record        start capturing from the microphone
//	stop          finish and preview the take
//	next          continue to mood selection
//	mood calm     pick a mood
//	post          upload and publish
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
