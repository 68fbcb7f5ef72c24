// Package memory provides in-process implementations of driven ports.
//
// ConfigStore backs tests and the --no-config mode of the CLI.
// EmbeddingCache keeps recently embedded texts for the lifetime of the
// process so corpus reloads only embed changed entries.
package memory
