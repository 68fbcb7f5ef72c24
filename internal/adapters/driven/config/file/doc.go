// Package file provides the TOML-backed configuration store.
//
// Settings live in config.toml inside the scoperag config directory
// (default ~/.scoperag). Callers address values with dotted keys such as
// "embedding.provider"; on disk they are written as nested tables.
package file
