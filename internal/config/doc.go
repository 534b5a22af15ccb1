// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config.yaml, an optional .env file and
// RATINGS_-prefixed environment variables. It provides type-safe access to
// the settings needed by the server, the database layer and the auth layer.
package config
