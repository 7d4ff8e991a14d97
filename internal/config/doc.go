// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional YAML
// config file. The resulting Config is built once at startup and passed
// explicitly to the components that need it.
package config
