// Package config defines the chatmesh-server configuration.
//
//   - spec.go: ServerConfig and its sections, with koanf tags
//   - default.go: default values
//   - verify.go: validation before startup
//   - sanitize.go: a copy safe to log
//
// Values are loaded by internal/infra/confloader from a YAML file,
// CHATMESH_ environment variables and command-line flags.
package config
