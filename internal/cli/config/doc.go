// Package config loads and saves the chatmesh-cli settings file
// (~/.chatmesh/cli.yaml by default), which remembers the server, output
// format, last issued token and current session between runs.
package config
