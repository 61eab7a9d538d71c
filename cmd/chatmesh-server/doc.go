// Package main provides the entry point for chatmesh-server.
//
// The server exposes bearer-token issuance, conversation sessions and a
// chat endpoint fronting an OpenAI-compatible completion provider. Every
// third turn of a session returns a deliberately irregular payload.
//
// Usage:
//
//	chatmesh-server [flags]
//	chatmesh-server --config /etc/chatmesh/config.yaml
//	chatmesh-server --addr 127.0.0.1:9090 --log-level debug
//
// Configuration is read from defaults, the optional YAML file, CHATMESH_*
// environment variables and finally the flags. Without an API key in
// provider.openai.api_key or OPENAI_API_KEY every normal turn echoes its
// input.
package main
