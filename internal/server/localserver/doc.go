// Package localserver serves local management commands on a Unix socket.
//
// The protocol is line based. A client writes one command per line and
// reads the reply, which ends with a line holding a single ".". Replies
// to failed commands start with "ERR ". Access is controlled by the
// socket file's permissions (0600), so no token is required.
//
// Commands:
//
//	status              JSON with version, uptime, token and session counts
//	loglevel [LEVEL]    print or change the log level
//	reload              re-read the configuration file
//	shutdown            start a graceful shutdown
//	help                list commands
//
// Try it with: printf 'status\n' | nc -U /run/chatmesh/admin.sock
package localserver
