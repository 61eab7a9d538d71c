// Package repl implements the interactive chat loop of chatmesh-cli.
//
// Plain lines are sent as chat turns. Lines starting with "/" are local
// commands such as /new, /session, /role and /history. A unique prefix
// of a command is accepted.
package repl
