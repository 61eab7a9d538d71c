// Package connection talks to a chatmesh server over HTTP and tracks the
// token and session an interactive chat is bound to.
package connection
