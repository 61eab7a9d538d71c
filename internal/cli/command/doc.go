// Package command defines the chatmesh-cli commands on urfave/cli/v2.
//
// Every command shares one runtime built in the app's Before hook: the
// CLI config file merged with flags, the output formatter and a
// connection manager holding the server, token and session in use.
package command
