// Package output renders chatmesh-cli results as a table, JSON or YAML,
// and draws the spinner shown while a chat turn is in flight.
package output
