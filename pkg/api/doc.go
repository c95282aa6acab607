// Package api defines the request and response messages of the ledger's
// RPC services. Messages travel as JSON; money fields are decimal strings.
package api
