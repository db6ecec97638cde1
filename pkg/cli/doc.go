// Package cli provides the command-line interface for soaptrace.
//
// Commands:
//   - parse: List the requests recorded in message logs and session exports
//   - resolve: Map actions to contract operations and proxy methods
//   - catalog: List every operation of a catalog with its action
//   - config: Show the effective configuration and its sources
//   - version: Show soaptrace version
//
// Global flags (--json, --log-level, --log-format, --log-file, --catalog,
// --config) are layered over SOAPTRACE_* environment variables and the
// local and global config files, see package cliconfig.
//
// Usage:
//
//	soaptrace parse traces/client.svclog
//	soaptrace parse 'captures/**/*.txt' --sides caller --exclude http://tempuri.org/IPing/Ping
//	soaptrace parse run.svclog --where 'action endsWith "/Submit"' --xpath id=//OrderId
//	soaptrace parse run.svclog --catalog catalog.yaml --json
//	soaptrace resolve --catalog catalog.yaml http://tempuri.org/IOrders/Submit
//	soaptrace catalog --catalog catalog.yaml --check
package cli
