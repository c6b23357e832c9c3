// Package cli provides the mockadapter command-line interface.
//
// The commands work on fixture files (see package config) without running a
// server:
//   - validate: Check fixtures for structural problems
//   - routes: List the routes a fixture registers
//   - match: Send a request through a fixture's adapter and print the outcome
//   - import: Convert an OpenAPI document into a fixture
//   - version: Show the mockadapter version
//
// Every command accepts --json for machine-readable output. Logging follows
// MOCKADAPTER_LOG_LEVEL and MOCKADAPTER_LOG_FORMAT; --verbose forces debug
// level.
package cli
