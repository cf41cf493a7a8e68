// Package cmd implements the command-line interface of pricerproxy. It
// provides commands for running the proxy and for talking to a running
// proxy as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Starts the proxy in front of a pricing daemon
//   - price: Sends pricing requests through a running proxy and benchmarks it
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See pricerproxy -help for a list of all commands.
package cmd
