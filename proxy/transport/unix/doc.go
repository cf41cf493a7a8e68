// Package unix implements a Unix socket connector for pricing daemons that
// run on the same host as the proxy. Apart from the address family it
// behaves like the tcp connector, including half-close support.
package unix
