// Package proxy groups the packages of the pricing proxy.
//
// Structure:
//
//	common/     configuration, logging setup and client message types
//	serializer/ client json <-> request frame translation
//	transport/  websocket listener and TCP / Unix daemon connectors
//	server/     the proxy server and its per client sessions
//	client/     a websocket client used by the CLI
//
// The binary daemon protocol itself lives in lib/frame.
package proxy
