// Package protocol defines the message shapes exchanged by MCP endpoints.
//
// The package is organized into several files:
//
//   - id.go: request identifiers and progress tokens (integer-or-string values)
//   - jsonrpc.go: the JSON-RPC 2.0 envelope used on the wire
//   - methods.go: method names, capabilities and log levels
//   - common.go: payloads shared by both directions (ping, cancellation, progress)
//   - client.go: messages originated by a client
//   - server.go: messages originated by a server
//   - codec.go: method-keyed decoding of params and results into typed variants
//   - cancellation.go: conversion between notification vocabularies and the
//     canonical cancellation notification
//
// # Vocabularies
//
// Each direction of traffic has its own closed vocabulary. A ClientRequest can
// only be one of the request types a client may send, a ServerNotification only
// one of the notifications a server may send, and so on. Vocabularies are
// sealed interfaces whose variants are plain value structs:
//
//	var req protocol.ClientRequest = protocol.CallToolRequest{Name: "echo"}
//	switch r := req.(type) {
//	case protocol.CallToolRequest:
//	    fmt.Println(r.Name)
//	}
//
// CancelledNotification and ProgressNotification belong to both notification
// vocabularies, and PingRequest and EmptyResult to both request and result
// vocabularies.
//
// # Wire Format
//
// Messages travel as JSON-RPC 2.0 objects. The method name selects the variant:
//
//	{"jsonrpc": "2.0", "id": 7, "method": "ping"}
//	{"jsonrpc": "2.0", "id": 7, "result": {}}
//	{"jsonrpc": "2.0", "method": "notifications/cancelled", "params": {"requestId": 7}}
package protocol
