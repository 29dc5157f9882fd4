// Package client talks to the essaydesk server.
//
// Client is the transport-agnostic contract the CLI works against; GRPCClient
// implements it over gRPC, keeps the access token from the last login and
// attaches it to every call, and maps gRPC status codes onto the sentinel
// errors in errors.go so callers can match them with errors.Is.
package client
