// Package common contains shared constants and sentinel errors used across
// essaydesk components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// JSONContentSubtype is the gRPC content-subtype of the essaydesk codec.
const JSONContentSubtype = "json"
