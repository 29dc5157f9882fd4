// Package api defines the EssayDesk gRPC service: request and response
// messages, the service descriptor, a client stub and the JSON codec the
// messages travel in.
package api

import (
	"encoding/json"

	"github.com/dmitrijs2005/essaydesk/internal/common"
	"google.golang.org/grpc/encoding"
)

// jsonCodec marshals messages as JSON. Clients select it with
// grpc.CallContentSubtype(common.JSONContentSubtype).
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return common.JSONContentSubtype
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
