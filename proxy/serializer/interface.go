package serializer

import (
	"errors"
	"github.com/ValentinKolb/pricerproxy/lib/frame"
	"github.com/ValentinKolb/pricerproxy/proxy/common"
)

// ErrBadRequest is returned for client messages that cannot be turned into a request frame
var ErrBadRequest = errors.New("bad request")

// IMessageSerializer is the interface for all client message serializers
type IMessageSerializer interface {
	// Serialize serializes an outbound Message into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(msg common.Message) ([]byte, error)
	// DeserializeRequest parses a client message into a request for the daemon
	// All returned errors wrap ErrBadRequest
	DeserializeRequest(b []byte) (frame.Request, error)
}
