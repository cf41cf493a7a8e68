package common

import (
	"encoding/json"
	"fmt"
	"github.com/ValentinKolb/pricerproxy/lib/frame"
	"math"
	"time"
)

// Error messages sent to clients
const (
	ErrMsgBadRequest        = "bad request or invalid JSON"
	ErrMsgSendFailed        = "Failed to send to pricer"
	ErrMsgPricerUnavailable = "Failed to connect to pricer"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message is a single message sent from the proxy to a client.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"type"`

	// Used for: price results
	Data *PriceResult `json:"data,omitempty"`

	// Used for: errors
	Message string `json:"message,omitempty"`
}

// PriceResult is the client facing form of a daemon response.
// A nil value stands for a result the daemon reported as NaN or infinite,
// it is encoded as JSON null.
type PriceResult struct {
	Price    *float64 `json:"price"`
	Delta    *float64 `json:"delta"`
	Vega     *float64 `json:"vega"`
	TsServer int64    `json:"ts_server"`
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewPriceResultMessage converts a daemon response received at ts into a price_result message
func NewPriceResultMessage(resp frame.Response, ts time.Time) *Message {
	return &Message{
		MsgType: MsgTPriceResult,
		Data: &PriceResult{
			Price:    finiteOrNil(resp.Price),
			Delta:    finiteOrNil(resp.Delta),
			Vega:     finiteOrNil(resp.Vega),
			TsServer: ts.UnixMilli(),
		},
	}
}

// NewErrorMessage creates a new error message
func NewErrorMessage(msg string) *Message {
	return &Message{
		MsgType: MsgTError,
		Message: msg,
	}
}

// finiteOrNil returns nil for NaN and infinities since JSON cannot represent them
func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message sent to clients.
type MessageType uint8

const (
	MsgTUnknown     MessageType = iota
	MsgTPriceResult             // A decoded daemon response
	MsgTError                   // Indicates an error occurred
)

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTPriceResult:
		return "price_result"
	case MsgTError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "price_result":
		*t = MsgTPriceResult
	case "error":
		*t = MsgTError
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}
