package frame

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ResponseSize is the length of one response record
const ResponseSize = 24

// Response is a single record streamed back by the daemon
type Response struct {
	Price float64
	Delta float64
	Vega  float64
}

// EncodeResponse encodes a response into its 24 byte record
func EncodeResponse(r Response) []byte {
	buf := make([]byte, ResponseSize)
	binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(r.Price))
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(r.Delta))
	binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(r.Vega))
	return buf
}

// DecodeResponse decodes the first ResponseSize bytes of b.
// Any bytes after the first record are ignored.
func DecodeResponse(b []byte) (Response, error) {
	if len(b) < ResponseSize {
		return Response{}, fmt.Errorf("%w: need %d bytes, got %d", ErrShortFrame, ResponseSize, len(b))
	}
	return decodeResponse(b), nil
}

// decodeResponse decodes a record without a length check
func decodeResponse(b []byte) Response {
	return Response{
		Price: math.Float64frombits(binary.LittleEndian.Uint64(b[0:8])),
		Delta: math.Float64frombits(binary.LittleEndian.Uint64(b[8:16])),
		Vega:  math.Float64frombits(binary.LittleEndian.Uint64(b[16:24])),
	}
}
