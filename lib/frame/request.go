package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Wire sizes of the request frame
const (
	// RequestSize is the length of a request frame without a step count
	RequestSize = 41
	// RequestSizeWithSteps is the length of a request frame carrying a step count
	RequestSizeWithSteps = 45
)

// Field offsets inside a request frame
const (
	offSpot       = 0
	offStrike     = 8
	offRate       = 16
	offVolatility = 24
	offMaturity   = 32
	offOption     = 40
	offSteps      = 41
)

var (
	ErrShortFrame    = errors.New("frame: short frame")
	ErrInvalidLength = errors.New("frame: invalid request length")
	ErrInvalidOption = errors.New("frame: invalid option code")
)

// --------------------------------------------------------------------------
// Option Code
// --------------------------------------------------------------------------

// OptionCode is the one byte option type understood by the daemon
type OptionCode uint8

const (
	OptionCall OptionCode = 0
	OptionPut  OptionCode = 1
)

// String returns the string representation of an OptionCode.
func (c OptionCode) String() string {
	switch c {
	case OptionCall:
		return "call"
	case OptionPut:
		return "put"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// --------------------------------------------------------------------------
// Request
// --------------------------------------------------------------------------

// Request holds the parameters of a single pricing request as they are sent
// to the daemon. Steps is only written to the wire if HasSteps is set.
type Request struct {
	Spot       float64
	Strike     float64
	Rate       float64
	Volatility float64
	Maturity   float64
	Option     OptionCode
	Steps      uint32
	HasSteps   bool
}

// Size returns the length of the encoded frame
func (r Request) Size() int {
	if r.HasSteps {
		return RequestSizeWithSteps
	}
	return RequestSize
}

// EncodeRequest encodes a request into its binary frame.
// The float fields are written bit for bit, NaN and infinities included.
func EncodeRequest(r Request) []byte {
	buf := make([]byte, r.Size())
	binary.LittleEndian.PutUint64(buf[offSpot:], math.Float64bits(r.Spot))
	binary.LittleEndian.PutUint64(buf[offStrike:], math.Float64bits(r.Strike))
	binary.LittleEndian.PutUint64(buf[offRate:], math.Float64bits(r.Rate))
	binary.LittleEndian.PutUint64(buf[offVolatility:], math.Float64bits(r.Volatility))
	binary.LittleEndian.PutUint64(buf[offMaturity:], math.Float64bits(r.Maturity))
	buf[offOption] = byte(r.Option)

	if r.HasSteps {
		binary.LittleEndian.PutUint32(buf[offSteps:], r.Steps)
	}

	return buf
}

// DecodeRequest is the inverse of EncodeRequest. The frame must be exactly
// RequestSize or RequestSizeWithSteps bytes long.
func DecodeRequest(b []byte) (Request, error) {
	if len(b) != RequestSize && len(b) != RequestSizeWithSteps {
		return Request{}, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(b))
	}

	option := OptionCode(b[offOption])
	if option != OptionCall && option != OptionPut {
		return Request{}, fmt.Errorf("%w: %d", ErrInvalidOption, b[offOption])
	}

	r := Request{
		Spot:       math.Float64frombits(binary.LittleEndian.Uint64(b[offSpot:])),
		Strike:     math.Float64frombits(binary.LittleEndian.Uint64(b[offStrike:])),
		Rate:       math.Float64frombits(binary.LittleEndian.Uint64(b[offRate:])),
		Volatility: math.Float64frombits(binary.LittleEndian.Uint64(b[offVolatility:])),
		Maturity:   math.Float64frombits(binary.LittleEndian.Uint64(b[offMaturity:])),
		Option:     option,
	}

	if len(b) == RequestSizeWithSteps {
		r.HasSteps = true
		r.Steps = binary.LittleEndian.Uint32(b[offSteps:])
	}

	return r, nil
}
