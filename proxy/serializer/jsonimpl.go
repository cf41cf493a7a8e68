package serializer

import (
	"encoding/json"
	"fmt"
	"github.com/ValentinKolb/pricerproxy/lib/frame"
	"github.com/ValentinKolb/pricerproxy/proxy/common"
	"math"
)

// NewJSONSerializer creates a new serializer using the JSON format
func NewJSONSerializer() IMessageSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements IMessageSerializer using JSON
type jsonSerializerImpl struct{}

// requiredFields are the numeric request fields in wire order
var requiredFields = [5]string{"spot", "strike", "rate", "volatility", "maturity"}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IMessageSerializer)
// --------------------------------------------------------------------------

func (j *jsonSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	return json.Marshal(msg)
}

func (j *jsonSerializerImpl) DeserializeRequest(b []byte) (frame.Request, error) {
	// Parse into raw fields, the coercion is done per field
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return frame.Request{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	// json null decodes into a nil map without error
	if fields == nil {
		return frame.Request{}, fmt.Errorf("%w: not an object", ErrBadRequest)
	}

	// All numeric fields must be present
	var values [5]float64
	for i, name := range requiredFields {
		raw, ok := fields[name]
		if !ok {
			return frame.Request{}, fmt.Errorf("%w: missing field %s", ErrBadRequest, name)
		}
		values[i] = toNumber(raw)
	}

	req := frame.Request{
		Spot:       values[0],
		Strike:     values[1],
		Rate:       values[2],
		Volatility: values[3],
		Maturity:   values[4],
		Option:     optionCode(fields["type"]),
	}

	// Steps are only sent if the field is truthy
	if raw, ok := fields["steps"]; ok && isTruthy(raw) {
		steps, err := toUint32(raw)
		if err != nil {
			return frame.Request{}, fmt.Errorf("%w: steps: %v", ErrBadRequest, err)
		}
		req.Steps = steps
		req.HasSteps = true
	}

	return req, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// optionCode maps exactly the string "put" to OptionPut, everything else
// (including a missing or misspelled type) is a call
func optionCode(raw json.RawMessage) frame.OptionCode {
	var s string
	if raw != nil && json.Unmarshal(raw, &s) == nil && s == "put" {
		return frame.OptionPut
	}
	return frame.OptionCall
}

// toUint32 coerces a value to an unsigned 32 bit integer.
// Fractions are truncated and NaN becomes 0, values outside the uint32 range are rejected.
func toUint32(raw json.RawMessage) (uint32, error) {
	v := toNumber(raw)
	if math.IsNaN(v) {
		return 0, nil
	}
	if v < 0 || v > math.MaxUint32 {
		return 0, fmt.Errorf("value %v out of range", v)
	}
	return uint32(math.Trunc(v)), nil
}
