// SPDX-License-Identifier: MPL-2.0

package confval

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON implements json.Marshaler via ToNative, so Values embed
// naturally in structs serialized with encoding/json. Dictionary keys are
// emitted in sorted order. Non-finite floats are not representable in JSON
// and fail; note that whole floats serialize without a fractional part and
// therefore read back as ints.
func (v Value) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(v.ToNative())
	if err != nil {
		return nil, &ConversionError{Target: "JSON", Cause: err}
	}
	return data, nil
}

// UnmarshalJSON implements json.Unmarshaler. Numbers are classified by
// syntax: integer literals that fit the int payload become int Values,
// everything else becomes a float.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return &ConversionError{Target: "Value", Cause: err}
	}
	if dec.More() {
		return &ConversionError{Target: "Value", Detail: "trailing data after JSON value"}
	}
	out, err := FromNative(raw)
	if err != nil {
		return err
	}
	*v = out
	return nil
}
