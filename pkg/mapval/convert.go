// SPDX-License-Identifier: MPL-2.0

package mapval

type (
	// Marshaler is implemented by types that can represent themselves as a
	// Value.
	Marshaler interface {
		MarshalMapValue() (Value, error)
	}

	// Unmarshaler is implemented by types that can reconstruct themselves
	// from a Value. Implementations must leave the receiver unchanged when
	// they return an error.
	Unmarshaler interface {
		UnmarshalMapValue(Value) error
	}
)
