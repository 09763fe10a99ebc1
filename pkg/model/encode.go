package model

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/devicegraph/pkg/domain"
)

// EncodeAttrs converts an attribute bag into backend parameters. Backends
// take primitives and lists of primitives natively; anything else is passed
// through a JSON round trip, and a value that cannot be encoded is an error.
// With stringify, native values become strings and nil becomes "".
func EncodeAttrs(attrs domain.Attrs, stringify bool) (map[string]any, error) {
	out := make(map[string]any, attrs.Len())
	for _, it := range attrs.Items() {
		v := it.Value
		switch {
		case v.IsNull():
			if stringify {
				out[it.Key] = ""
			} else {
				out[it.Key] = nil
			}
		case v.IsNative():
			if stringify {
				out[it.Key] = stringValue(v)
			} else {
				out[it.Key] = v.Interface()
			}
		default:
			tree, err := roundTrip(v.Interface())
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnencodableAttr, it.Key, err)
			}
			out[it.Key] = tree
		}
	}
	return out, nil
}

func stringValue(v domain.Value) string {
	if _, isList := v.AsList(); !isList {
		return v.String()
	}
	b, err := json.Marshal(v.Interface())
	if err != nil {
		return v.String()
	}
	return string(b)
}

func roundTrip(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
