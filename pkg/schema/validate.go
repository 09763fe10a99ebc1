package schema

import (
	"sort"

	"github.com/aretw0/devicegraph/pkg/domain"
)

// Schema maps attribute names to their expected types.
// Example: {"clock": String(), "cores": Int(), "sizes": Slice(Int())}
type Schema map[string]Type

// Validate checks the attributes against the schema. Every schema key must be
// present; keys the schema does not mention are left alone. All failures are
// reported together, ordered by key.
func Validate(s Schema, attrs domain.Attrs) error {
	if len(s) == 0 {
		return nil
	}

	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		v, ok := attrs.Get(key)
		if !ok {
			errs = append(errs, &ValidationError{Key: key, Reason: "required"})
			continue
		}
		if err := s[key].Validate(v); err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error(), Value: v})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
