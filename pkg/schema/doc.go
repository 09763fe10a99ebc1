// Package schema validates device attribute bags.
//
// It defines a small type system (string, int, float, bool, any, and lists)
// plus user-defined validators. A Schema maps attribute names to types; a
// device kind may carry one, and every device of that kind is checked when it
// is constructed.
//
// Basic usage:
//
//	s := schema.Schema{
//	    "clock": schema.String(),
//	    "cores": schema.Int(),
//	    "sizes": schema.Slice(schema.Int()),
//	}
//
//	attrs := domain.A("clock", "2GHz", "cores", 4, "sizes", []int{32, 64})
//	if err := schema.Validate(s, attrs); err != nil {
//	    // every failure is listed in the *schema.AggregateError
//	}
//
// Schemas can also be parsed from type strings, as architecture files do:
//
//	s, err := schema.ParseTypeMap(map[string]string{"cores": "int", "sizes": "[int]"})
package schema
