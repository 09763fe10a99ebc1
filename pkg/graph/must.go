package graph

// Must panics if err is non-nil. It shortens port lookups in expansion
// procedures and tests:
//
//	x.Link(Must(self.Port("input")), Must(d.Port("input")))
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
