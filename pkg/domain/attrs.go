package domain

// Attr is one key/value pair of an attribute bag.
type Attr struct {
	Key   string
	Value Value
}

// Attrs is an ordered attribute bag. It is a plain slice with linear lookup,
// which keeps per-device memory small for the handful of keys a device has.
// The zero value is an empty bag.
type Attrs struct {
	items []Attr
}

// NewAttrs builds a bag from a plain map. Go maps are unordered, so the keys
// are inserted in sorted order.
func NewAttrs(m map[string]any) Attrs {
	var a Attrs
	for _, k := range sortedKeys(m) {
		a.Set(k, ValueOf(m[k]))
	}
	return a
}

// A builds a bag from alternating key/value arguments, keeping their order.
// Non-string keys are skipped.
func A(kv ...any) Attrs {
	var a Attrs
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		a.Set(k, ValueOf(kv[i+1]))
	}
	return a
}

// Set inserts or replaces a key, keeping the position of an existing key.
func (a *Attrs) Set(key string, v Value) {
	for i := range a.items {
		if a.items[i].Key == key {
			a.items[i].Value = v
			return
		}
	}
	a.items = append(a.items, Attr{Key: key, Value: v})
}

// Get returns the value of a key.
func (a Attrs) Get(key string) (Value, bool) {
	for _, it := range a.items {
		if it.Key == key {
			return it.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether the key is present.
func (a Attrs) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Len returns the number of keys.
func (a Attrs) Len() int { return len(a.items) }

// Keys returns the keys in insertion order.
func (a Attrs) Keys() []string {
	out := make([]string, len(a.items))
	for i, it := range a.items {
		out[i] = it.Key
	}
	return out
}

// Items returns a copy of the pairs in insertion order.
func (a Attrs) Items() []Attr {
	out := make([]Attr, len(a.items))
	copy(out, a.items)
	return out
}

// Clone returns an independent copy of the bag.
func (a Attrs) Clone() Attrs {
	return Attrs{items: a.Items()}
}

// Merge returns a copy of a overlaid with the keys of other.
func (a Attrs) Merge(other Attrs) Attrs {
	out := a.Clone()
	for _, it := range other.items {
		out.Set(it.Key, it.Value)
	}
	return out
}

// Map returns the bag as plain Go values.
func (a Attrs) Map() map[string]any {
	out := make(map[string]any, len(a.items))
	for _, it := range a.items {
		out[it.Key] = it.Value.Interface()
	}
	return out
}
