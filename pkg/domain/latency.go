package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// ZeroLatency is the latency recorded when a link is created without one.
const ZeroLatency Latency = "0s"

// Latency is an opaque timing token such as "0s", "250ps" or "1.5ns".
// The graph never interprets it except to sum the two halves of a link that
// is spliced across an assembly boundary.
type Latency string

// time units in picoseconds, largest first so that Add can pick the
// coarsest exact unit for its result.
var latencyUnits = []struct {
	suffix string
	ps     int64
}{
	{"s", 1_000_000_000_000},
	{"ms", 1_000_000_000},
	{"us", 1_000_000},
	{"ns", 1_000},
	{"ps", 1},
}

// IsZero reports whether the latency is empty or a zero quantity.
func (l Latency) IsZero() bool {
	if strings.TrimSpace(string(l)) == "" {
		return true
	}
	ps, err := l.picoseconds()
	return err == nil && ps.Sign() == 0
}

// Add sums two latencies. A zero or empty side yields the other side
// unchanged, so opaque tokens survive a splice as long as one half is zero.
func (l Latency) Add(other Latency) (Latency, error) {
	if other.IsZero() {
		if strings.TrimSpace(string(l)) == "" {
			return ZeroLatency, nil
		}
		return l, nil
	}
	if l.IsZero() {
		return other, nil
	}
	a, err := l.picoseconds()
	if err != nil {
		return "", err
	}
	b, err := other.picoseconds()
	if err != nil {
		return "", err
	}
	return formatPicoseconds(new(big.Rat).Add(a, b)), nil
}

func (l Latency) picoseconds() (*big.Rat, error) {
	s := strings.TrimSpace(string(l))
	for _, u := range latencyUnits[1:] {
		if strings.HasSuffix(s, u.suffix) {
			return scale(l, strings.TrimSuffix(s, u.suffix), u.ps)
		}
	}
	if strings.HasSuffix(s, "s") {
		return scale(l, strings.TrimSuffix(s, "s"), latencyUnits[0].ps)
	}
	return nil, fmt.Errorf("%w: %q has no time unit", ErrInvalidLatency, string(l))
}

func scale(l Latency, num string, factor int64) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(num))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLatency, string(l))
	}
	return r.Mul(r, new(big.Rat).SetInt64(factor)), nil
}

func formatPicoseconds(ps *big.Rat) Latency {
	if ps.Sign() == 0 {
		return ZeroLatency
	}
	for _, u := range latencyUnits {
		v := new(big.Rat).Quo(ps, new(big.Rat).SetInt64(u.ps))
		if v.IsInt() {
			return Latency(v.Num().String() + u.suffix)
		}
	}
	return Latency(ps.FloatString(3) + "ps")
}
