package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalContext is a context cancelled on SIGINT or SIGTERM that remembers
// which signal arrived.
type SignalContext struct {
	context.Context
	Cancel context.CancelFunc

	mu  sync.Mutex
	sig os.Signal
}

// NewSignalContext derives a SignalContext from parent. Signal handling
// stops once the context is done, whatever cancelled it.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, Cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			sc.mu.Lock()
			sc.sig = sig
			sc.mu.Unlock()
			cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sig
}

// ranksOf lists the ranks a command works on: one when rank is set, all of
// them otherwise.
func ranksOf(rank, nranks int) ([]int, error) {
	if nranks < 1 {
		return nil, fmt.Errorf("ranks must be at least 1, got %d", nranks)
	}
	if rank >= 0 {
		if rank >= nranks {
			return nil, fmt.Errorf("rank %d out of range for %d ranks", rank, nranks)
		}
		return []int{rank}, nil
	}
	out := make([]int, nranks)
	for i := range out {
		out[i] = i
	}
	return out, nil
}
