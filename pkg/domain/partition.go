package domain

import "fmt"

// Partition is the (rank, thread) a device is assigned to.
// A distributed build runs one process per rank; the thread is optional.
type Partition struct {
	Rank   int
	Thread int
	// HasThread is false when only the rank was assigned.
	HasThread bool
}

// OnRank assigns a rank without a thread.
func OnRank(rank int) Partition { return Partition{Rank: rank} }

// OnThread assigns both a rank and a thread.
func OnThread(rank, thread int) Partition {
	return Partition{Rank: rank, Thread: thread, HasThread: true}
}

// ThreadOrZero returns the thread, or 0 when none was assigned.
func (p Partition) ThreadOrZero() int {
	if !p.HasThread {
		return 0
	}
	return p.Thread
}

func (p Partition) String() string {
	if !p.HasThread {
		return fmt.Sprintf("(%d, -)", p.Rank)
	}
	return fmt.Sprintf("(%d, %d)", p.Rank, p.Thread)
}
