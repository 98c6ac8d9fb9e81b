package dataflow

import "fmt"

// Timestamp is the logical time attached to a batch of records.
type Timestamp struct {
	Epoch     uint64
	Iteration uint64
}

// Next returns the timestamp of the following loop iteration.
func (t Timestamp) Next() Timestamp {
	return Timestamp{Epoch: t.Epoch, Iteration: t.Iteration + 1}
}

// Less reports whether t happens before o.
func (t Timestamp) Less(o Timestamp) bool {
	if t.Epoch != o.Epoch {
		return t.Epoch < o.Epoch
	}
	return t.Iteration < o.Iteration
}

func (t Timestamp) String() string {
	return fmt.Sprintf("(%d, %d)", t.Epoch, t.Iteration)
}
