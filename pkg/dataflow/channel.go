package dataflow

import (
	"context"
	"slices"

	"github.com/matzehuels/gjoin/pkg/errors"
)

// Channel is a typed, cluster-wide exchange point. Create it before
// [Cluster.Run] and use it from every worker of exactly one run.
type Channel[T any] struct {
	name  string
	peers int
	inbox []chan batch[T]

	// state is indexed by worker and only touched by that worker.
	state []channelState[T]
}

type batch[T any] struct {
	round uint64
	from  int
	ts    Timestamp
	items []T
}

type channelState[T any] struct {
	round uint64
	stash []batch[T] // batches that arrived for a later round
}

// NewChannel creates a channel for the workers of c. The name appears in
// error messages.
func NewChannel[T any](c *Cluster, name string) *Channel[T] {
	ch := &Channel[T]{
		name:  name,
		peers: c.workers,
		inbox: make([]chan batch[T], c.workers),
		state: make([]channelState[T], c.workers),
	}
	// A sender can run at most one round ahead of any receiver, so two
	// batches per peer never block.
	for i := range ch.inbox {
		ch.inbox[i] = make(chan batch[T], 2*c.workers)
	}
	return ch
}

// Name returns the channel's name.
func (ch *Channel[T]) Name() string {
	return ch.name
}

// Exchange sends each item to worker key(item) % Peers() and returns the
// items this worker received from all peers, ordered by sender index and,
// within one sender, by original order. It blocks until every peer has
// delivered its batch for this round.
func (ch *Channel[T]) Exchange(ctx context.Context, w *Worker, ts Timestamp, items []T, key func(T) uint64) ([]T, error) {
	parts := make([][]T, ch.peers)
	if ch.peers == 1 {
		parts[0] = items
	} else {
		for _, item := range items {
			dst := key(item) % uint64(ch.peers)
			parts[dst] = append(parts[dst], item)
		}
	}
	return ch.deliver(ctx, w, ts, parts)
}

// Broadcast delivers a copy of items to every worker, including this one,
// and returns everything received, ordered by sender index.
func (ch *Channel[T]) Broadcast(ctx context.Context, w *Worker, ts Timestamp, items []T) ([]T, error) {
	parts := make([][]T, ch.peers)
	for i := range parts {
		if i == w.index {
			parts[i] = items
		} else {
			parts[i] = slices.Clone(items)
		}
	}
	return ch.deliver(ctx, w, ts, parts)
}

// Barrier waits until every worker has reached the same round on ch.
func (ch *Channel[T]) Barrier(ctx context.Context, w *Worker, ts Timestamp) error {
	_, err := ch.deliver(ctx, w, ts, make([][]T, ch.peers))
	return err
}

func (ch *Channel[T]) deliver(ctx context.Context, w *Worker, ts Timestamp, parts [][]T) ([]T, error) {
	if w.peers != ch.peers {
		return nil, errors.New(errors.ErrCodeInternal, "channel %s: built for %d workers, used by a run of %d", ch.name, ch.peers, w.peers)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st := &ch.state[w.index]
	round := st.round
	st.round++

	for dst, items := range parts {
		if dst == w.index {
			continue
		}
		select {
		case ch.inbox[dst] <- batch[T]{round: round, from: w.index, ts: ts, items: items}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	got := make([][]T, ch.peers)
	got[w.index] = parts[w.index]
	received := 1

	accept := func(b batch[T]) error {
		if b.ts != ts {
			return errors.New(errors.ErrCodeInternal, "channel %s: round %d: worker %d sent %s, worker %d is at %s",
				ch.name, round, b.from, b.ts, w.index, ts)
		}
		got[b.from] = b.items
		received++
		return nil
	}

	keep := st.stash[:0]
	for _, b := range st.stash {
		if b.round != round {
			keep = append(keep, b)
			continue
		}
		if err := accept(b); err != nil {
			return nil, err
		}
	}
	st.stash = keep

	for received < ch.peers {
		select {
		case b := <-ch.inbox[w.index]:
			if b.round != round {
				st.stash = append(st.stash, b)
				continue
			}
			if err := accept(b); err != nil {
				return nil, err
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return slices.Concat(got...), nil
}

// AllReduce combines one value from every worker, folding in worker order,
// and returns the same result on all of them.
func AllReduce[T any](ctx context.Context, ch *Channel[T], w *Worker, ts Timestamp, value T, combine func(acc, v T) T) (T, error) {
	all, err := ch.Broadcast(ctx, w, ts, []T{value})
	if err != nil {
		var zero T
		return zero, err
	}
	acc := all[0]
	for _, v := range all[1:] {
		acc = combine(acc, v)
	}
	return acc, nil
}

// Sum is AllReduce with addition.
func Sum[T uint64 | int | float64](ctx context.Context, ch *Channel[T], w *Worker, ts Timestamp, value T) (T, error) {
	return AllReduce(ctx, ch, w, ts, value, func(a, b T) T { return a + b })
}
