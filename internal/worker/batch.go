package worker

import (
	"context"
)

type slot[O any] struct {
	value O
	ran   bool
}

// Map applies fn to every item with at most concurrency jobs in flight and
// returns the outputs in input order. With concurrency 1 the items are
// processed strictly one after another.
//
// Items not dispatched before ctx is cancelled are still passed to fn,
// serially and with the cancelled context, so every item gets an output.
func Map[I, O any](ctx context.Context, concurrency int, items []I, fn func(ctx context.Context, index int, item I) O) []O {
	if len(items) == 0 {
		return []O{}
	}

	pool := NewPool[slot[O]](ctx, concurrency)
	pool.Start()

	for i, item := range items {
		i, item := i, item
		if !pool.Submit(func(ctx context.Context) slot[O] {
			return slot[O]{value: fn(ctx, i, item), ran: true}
		}) {
			break
		}
	}

	slots := pool.Wait()
	out := make([]O, len(items))
	for i := range items {
		if i < len(slots) && slots[i].ran {
			out[i] = slots[i].value
			continue
		}
		out[i] = fn(ctx, i, items[i])
	}
	return out
}
