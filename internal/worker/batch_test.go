package worker

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestMap_PreservesOrder(t *testing.T) {
	items := []string{"alpha", "beta", "gamma", "delta", "epsilon"}

	out := Map(context.Background(), 3, items, func(ctx context.Context, i int, s string) string {
		time.Sleep(time.Duration(len(items)-i) * 5 * time.Millisecond)
		return strings.ToUpper(s)
	})

	want := []string{"ALPHA", "BETA", "GAMMA", "DELTA", "EPSILON"}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %q, want %q", i, out[i], want[i])
		}
	}
}

func TestMap_Empty(t *testing.T) {
	out := Map(context.Background(), 2, []int{}, func(ctx context.Context, i int, v int) int { return v })
	if out == nil || len(out) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", out)
	}
}

func TestMap_SequentialWithOneWorker(t *testing.T) {
	var order []int
	Map(context.Background(), 1, []int{0, 1, 2, 3}, func(ctx context.Context, i int, v int) int {
		order = append(order, v)
		return v
	})

	for i, v := range order {
		if v != i {
			t.Fatalf("expected sequential processing, got %v", order)
		}
	}
}

func TestMap_CancelledContextStillCoversEveryItem(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := Map(ctx, 2, []int{1, 2, 3, 4, 5, 6, 7, 8}, func(ctx context.Context, i int, v int) string {
		if ctx.Err() != nil {
			return "skipped"
		}
		return "ran"
	})

	if len(out) != 8 {
		t.Fatalf("expected 8 outputs, got %d", len(out))
	}
	for i, s := range out {
		if s != "skipped" {
			t.Errorf("out[%d] = %q, want skipped", i, s)
		}
	}
}
