package worklet

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestExchangeSwapsTokens(t *testing.T) {
	ex := NewExchange()
	ctx := context.Background()
	a, b, _ := NewTokens()

	got := make(chan Token, 1)
	go func() {
		other, err := ex.Swap(ctx, a)
		if err != nil {
			t.Error(err)
		}
		got <- other
	}()

	other, err := ex.Swap(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if other.Role() != RolePrimary {
		t.Errorf("second caller received %v, want primary", other.Role())
	}
	select {
	case tok := <-got:
		if tok.Role() != RoleHotBackup {
			t.Errorf("first caller received %v, want hot-backup", tok.Role())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first swapper never completed")
	}
}

func TestExchangeSwapCancelKeepsToken(t *testing.T) {
	ex := NewExchange()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary, _, _ := NewTokens()
	tok, err := ex.Swap(ctx, primary)
	if err == nil {
		t.Fatal("swap with no partner and cancelled context succeeded")
	}
	if tok.Role() != RolePrimary {
		t.Errorf("cancelled swap returned %v, want the caller's own token", tok.Role())
	}
}

func TestExchangeSwapCompletesOnceMatched(t *testing.T) {
	ex := NewExchange()
	ctx, cancel := context.WithCancel(context.Background())
	primary, hot, _ := NewTokens()

	got := make(chan Token, 1)
	go func() {
		tok, err := ex.Swap(ctx, primary)
		if err != nil {
			t.Errorf("matched swap failed: %v", err)
		}
		got <- tok
	}()

	// Take the offer directly, cancel the poster's context, and only
	// then deposit. The poster must still complete the trade rather
	// than keep primary, which would leave the role with two holders.
	offer := <-ex.offers
	cancel()
	offer.reply <- hot

	select {
	case tok := <-got:
		if tok.Role() != RoleHotBackup {
			t.Errorf("matched swap returned %v, want hot-backup", tok.Role())
		}
		if offer.token.Role() != RolePrimary {
			t.Errorf("partner received %v, want primary", offer.token.Role())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("matched swap never completed")
	}
}

func TestExecutorRunsStepsInOrder(t *testing.T) {
	const steps = 20

	var mu sync.Mutex
	var order []int
	var maintains atomic.Int32

	ex := &Executor{
		Step: func(iter int) {
			mu.Lock()
			order = append(order, iter)
			mu.Unlock()
		},
		Maintain: func() { maintains.Add(1) },
	}
	if err := ex.Run(context.Background(), steps); err != nil {
		t.Fatal(err)
	}

	if len(order) != steps {
		t.Fatalf("executed %d steps, want %d", len(order), steps)
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("step order = %v", order)
		}
	}
	if maintains.Load() == 0 {
		t.Error("cold backup never performed maintenance")
	}
}

func TestExecutorSinglePrimaryAtATime(t *testing.T) {
	var active atomic.Int32
	ex := &Executor{
		Step: func(int) {
			if active.Add(1) != 1 {
				t.Error("two primaries executing concurrently")
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		},
	}
	if err := ex.Run(context.Background(), 12); err != nil {
		t.Fatal(err)
	}
}

func TestExecutorZeroSteps(t *testing.T) {
	ex := &Executor{Step: func(int) { t.Error("step ran") }}
	if err := ex.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
}

func TestRoleString(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RolePrimary, "primary"},
		{RoleHotBackup, "hot-backup"},
		{RoleColdBackup, "cold-backup"},
		{Role(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.role.String(); got != tt.want {
			t.Errorf("Role(%d).String() = %q, want %q", tt.role, got, tt.want)
		}
	}
}
