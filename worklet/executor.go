package worklet

import (
	"context"
	"sync"

	"github.com/gogpu/scenepaint"
)

// Executor runs a step function on a rotating trio of goroutines.
//
// Each iteration the primary executes one step and then retires: it
// trades its primary token for the hot backup's on the takeover
// exchange, then trades that for the cold token on the maintenance
// exchange. The old hot backup becomes primary immediately, so the
// takeover never waits on maintenance; the old cold backup finishes its
// maintenance and moves up to hot. Net rotation per step:
// primary -> cold, hot -> primary, cold -> hot.
type Executor struct {
	// Step runs on the thread currently holding the primary token.
	// iter counts from 0.
	Step func(iter int)

	// Maintain runs on the cold backup, off the critical path. May be
	// nil.
	Maintain func()
}

// Run executes steps iterations of the rotation and returns once all
// three goroutines have stopped. The context cancels a rotation that is
// mid-swap.
func (e *Executor) Run(ctx context.Context, steps int) error {
	if steps <= 0 {
		return nil
	}

	takeover := NewExchange()
	maintenance := NewExchange()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var iter int
	var iterMu sync.Mutex
	// nextStep claims one iteration; the primary that claims the last
	// one cancels the rotation after running it.
	nextStep := func() (int, bool) {
		iterMu.Lock()
		defer iterMu.Unlock()
		if iter >= steps {
			return 0, false
		}
		i := iter
		iter++
		return i, true
	}

	primary, hot, cold := NewTokens()
	var wg sync.WaitGroup
	errs := make(chan error, 3)
	for _, token := range []Token{primary, hot, cold} {
		wg.Add(1)
		go func(t Token) {
			defer wg.Done()
			errs <- e.rotate(ctx, cancel, t, takeover, maintenance, nextStep)
		}(token)
	}
	wg.Wait()

	// Report the first real failure; context.Canceled is the normal
	// end-of-rotation signal.
	close(errs)
	for err := range errs {
		if err != nil && err != context.Canceled {
			return err
		}
	}
	return nil
}

func (e *Executor) rotate(ctx context.Context, stop context.CancelFunc, token Token,
	takeover, maintenance *Exchange, nextStep func() (int, bool)) error {
	for {
		var err error
		switch token.Role() {
		case RolePrimary:
			i, ok := nextStep()
			if !ok {
				stop()
				return nil
			}
			e.Step(i)
			scenepaint.Logger().Debug("worklet step complete", "iter", i)
			// Retire: primary -> hot backup's token -> cold token.
			if token, err = takeover.Swap(ctx, token); err != nil {
				return err
			}
			if token, err = maintenance.Swap(ctx, token); err != nil {
				return err
			}

		case RoleHotBackup:
			// Stand by for the takeover; the swap blocks until the
			// primary finishes its step.
			if token, err = takeover.Swap(ctx, token); err != nil {
				return err
			}

		case RoleColdBackup:
			if e.Maintain != nil {
				e.Maintain()
			}
			if token, err = maintenance.Swap(ctx, token); err != nil {
				return err
			}
		}
	}
}
