// Package fanout runs independent best-effort side effects concurrently.
// No task's failure or panic cancels another; the caller gets every
// task's outcome and decides what to log.
package fanout

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type Result struct {
	Name string
	Err  error
}

// Join runs all tasks concurrently, each under its own timeout, and
// blocks until every task has finished. Panics are recovered into the
// task's error. Results are returned in task order.
func Join(ctx context.Context, timeout time.Duration, tasks ...Task) []Result {
	results := make([]Result, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()
			results[i] = Result{Name: task.Name, Err: runOne(ctx, timeout, task)}
		}(i, task)
	}
	wg.Wait()

	return results
}

func runOne(ctx context.Context, timeout time.Duration, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", task.Name, r)
		}
	}()

	if task.Run == nil {
		return fmt.Errorf("%s has no run function", task.Name)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return task.Run(ctx)
}
