// Package parallel runs grid-row loops across a bounded set of goroutines.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers resolves a configured worker count. Zero or negative means one
// worker per CPU.
func Workers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// Rows calls fn for every row in [0, rows), splitting the range into
// contiguous chunks, one per worker. It returns after every chunk has
// finished, so consecutive calls act as a barrier. The first error stops the
// chunk that produced it and is returned; other chunks run to completion.
func Rows(rows, workers int, fn func(row int) error) error {
	if rows <= 0 {
		return nil
	}
	if workers > rows {
		workers = rows
	}
	if workers <= 1 {
		return runRange(0, rows, fn)
	}

	chunk := (rows + workers - 1) / workers
	var g errgroup.Group
	for lo := 0; lo < rows; lo += chunk {
		hi := min(lo+chunk, rows)
		g.Go(func() error {
			return runRange(lo, hi, fn)
		})
	}
	return g.Wait()
}

func runRange(lo, hi int, fn func(row int) error) error {
	for row := lo; row < hi; row++ {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}
