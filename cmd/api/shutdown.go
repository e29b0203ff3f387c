package main

import "context"

type stopper interface {
	Stop()
}

type dirtyFlusher interface {
	FlushDirty(ctx context.Context) int
}

// drain stops every background loop, then retries the saves they may have
// left behind. It returns the number of records still not persisted.
func drain(ctx context.Context, store dirtyFlusher, loops ...stopper) int {
	for _, l := range loops {
		l.Stop()
	}
	return store.FlushDirty(ctx)
}
