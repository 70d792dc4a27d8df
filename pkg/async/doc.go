// Package async provides small generic helpers for running computations on
// goroutines and chaining their results.
//
// A Future is obtained from Async, which starts the supplied function in its
// own goroutine and returns immediately. Then attaches a continuation that runs
// only when the previous stage succeeded, so multi-step pipelines read top to
// bottom:
//
//	read := async.Async(ctx, src, readFile)
//	decoded := async.Then(ctx, read, decodeImage)
//	checked := async.Then(ctx, decoded, checkSize)
//	checked.OnComplete(func(res Result, err error) {
//	    // apply res
//	})
//
// Every helper is context-aware: a stage that has not started when ctx is done
// completes with ctx.Err() without calling its function. A stage that already
// started is expected to watch ctx itself.
//
// Callers block with Await, AwaitContext or AwaitWithTimeout, poll with
// IsComplete, or register a callback with OnComplete. WaitAll collects the
// results of several futures.
package async
