/*
Package workers sizes and runs small goroutine pools.

Worker counts derive from GOMAXPROCS, which Go 1.19+ sets from the container
CPU limit, rather than runtime.NumCPU, which reports the host:

	n := workers.ForIO(16) // 2 per CPU, at most 16

IMPORT_WORKERS overrides the calculation (still capped by the limit):

	env:
	- name: IMPORT_WORKERS
	  value: "4"

Run drains a channel with n goroutines and returns when the channel is
closed and every call has finished:

	jobs := make(chan string)
	go func() {
		defer close(jobs)
		for _, p := range paths {
			jobs <- p
		}
	}()
	workers.Run(ctx, n, jobs, func(ctx context.Context, p string) {
		hash(p)
	})

Once ctx is done Run stops starting new calls but keeps draining the channel
so the producer never blocks.
*/
package workers
