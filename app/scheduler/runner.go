package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"newscourier/app/fetch"
	"newscourier/app/store"
)

// sendCheckInterval is how often the send queue is re-evaluated,
// independent of the feed check cadence.
const sendCheckInterval = time.Minute

// Runner drives the pipeline from a single background goroutine: a fetch
// cycle every check interval and a send-queue check every minute. The
// single-goroutine design keeps the store single-writer; only the fetch
// fan-out inside a cycle uses concurrency.
type Runner struct {
	fetcher       *fetch.MultiSourceFetcher
	store         *store.Store
	sendScheduler *SendScheduler

	checkInterval time.Duration
	retentionDays int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(fetcher *fetch.MultiSourceFetcher, st *store.Store,
	sendScheduler *SendScheduler, checkInterval time.Duration, retentionDays int) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		fetcher:       fetcher,
		store:         st,
		sendScheduler: sendScheduler,
		checkInterval: checkInterval,
		retentionDays: retentionDays,
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (r *Runner) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		fetchTicker := time.NewTicker(r.checkInterval)
		defer fetchTicker.Stop()
		sendTicker := time.NewTicker(sendCheckInterval)
		defer sendTicker.Stop()

		// Send cycles run on a detached context: Stop must not abort a
		// publish call mid-flight, since an interrupted call burns a
		// retry attempt with an unknown publisher-side outcome.
		sendCtx := context.WithoutCancel(r.ctx)

		// First cycle runs immediately so a restart does not wait a
		// full check interval.
		r.fetchCycle()
		r.sendScheduler.RunCycle(sendCtx)

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-fetchTicker.C:
				r.fetchCycle()
			case <-sendTicker.C:
				r.sendScheduler.RunCycle(sendCtx)
			}
		}
	}()
}

// Stop ends the timer loop. In-flight work is not force-aborted; the
// loop exits after the current action completes.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
}

// fetchCycle polls all sources, records unseen articles in the store and
// evicts shards past retention.
func (r *Runner) fetchCycle() {
	items := r.fetcher.Run(r.ctx)

	added := 0
	duplicates := 0
	for _, a := range items {
		if r.store.IsDuplicate(a) {
			duplicates++
			continue
		}
		r.store.Add(a)
		added++
	}

	r.store.EvictOlderThan(r.retentionDays)

	slog.Info("Fetch cycle completed",
		"fetched", len(items), "new", added, "duplicates", duplicates)
}
