package texture

import (
	"context"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-explorer/common"
)

// Result is a finished asynchronous load.
type Result struct {
	// Ticket is the value returned by the Request that started the load.
	Ticket uint64
	// Source is the requested path or URL.
	Source string
	// Texture is the staged texture, nil when Err is set.
	Texture *common.TextureStagingData
	// Err is the load failure, if any.
	Err error
}

type asyncLoaderImpl struct {
	mu sync.Mutex

	loader Loader

	workers     int
	loadTimeout time.Duration
	pool        worker.DynamicWorkerPool

	ctx    context.Context
	cancel context.CancelFunc

	nextTicket uint64
	pending    int
	done       []Result
	closed     bool
}

// AsyncLoader runs texture loads on a worker pool so the frame loop never blocks on disk or network.
// Finished loads are collected with Poll from the frame loop.
type AsyncLoader interface {
	// Request queues a load of source and returns a ticket identifying it.
	// Returns 0 once the loader is closed.
	//
	// Parameters:
	//   - source: a file path or http(s) URL
	//
	// Returns:
	//   - uint64: the ticket carried by the matching Result
	Request(source string) uint64

	// Poll returns the loads finished since the previous call. It never blocks.
	//
	// Returns:
	//   - []Result: finished loads in completion order
	Poll() []Result

	// Pending returns the number of requested loads that have not finished yet.
	//
	// Returns:
	//   - int: outstanding load count
	Pending() int

	// Close cancels in-flight loads and stops the pool. Later results are discarded.
	Close()
}

var _ AsyncLoader = &asyncLoaderImpl{}

// NewAsyncLoader creates an AsyncLoader backed by loader.
//
// Parameters:
//   - loader: the synchronous loader the workers call
//   - options: functional options to configure the async loader
//
// Returns:
//   - AsyncLoader: the running async loader
func NewAsyncLoader(loader Loader, options ...AsyncLoaderBuilderOption) AsyncLoader {
	a := &asyncLoaderImpl{
		loader:      loader,
		workers:     2,
		loadTimeout: 2 * time.Minute,
	}
	for _, option := range options {
		option(a)
	}
	if a.workers <= 0 {
		a.workers = 1
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.pool = worker.NewDynamicWorkerPool(a.workers, 64, time.Hour)
	return a
}

func (a *asyncLoaderImpl) Request(source string) uint64 {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return 0
	}
	a.nextTicket++
	ticket := a.nextTicket
	a.pending++
	a.mu.Unlock()

	a.pool.SubmitTask(worker.Task{
		ID:      int(ticket),
		Payload: source,
		Do: func() (any, error) {
			ctx, cancel := context.WithTimeout(a.ctx, a.loadTimeout)
			defer cancel()

			tex, err := a.loader.Load(ctx, source)
			a.finish(Result{Ticket: ticket, Source: source, Texture: tex, Err: err})
			return tex, err
		},
	})
	return ticket
}

func (a *asyncLoaderImpl) finish(r Result) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.pending--
	a.done = append(a.done, r)
}

func (a *asyncLoaderImpl) Poll() []Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.done) == 0 {
		return nil
	}
	out := a.done
	a.done = nil
	return out
}

func (a *asyncLoaderImpl) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

func (a *asyncLoaderImpl) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.pending = 0
	a.done = nil
	a.mu.Unlock()

	a.cancel()
	a.pool.Stop()
}

// AsyncLoaderBuilderOption is a functional option for configuring an AsyncLoader.
type AsyncLoaderBuilderOption func(*asyncLoaderImpl)

// WithWorkers sets the number of concurrent loads.
func WithWorkers(n int) AsyncLoaderBuilderOption {
	return func(a *asyncLoaderImpl) {
		a.workers = n
	}
}

// WithLoadTimeout bounds a single load including its retries.
func WithLoadTimeout(d time.Duration) AsyncLoaderBuilderOption {
	return func(a *asyncLoaderImpl) {
		a.loadTimeout = d
	}
}
