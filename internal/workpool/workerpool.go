package workpool

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/AbdulWasayUl/go-weather-bot/internal/channels"
	"github.com/AbdulWasayUl/go-weather-bot/internal/logger"
	"github.com/AbdulWasayUl/go-weather-bot/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const defaultJobTimeout = 30 * time.Second

type WorkerPool struct {
	WorkerCount int
	JobTimeout  time.Duration
	Channels    *channels.Channels
}

func New(channels *channels.Channels, workerCount int) *WorkerPool {
	return &WorkerPool{
		WorkerCount: workerCount,
		JobTimeout:  defaultJobTimeout,
		Channels:    channels,
	}
}

func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.WorkerCount; i++ {
		go wp.worker(ctx, i)
	}
}

// Submit queues a job, blocking while the queue is full. It gives up with
// ctx.Err() once ctx is done. Jobs without an ID get a random one for log
// correlation. Must not be called after Stop.
func (wp *WorkerPool) Submit(ctx context.Context, job models.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	wp.Channels.WG.Add(1)
	select {
	case wp.Channels.Jobs <- job:
		return nil
	case <-ctx.Done():
		wp.Channels.WG.Done()
		return ctx.Err()
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	logger.Debug("Worker %d started.", id)
	for job := range wp.Channels.Jobs {
		wp.run(id, job)
	}
	logger.Debug("Worker %d stopped.", id)
}

// run executes one job. Errors and panics are logged here and go no further.
func (wp *WorkerPool) run(id int, job models.Job) {
	defer wp.Channels.WG.Done()

	opCtx, cancel := context.WithTimeout(context.Background(), wp.JobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Exception(errors.New(fmt.Sprint(r)), "[%s] Worker %d panicked handling job %s\n%s", job.Service, id, job.ID, debug.Stack())
		}
	}()

	logger.Debug("[%s] Worker %d processing job %s", job.Service, id, job.ID)
	if err := job.Run(opCtx); err != nil {
		logger.Exception(err, "[%s] Exception while handling job %s", job.Service, job.ID)
		return
	}
	logger.Debug("[%s] Worker %d completed job %s", job.Service, id, job.ID)
}

// Stop closes the queue; workers exit once it is drained. Use Channels.WG.Wait to block until then.
func (wp *WorkerPool) Stop() {
	close(wp.Channels.Jobs)
}
