package engine

import (
	"context"
	"sync"
	"time"

	"github.com/piwi3910/BoxStack/internal/model"
)

// Job is one independent packing request.
type Job struct {
	Name      string
	Parts     []model.Part
	Container model.Container
}

// BatchResult pairs a job with its outcome.
type BatchResult struct {
	Job      Job
	Result   model.PackResult
	Err      error
	Duration time.Duration
}

// PackBatch runs jobs on up to workers goroutines. Each run owns its index,
// so jobs never observe each other's placements. Results come back in job
// order. Cancellation is checked before each job starts; jobs already
// running finish normally and skipped jobs carry ctx.Err().
func (p *Packer) PackBatch(ctx context.Context, jobs []Job, workers int) []BatchResult {
	results := make([]BatchResult, len(jobs))
	if len(jobs) == 0 {
		return results
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				job := jobs[i]
				if err := ctx.Err(); err != nil {
					results[i] = BatchResult{Job: job, Err: err}
					continue
				}
				start := time.Now()
				result, err := p.WithLogger(p.logger.WithValues("job", job.Name)).Pack(job.Parts, job.Container)
				results[i] = BatchResult{Job: job, Result: result, Err: err, Duration: time.Since(start)}
			}
		}()
	}

	for i := range jobs {
		next <- i
	}
	close(next)
	wg.Wait()

	return results
}
