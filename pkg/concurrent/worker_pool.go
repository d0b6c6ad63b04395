package concurrent

import (
	"sync"
)

type JobFunc[T any, G any] func(job T) G

// Job pairs a value with its position in the submitted batch.
type Job[V any] struct {
	index int
	value V
}

func NewJob[V any](index int, value V) Job[V] {
	return Job[V]{index: index, value: value}
}

func (j Job[V]) GetIndex() int {
	return j.index
}

func (j Job[V]) GetValue() V {
	return j.value
}

// WorkerPool runs a JobFunc on a fixed number of goroutines. Results keep the index of their job.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan Job[T]
	results    chan Job[G]
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job[T], jobQueueSize),
		results:    make(chan Job[G], jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- Job[G]{index: job.index, value: jobFunc(job.value)}
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

// Wait blocks until every worker has returned, then closes the results channel. Call Close first.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(index int, job T) {
	wp.jobQueue <- Job[T]{index: index, value: job}
}

func (wp *WorkerPool[T, G]) CollectResults() <-chan Job[G] {
	return wp.results
}

// Close stops accepting jobs, workers return once the queue is drained.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

// Map applies jobFunc to every job on numWorkers goroutines and returns the results in job order.
func Map[T any, G any](numWorkers int, jobs []T, jobFunc JobFunc[T, G]) []G {
	results := make([]G, len(jobs))
	if len(jobs) == 0 {
		return results
	}
	wp := NewWorkerPool[T, G](min(numWorkers, len(jobs)), len(jobs))
	wp.Start(jobFunc)
	for i, job := range jobs {
		wp.AddJob(i, job)
	}
	wp.Close()
	wp.Wait()
	for res := range wp.CollectResults() {
		results[res.GetIndex()] = res.GetValue()
	}
	return results
}
