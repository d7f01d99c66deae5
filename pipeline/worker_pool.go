// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrNilStage is returned when a nil stage is passed to a worker pool
var ErrNilStage = errors.New("pipeline: nil stage")

// MetricsRecorder records the outcome of processing an item
type MetricsRecorder[T any] func(item *TxItem[T], err error)

// ShouldRecordMetrics decides whether an item's outcome should be recorded.
// It lets a stage skip items it passed through without processing
type ShouldRecordMetrics[T any] func(item *TxItem[T]) bool

// StageWorkerPool runs a stage on several workers in parallel. Items leave the
// pool in completion order, not submission order
type StageWorkerPool[T any] struct {
	stage         Stage[T]
	numWorkers    int
	input         <-chan *TxItem[T]
	output        chan<- *TxItem[T]
	errors        chan<- error
	recordMetrics MetricsRecorder[T]
	shouldRecord  ShouldRecordMetrics[T]
	wg            sync.WaitGroup
	started       atomic.Bool
}

type StageWorkerPoolConfig[T any] struct {
	// Stage is required
	Stage Stage[T]
	// NumWorkers defaults to 1
	NumWorkers int
	Input      <-chan *TxItem[T]
	Output     chan<- *TxItem[T]
	// Errors may be nil, in which case errors are only recorded on the item
	Errors        chan<- error
	RecordMetrics MetricsRecorder[T]
	ShouldRecord  ShouldRecordMetrics[T]
}

func NewStageWorkerPool[T any](config StageWorkerPoolConfig[T]) *StageWorkerPool[T] {
	if config.Stage == nil {
		panic(ErrNilStage)
	}
	numWorkers := config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &StageWorkerPool[T]{
		stage:         config.Stage,
		numWorkers:    numWorkers,
		input:         config.Input,
		output:        config.Output,
		errors:        config.Errors,
		recordMetrics: config.RecordMetrics,
		shouldRecord:  config.ShouldRecord,
	}
}

// Start launches the workers. Calling it more than once has no effect
func (p *StageWorkerPool[T]) Start(ctx context.Context) {
	if p.started.Swap(true) {
		return
	}
	for range p.numWorkers {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// Stop waits for every worker to exit. Workers exit when the input channel is
// closed or the context passed to Start is cancelled
func (p *StageWorkerPool[T]) Stop() {
	p.wg.Wait()
}

func (p *StageWorkerPool[T]) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-p.input:
			if !ok {
				return
			}
			err := p.stage.Process(ctx, item)
			if p.recordMetrics != nil &&
				!errors.Is(err, context.Canceled) &&
				!errors.Is(err, context.DeadlineExceeded) &&
				(p.shouldRecord == nil || p.shouldRecord(item)) {
				p.recordMetrics(item, err)
			}
			if err != nil && p.errors != nil {
				select {
				case p.errors <- err:
				case <-ctx.Done():
					return
				}
			}
			// Failed items are forwarded too, so that the apply stage sees
			// every sequence number
			select {
			case p.output <- item:
			case <-ctx.Done():
				return
			}
		}
	}
}

func DecodeMetricsRecorder[T any](metrics *Metrics) MetricsRecorder[T] {
	if metrics == nil {
		return nil
	}
	return func(_ *TxItem[T], err error) {
		metrics.RecordDecode(err)
	}
}

func ValidateMetricsRecorder[T any](metrics *Metrics) MetricsRecorder[T] {
	if metrics == nil {
		return nil
	}
	return func(item *TxItem[T], err error) {
		metrics.RecordValidate(item.Valid(), err)
	}
}

// RecordIfDecoded skips items that never reached a stage because decoding failed
func RecordIfDecoded[T any](item *TxItem[T]) bool {
	return item.IsDecoded()
}
