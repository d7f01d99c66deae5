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
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrPipelineStopped    = errors.New("pipeline is stopped")
	ErrPipelineNotStarted = errors.New("pipeline not started")
	ErrMissingDecodeFunc  = errors.New("pipeline: no decode function configured")
)

func newNotStartedErrorsChan() <-chan error {
	ch := make(chan error, 1)
	ch <- ErrPipelineNotStarted
	close(ch)
	return ch
}

// TxPipeline decodes and validates submitted transactions concurrently and
// applies them one at a time in submission order. Every submitted item is
// eventually delivered on Results, whether or not it was applied
type TxPipeline[T any] struct {
	config   Config
	logger   *slog.Logger
	decode   DecodeFunc[T]
	validate ValidateFunc[T]
	apply    ApplyFunc[T]

	decodePool   *StageWorkerPool[T]
	validatePool *StageWorkerPool[T]
	applyStage   *ApplyStage[T]
	applyRunner  *ApplyStageRunner[T]

	submitChan    chan *TxItem[T]
	decodedChan   chan *TxItem[T]
	validatedChan chan *TxItem[T]
	resultsChan   chan *TxItem[T]
	errorsChan    chan error

	metrics *Metrics

	sequenceCounter atomic.Uint64
	ctx             context.Context
	cancel          context.CancelFunc
	started         atomic.Bool
	stopped         atomic.Bool
	wg              sync.WaitGroup
	// mu protects Start and Stop
	mu sync.Mutex
	// submitMu keeps Stop from closing submitChan under an in-flight Submit
	submitMu sync.RWMutex
}

// New returns a pipeline built from the given functions. validate may be nil
// to skip validation, and apply may be nil to only decode and validate
func New[T any](
	decode DecodeFunc[T],
	validate ValidateFunc[T],
	apply ApplyFunc[T],
	opts ...Option,
) *TxPipeline[T] {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &TxPipeline[T]{
		config:   config,
		logger:   config.Logger.With("component", "pipeline"),
		decode:   decode,
		validate: validate,
		apply:    apply,
		metrics:  NewMetrics(),
	}
}

func (p *TxPipeline[T]) validationEnabled() bool {
	return p.validate != nil && p.config.ValidateWorkers > 0
}

func (p *TxPipeline[T]) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped.Load() {
		return ErrPipelineStopped
	}
	if p.started.Load() {
		return nil
	}
	if p.decode == nil {
		return ErrMissingDecodeFunc
	}
	p.ctx, p.cancel = context.WithCancel(ctx)

	bufSize := p.config.BufferSize
	p.submitChan = make(chan *TxItem[T], bufSize)
	p.decodedChan = make(chan *TxItem[T], bufSize)
	p.resultsChan = make(chan *TxItem[T], bufSize)
	p.errorsChan = make(chan error, bufSize)

	p.decodePool = NewStageWorkerPool(StageWorkerPoolConfig[T]{
		Stage:         NewDecodeStage(p.decode),
		NumWorkers:    p.config.DecodeWorkers,
		Input:         p.submitChan,
		Output:        p.decodedChan,
		Errors:        p.errorsChan,
		RecordMetrics: DecodeMetricsRecorder[T](p.metrics),
	})

	var applyInput <-chan *TxItem[T] = p.decodedChan
	if p.validationEnabled() {
		p.validatedChan = make(chan *TxItem[T], bufSize)
		p.validatePool = NewStageWorkerPool(StageWorkerPoolConfig[T]{
			Stage:         NewValidateStage(p.validate),
			NumWorkers:    p.config.ValidateWorkers,
			Input:         p.decodedChan,
			Output:        p.validatedChan,
			Errors:        p.errorsChan,
			RecordMetrics: ValidateMetricsRecorder[T](p.metrics),
			ShouldRecord:  RecordIfDecoded[T],
		})
		applyInput = p.validatedChan
	}

	p.applyStage = NewApplyStage[T](p.apply, p.config.MaxPending)
	p.applyRunner = NewApplyStageRunner[T](
		p.applyStage,
		applyInput,
		p.resultsChan,
		p.errorsChan,
		p.metrics,
		p.logger,
	)

	p.decodePool.Start(p.ctx) //nolint:contextcheck
	if p.validatePool != nil {
		p.validatePool.Start(p.ctx) //nolint:contextcheck
	}
	p.applyRunner.Start(p.ctx) //nolint:contextcheck

	p.wg.Add(1)
	go p.metricsCollector()

	p.started.Store(true)
	p.logger.Debug(
		"pipeline started",
		"decode_workers", p.config.DecodeWorkers,
		"validate_workers", p.config.ValidateWorkers,
	)
	return nil
}

// Submit queues an encoded transaction. It blocks while the pipeline is full
// until ctx is done
func (p *TxPipeline[T]) Submit(ctx context.Context, rawCbor []byte) error {
	if !p.started.Load() {
		return ErrPipelineNotStarted
	}
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()
	if p.stopped.Load() {
		return ErrPipelineStopped
	}
	item := NewTxItem[T](rawCbor, p.sequenceCounter.Add(1)-1)
	select {
	case p.submitChan <- item:
		p.metrics.RecordSubmit()
		return nil
	case <-ctx.Done():
		// The sequence number is lost, which stalls later applies. This only
		// happens when the caller is giving up on the pipeline
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPipelineStopped
	}
}

// Results delivers every processed item in submission order
func (p *TxPipeline[T]) Results() <-chan *TxItem[T] {
	if !p.started.Load() {
		ch := make(chan *TxItem[T])
		close(ch)
		return ch
	}
	return p.resultsChan
}

// Errors delivers decode, validation and apply errors as they happen
func (p *TxPipeline[T]) Errors() <-chan error {
	if !p.started.Load() {
		return newNotStartedErrorsChan()
	}
	return p.errorsChan
}

// Stop cancels the pipeline and waits for every goroutine to exit. Call
// WaitForDrain first to let in-flight items finish
func (p *TxPipeline[T]) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started.Load() || p.stopped.Load() {
		return nil
	}
	// Cancel first so that a Submit blocked on a full channel releases submitMu
	p.cancel()
	p.submitMu.Lock()
	p.stopped.Store(true)
	close(p.submitChan)
	p.submitMu.Unlock()

	p.decodePool.Stop()
	close(p.decodedChan)
	if p.validatePool != nil {
		p.validatePool.Stop()
		close(p.validatedChan)
	}
	p.applyRunner.Stop()
	close(p.resultsChan)
	close(p.errorsChan)
	p.wg.Wait()
	p.logger.Debug("pipeline stopped")
	return nil
}

func (p *TxPipeline[T]) Stats() Stats {
	return p.metrics.Stats()
}

// PendingCount returns the number of submitted items that have not yet left
// the apply stage
func (p *TxPipeline[T]) PendingCount() int {
	if !p.started.Load() {
		return 0
	}
	submitted := p.metrics.Stats().TxsSubmitted
	completed := p.applyRunner.Completed()
	if completed >= submitted {
		return 0
	}
	return int(submitted - completed) // #nosec G115
}

// WaitForDrain blocks until every submitted item has been processed or ctx is done
func (p *TxPipeline[T]) WaitForDrain(ctx context.Context) error {
	if !p.started.Load() {
		return ErrPipelineNotStarted
	}
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		if p.PendingCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *TxPipeline[T]) metricsCollector() {
	defer p.wg.Done()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			depth := len(p.submitChan) + len(p.decodedChan) + len(p.validatedChan)
			p.metrics.UpdateQueueDepth(depth)
		}
	}
}

// DrainResults reads every result that is available without blocking
func (p *TxPipeline[T]) DrainResults() []*TxItem[T] {
	var results []*TxItem[T]
	for {
		select {
		case item, ok := <-p.resultsChan:
			if !ok {
				return results
			}
			results = append(results, item)
		default:
			return results
		}
	}
}

// DrainErrors reads every error that is available without blocking
func (p *TxPipeline[T]) DrainErrors() []error {
	var errs []error
	for {
		select {
		case err, ok := <-p.errorsChan:
			if !ok {
				return errs
			}
			errs = append(errs, err)
		default:
			return errs
		}
	}
}
