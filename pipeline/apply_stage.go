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

// ErrPendingLimitExceeded is returned when too many out-of-order items are
// buffered in the apply stage
var ErrPendingLimitExceeded = errors.New("pipeline: pending transaction limit exceeded")

// ApplyFunc commits a decoded transaction. It is called in sequence order from
// a single goroutine
type ApplyFunc[T any] func(tx T) error

// ApplyStage buffers items that arrive out of order and applies them in
// sequence order. Items rejected by an earlier stage consume their sequence
// number without being applied.
//
// ProcessWithStatus must be called from a single goroutine to keep applies
// ordered. ApplyStageRunner does this.
type ApplyStage[T any] struct {
	applyFunc  ApplyFunc[T]
	maxPending int
	mu         sync.Mutex
	// pending holds out-of-order items keyed by sequence number
	pending      map[uint64]*TxItem[T]
	nextSequence uint64
}

// NewApplyStage returns an apply stage. maxPending limits the number of
// buffered out-of-order items, 0 meaning no limit
func NewApplyStage[T any](applyFunc ApplyFunc[T], maxPending int) *ApplyStage[T] {
	return &ApplyStage[T]{
		applyFunc:  applyFunc,
		maxPending: maxPending,
		pending:    make(map[uint64]*TxItem[T]),
	}
}

func (s *ApplyStage[T]) Name() string {
	return "apply"
}

func (s *ApplyStage[T]) Process(ctx context.Context, item *TxItem[T]) error {
	_, err := s.ProcessWithStatus(ctx, item)
	return err
}

// ProcessWithStatus applies item if it is next in sequence, followed by any
// buffered items that are now in order, and returns everything it processed.
// An out-of-order item is buffered and nil is returned
func (s *ApplyStage[T]) ProcessWithStatus(
	ctx context.Context,
	item *TxItem[T],
) ([]*TxItem[T], error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	s.mu.Lock()
	if item.SequenceNumber() == s.nextSequence {
		s.nextSequence++
		s.mu.Unlock()
		if !item.rejected() {
			s.applyItem(ctx, item)
		}
		buffered := s.applyPending(ctx)
		processed := make([]*TxItem[T], 0, 1+len(buffered))
		processed = append(processed, item)
		processed = append(processed, buffered...)
		return processed, nil
	}
	// Buffered even when over the limit so that no sequence number is lost
	s.pending[item.SequenceNumber()] = item
	pendingCount := len(s.pending)
	s.mu.Unlock()
	if s.maxPending > 0 && pendingCount > s.maxPending {
		return nil, ErrPendingLimitExceeded
	}
	return nil, nil
}

func (s *ApplyStage[T]) applyItem(ctx context.Context, item *TxItem[T]) {
	select {
	case <-ctx.Done():
		item.SetApplied(false, ctx.Err(), 0)
		return
	default:
	}
	tx, _ := item.Tx()
	start := time.Now()
	var err error
	if s.applyFunc != nil {
		err = s.applyFunc(tx)
	}
	item.SetApplied(err == nil, err, time.Since(start))
}

// applyPending applies buffered items for as long as the next one is present.
// The lock is not held while applyFunc runs
func (s *ApplyStage[T]) applyPending(ctx context.Context) []*TxItem[T] {
	var processed []*TxItem[T]
	for {
		select {
		case <-ctx.Done():
			return processed
		default:
		}
		s.mu.Lock()
		item, ok := s.pending[s.nextSequence]
		if !ok {
			s.mu.Unlock()
			return processed
		}
		delete(s.pending, s.nextSequence)
		s.nextSequence++
		s.mu.Unlock()
		if !item.rejected() {
			s.applyItem(ctx, item)
		}
		processed = append(processed, item)
	}
}

func (s *ApplyStage[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = make(map[uint64]*TxItem[T])
	s.nextSequence = 0
}

// PendingCount returns the number of buffered out-of-order items
func (s *ApplyStage[T]) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// ApplyStageRunner drives an ApplyStage from a single goroutine
type ApplyStageRunner[T any] struct {
	stage   *ApplyStage[T]
	input   <-chan *TxItem[T]
	output  chan<- *TxItem[T]
	errors  chan<- error
	metrics *Metrics
	logger  *slog.Logger
	// completed counts items forwarded to the output
	completed atomic.Uint64
	done      chan struct{}
	running   bool
	mu        sync.Mutex
}

func NewApplyStageRunner[T any](
	stage *ApplyStage[T],
	input <-chan *TxItem[T],
	output chan<- *TxItem[T],
	errors chan<- error,
	metrics *Metrics,
	logger *slog.Logger,
) *ApplyStageRunner[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplyStageRunner[T]{
		stage:   stage,
		input:   input,
		output:  output,
		errors:  errors,
		metrics: metrics,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

func (r *ApplyStageRunner[T]) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.done = make(chan struct{})
	r.mu.Unlock()
	go r.run(ctx)
}

// Stop waits for the runner to exit. It does not signal the runner; the
// runner exits when its input is closed or its context is cancelled
func (r *ApplyStageRunner[T]) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	done := r.done
	r.mu.Unlock()
	<-done
}

// Completed returns the number of items that have left the apply stage
func (r *ApplyStageRunner[T]) Completed() uint64 {
	return r.completed.Load()
}

func (r *ApplyStageRunner[T]) run(ctx context.Context) {
	defer func() {
		r.mu.Lock()
		r.running = false
		close(r.done)
		r.mu.Unlock()
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-r.input:
			if !ok {
				return
			}
			processed, err := r.stage.ProcessWithStatus(ctx, item)
			if err != nil {
				select {
				case r.errors <- err:
				case <-ctx.Done():
					return
				}
				continue
			}
			for _, p := range processed {
				r.forwardItem(ctx, p)
			}
		}
	}
}

// forwardItem sends a processed item to the output and reports its apply error
func (r *ApplyStageRunner[T]) forwardItem(ctx context.Context, item *TxItem[T]) {
	if !item.rejected() {
		applyErr := item.ApplyError()
		if r.metrics != nil {
			r.metrics.RecordApply(applyErr)
		}
		if applyErr != nil {
			r.logger.Debug(
				"transaction not applied",
				"sequence", item.SequenceNumber(),
				"error", applyErr,
			)
		}
	}
	r.completed.Add(1)
	select {
	case r.output <- item:
	case <-ctx.Done():
		return
	}
	if applyErr := item.ApplyError(); applyErr != nil {
		select {
		case r.errors <- applyErr:
		case <-ctx.Done():
			return
		}
	}
}
