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

// Package pipeline processes streams of encoded transactions. Decoding and
// validation run on worker pools, and transactions are applied strictly in
// submission order
package pipeline

import (
	"context"
	"time"
)

// Stage is one processing step of the pipeline
type Stage[T any] interface {
	// Name returns the name of the stage for logging and metrics
	Name() string
	// Process processes a single item, recording its outcome on the item
	Process(ctx context.Context, item *TxItem[T]) error
}

// StageFunc adapts an ordinary function to the Stage interface
type StageFunc[T any] struct {
	name string
	fn   func(ctx context.Context, item *TxItem[T]) error
}

func NewStageFunc[T any](
	name string,
	fn func(ctx context.Context, item *TxItem[T]) error,
) *StageFunc[T] {
	return &StageFunc[T]{
		name: name,
		fn:   fn,
	}
}

func (s *StageFunc[T]) Name() string {
	return s.name
}

func (s *StageFunc[T]) Process(ctx context.Context, item *TxItem[T]) error {
	return s.fn(ctx, item)
}

// Stats contains counters describing pipeline throughput
type Stats struct {
	TxsSubmitted uint64
	TxsDecoded   uint64
	// TxsValidated counts fully valid transactions. Provisionally valid ones
	// are counted in TxsProvisional instead
	TxsValidated     uint64
	TxsProvisional   uint64
	TxsApplied       uint64
	DecodeErrors     uint64
	ValidationErrors uint64
	ApplyErrors      uint64

	// CurrentQueueDepth is the number of items waiting between stages
	CurrentQueueDepth int
	PeakQueueDepth    int

	LastApplyTime time.Time
	StartTime     time.Time
}
