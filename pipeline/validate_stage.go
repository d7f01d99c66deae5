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
	"time"

	"github.com/blinklabs-io/utxokit/ledger/executive"
)

// ValidateFunc checks a decoded transaction against the current state without
// modifying it
type ValidateFunc[T any] func(tx T) (*executive.ValidTransaction, error)

// ValidateStage validates decoded items concurrently. Provisionally valid
// items are not errors here; they are settled by the apply stage
type ValidateStage[T any] struct {
	validate ValidateFunc[T]
}

func NewValidateStage[T any](validate ValidateFunc[T]) *ValidateStage[T] {
	return &ValidateStage[T]{
		validate: validate,
	}
}

func (s *ValidateStage[T]) Name() string {
	return "validate"
}

func (s *ValidateStage[T]) Process(ctx context.Context, item *TxItem[T]) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	// The decode stage already reported the error
	tx, ok := item.Tx()
	if !ok {
		return nil
	}
	start := time.Now()
	valid, err := s.validate(tx)
	duration := time.Since(start)
	if err != nil {
		item.SetValidation(nil, err, duration)
		return err
	}
	item.SetValidation(valid, nil, duration)
	return nil
}
