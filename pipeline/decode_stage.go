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
)

// DecodeFunc turns an encoded transaction into a T
type DecodeFunc[T any] func(rawCbor []byte) (T, error)

// DecodeStage decodes the raw bytes of each item
type DecodeStage[T any] struct {
	decode DecodeFunc[T]
}

func NewDecodeStage[T any](decode DecodeFunc[T]) *DecodeStage[T] {
	return &DecodeStage[T]{
		decode: decode,
	}
}

func (s *DecodeStage[T]) Name() string {
	return "decode"
}

func (s *DecodeStage[T]) Process(ctx context.Context, item *TxItem[T]) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	start := time.Now()
	tx, err := s.decode(item.RawCbor())
	duration := time.Since(start)
	if err != nil {
		item.SetDecodeError(err, duration)
		return err
	}
	item.SetTx(tx, duration)
	return nil
}
