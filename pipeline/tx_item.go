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
	"sync"
	"time"

	"github.com/blinklabs-io/utxokit/ledger/executive"
)

// TxItem is a transaction as it moves through the pipeline. It is safe for
// concurrent use and records the outcome of every stage
type TxItem[T any] struct {
	// Set at construction and never modified
	rawCbor        []byte
	sequenceNumber uint64
	receivedAt     time.Time

	mu sync.RWMutex

	// Decode stage results
	tx             T
	decoded        bool
	decodeError    error
	decodeDuration time.Duration

	// Validate stage results
	valid            *executive.ValidTransaction
	validationError  error
	validateDuration time.Duration

	// Apply stage results
	applied       bool
	applyError    error
	applyDuration time.Duration
}

// NewTxItem returns an item for rawCbor. The bytes are copied, so the caller
// may reuse its buffer
func NewTxItem[T any](rawCbor []byte, seq uint64) *TxItem[T] {
	data := make([]byte, len(rawCbor))
	copy(data, rawCbor)
	return &TxItem[T]{
		rawCbor:        data,
		sequenceNumber: seq,
		receivedAt:     time.Now(),
	}
}

// RawCbor returns the encoded transaction. The returned slice must not be modified
func (i *TxItem[T]) RawCbor() []byte {
	return i.rawCbor
}

// SequenceNumber is the submission order. Items are applied in this order
func (i *TxItem[T]) SequenceNumber() uint64 {
	return i.sequenceNumber
}

func (i *TxItem[T]) ReceivedAt() time.Time {
	return i.receivedAt
}

// Tx returns the decoded transaction and whether decoding succeeded
func (i *TxItem[T]) Tx() (T, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.tx, i.decoded
}

func (i *TxItem[T]) SetTx(tx T, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.tx = tx
	i.decoded = true
	i.decodeError = nil
	i.decodeDuration = duration
}

func (i *TxItem[T]) SetDecodeError(err error, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	var zero T
	i.tx = zero
	i.decoded = false
	i.decodeError = err
	i.decodeDuration = duration
}

func (i *TxItem[T]) IsDecoded() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.decoded
}

func (i *TxItem[T]) DecodeError() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.decodeError
}

func (i *TxItem[T]) DecodeDuration() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.decodeDuration
}

// SetValidation records the validation outcome. valid is nil when err is set
func (i *TxItem[T]) SetValidation(
	valid *executive.ValidTransaction,
	err error,
	duration time.Duration,
) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.valid = valid
	i.validationError = err
	i.validateDuration = duration
}

// Valid returns the validation result, or nil if the item was not validated
// or was rejected
func (i *TxItem[T]) Valid() *executive.ValidTransaction {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.valid
}

// IsProvisional reports whether validation found inputs that were not in the
// store yet. Such items are still applied, since an earlier item in the
// pipeline may create those inputs
func (i *TxItem[T]) IsProvisional() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.valid != nil && i.valid.Status() == executive.ProvisionallyValid
}

func (i *TxItem[T]) ValidationError() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.validationError
}

func (i *TxItem[T]) ValidateDuration() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.validateDuration
}

func (i *TxItem[T]) SetApplied(applied bool, err error, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.applied = applied
	i.applyError = err
	i.applyDuration = duration
}

func (i *TxItem[T]) IsApplied() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.applied
}

func (i *TxItem[T]) ApplyError() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.applyError
}

func (i *TxItem[T]) ApplyDuration() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.applyDuration
}

// Err returns the first error recorded by any stage
func (i *TxItem[T]) Err() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	switch {
	case i.decodeError != nil:
		return i.decodeError
	case i.validationError != nil:
		return i.validationError
	}
	return i.applyError
}

// rejected reports whether an earlier stage failed, in which case the item is
// passed through the apply stage without being applied
func (i *TxItem[T]) rejected() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.decodeError != nil || i.validationError != nil
}

// TotalDuration is the time since the item was received
func (i *TxItem[T]) TotalDuration() time.Duration {
	return time.Since(i.receivedAt)
}
