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

package utxo

import (
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
)

// Entry pairs an output with the ref it is stored at
type Entry[V any] struct {
	Ref    common.OutputRef
	Output common.Output[V]
}

// Set maps output refs to outputs on top of a KeyValueStore
type Set[V any] struct {
	store  KeyValueStore
	logger *slog.Logger
}

func NewSet[V any](store KeyValueStore, logger *slog.Logger) *Set[V] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Set[V]{
		store:  store,
		logger: logger.With("component", "utxo"),
	}
}

// Backend returns the underlying KeyValueStore
func (s *Set[V]) Backend() KeyValueStore {
	return s.store
}

// Peek returns the output at ref without removing it, or nil if there is none
func (s *Set[V]) Peek(ref common.OutputRef) (*common.Output[V], error) {
	data, err := s.store.Get(ref.Key())
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", ref.String(), err)
	}
	if data == nil {
		return nil, nil
	}
	var ret common.Output[V]
	if err := cbor.DecodeExact(data, &ret); err != nil {
		return nil, fmt.Errorf("decode output %s: %w", ref.String(), err)
	}
	return &ret, nil
}

// Contains reports whether an output exists at ref
func (s *Set[V]) Contains(ref common.OutputRef) (bool, error) {
	data, err := s.store.Get(ref.Key())
	if err != nil {
		return false, fmt.Errorf("get %s: %w", ref.String(), err)
	}
	return data != nil, nil
}

// Consume removes and returns the output at ref, or returns nil if there is none
func (s *Set[V]) Consume(ref common.OutputRef) (*common.Output[V], error) {
	ret, err := s.Peek(ref)
	if err != nil || ret == nil {
		return ret, err
	}
	if err := s.store.Delete(ref.Key()); err != nil {
		return nil, fmt.Errorf("delete %s: %w", ref.String(), err)
	}
	s.logger.Debug("consumed utxo", "output_ref", ref.String())
	return ret, nil
}

// Store writes output at ref. The caller must make sure that ref is not already in use
func (s *Set[V]) Store(ref common.OutputRef, output common.Output[V]) error {
	data, err := cbor.Encode(output)
	if err != nil {
		return fmt.Errorf("encode output %s: %w", ref.String(), err)
	}
	if err := s.store.Set(ref.Key(), data); err != nil {
		return fmt.Errorf("set %s: %w", ref.String(), err)
	}
	s.logger.Debug("stored utxo", "output_ref", ref.String())
	return nil
}

// Commit removes every consumed ref and stores every created entry in a single
// atomic write. Nothing is written if any output fails to encode
func (s *Set[V]) Commit(consumed []common.OutputRef, created []Entry[V]) error {
	batch := NewBatch()
	for _, ref := range consumed {
		batch.Delete(ref.Key())
	}
	for _, entry := range created {
		data, err := cbor.Encode(entry.Output)
		if err != nil {
			return fmt.Errorf("encode output %s: %w", entry.Ref.String(), err)
		}
		batch.Set(entry.Ref.Key(), data)
	}
	if err := s.store.Write(batch); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	for _, ref := range consumed {
		s.logger.Debug("consumed utxo", "output_ref", ref.String())
	}
	for _, entry := range created {
		s.logger.Debug("stored utxo", "output_ref", entry.Ref.String())
	}
	return nil
}
