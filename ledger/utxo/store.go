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
	"maps"
	"sync"
)

// KeyValueStore is the persistence backend for a UTXO set. Get returns nil
// and no error when the key is absent. Write must apply every operation in
// the batch or none of them
type KeyValueStore interface {
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) error
	Delete(key []byte) error
	Write(batch *Batch) error
}

// BatchOp is a single put or delete staged in a Batch
type BatchOp struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Batch is an ordered list of writes that a KeyValueStore applies atomically
type Batch struct {
	ops []BatchOp
}

func NewBatch() *Batch {
	return &Batch{}
}

func (b *Batch) Set(key []byte, value []byte) {
	b.ops = append(
		b.ops,
		BatchOp{
			Key:   append([]byte(nil), key...),
			Value: cloneValue(value),
		},
	)
}

func (b *Batch) Delete(key []byte) {
	b.ops = append(
		b.ops,
		BatchOp{
			Key:    append([]byte(nil), key...),
			Delete: true,
		},
	)
}

// Ops returns the staged operations in the order they were added
func (b *Batch) Ops() []BatchOp {
	return b.ops
}

func (b *Batch) Len() int {
	return len(b.ops)
}

// cloneValue copies value into a non-nil slice, so that a stored empty value
// is never mistaken for an absent key
func cloneValue(value []byte) []byte {
	ret := make([]byte, len(value))
	copy(ret, value)
	return ret
}

// MemoryStore is a KeyValueStore backed by a map
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

func (m *MemoryStore) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[string(key)]
	if !ok {
		return nil, nil
	}
	return cloneValue(val), nil
}

func (m *MemoryStore) Set(key []byte, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[string(key)] = cloneValue(value)
	return nil
}

func (m *MemoryStore) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(key))
	return nil
}

func (m *MemoryStore) Write(batch *Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range batch.Ops() {
		if op.Delete {
			delete(m.data, string(op.Key))
			continue
		}
		m.data[string(op.Key)] = op.Value
	}
	return nil
}

// Len returns the number of stored entries
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Snapshot returns an independent copy of the store. Writes to either copy
// are not visible in the other
func (m *MemoryStore) Snapshot() *MemoryStore {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &MemoryStore{
		data: maps.Clone(m.data),
	}
}
