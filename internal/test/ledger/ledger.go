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

package test_ledger

import (
	"github.com/blinklabs-io/utxokit/ledger/utxo"
)

// Compile-time check that MockStore implements KeyValueStore
var _ utxo.KeyValueStore = (*MockStore)(nil)

// MockStore is the canonical internal mock store used by tests. Tests should
// construct it with NewMockStore and set the *Func fields to inject failures.
// Any operation without an override goes to an in-memory store
type MockStore struct {
	*utxo.MemoryStore
	GetFunc    func([]byte) ([]byte, error)
	SetFunc    func([]byte, []byte) error
	DeleteFunc func([]byte) error
	WriteFunc  func(*utxo.Batch) error
	// Writes counts the batches that reached the in-memory store
	Writes int
}

func NewMockStore() *MockStore {
	return &MockStore{
		MemoryStore: utxo.NewMemoryStore(),
	}
}

func (m *MockStore) Get(key []byte) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(key)
	}
	return m.MemoryStore.Get(key)
}

func (m *MockStore) Set(key []byte, value []byte) error {
	if m.SetFunc != nil {
		return m.SetFunc(key, value)
	}
	return m.MemoryStore.Set(key, value)
}

func (m *MockStore) Delete(key []byte) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(key)
	}
	return m.MemoryStore.Delete(key)
}

func (m *MockStore) Write(batch *utxo.Batch) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(batch)
	}
	m.Writes++
	return m.MemoryStore.Write(batch)
}
