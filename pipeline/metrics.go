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
	"sync/atomic"
	"time"

	"github.com/blinklabs-io/utxokit/ledger/executive"
)

// Metrics tracks pipeline counters. Counters are atomic and the rest is
// guarded by a mutex
type Metrics struct {
	txsSubmitted     atomic.Uint64
	txsDecoded       atomic.Uint64
	txsValidated     atomic.Uint64
	txsProvisional   atomic.Uint64
	txsApplied       atomic.Uint64
	decodeErrors     atomic.Uint64
	validationErrors atomic.Uint64
	applyErrors      atomic.Uint64

	mu                sync.RWMutex
	currentQueueDepth int
	peakQueueDepth    int
	lastApplyTime     time.Time
	startTime         time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

func (m *Metrics) RecordSubmit() {
	m.txsSubmitted.Add(1)
}

func (m *Metrics) RecordDecode(err error) {
	if err != nil {
		m.decodeErrors.Add(1)
		return
	}
	m.txsDecoded.Add(1)
}

func (m *Metrics) RecordValidate(valid *executive.ValidTransaction, err error) {
	switch {
	case err != nil:
		m.validationErrors.Add(1)
	case valid != nil && valid.Status() == executive.ProvisionallyValid:
		m.txsProvisional.Add(1)
	default:
		m.txsValidated.Add(1)
	}
}

func (m *Metrics) RecordApply(err error) {
	if err != nil {
		m.applyErrors.Add(1)
		return
	}
	m.txsApplied.Add(1)
	m.mu.Lock()
	m.lastApplyTime = time.Now()
	m.mu.Unlock()
}

func (m *Metrics) UpdateQueueDepth(depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentQueueDepth = depth
	if depth > m.peakQueueDepth {
		m.peakQueueDepth = depth
	}
}

// Stats returns a snapshot of the current metrics
func (m *Metrics) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		TxsSubmitted:      m.txsSubmitted.Load(),
		TxsDecoded:        m.txsDecoded.Load(),
		TxsValidated:      m.txsValidated.Load(),
		TxsProvisional:    m.txsProvisional.Load(),
		TxsApplied:        m.txsApplied.Load(),
		DecodeErrors:      m.decodeErrors.Load(),
		ValidationErrors:  m.validationErrors.Load(),
		ApplyErrors:       m.applyErrors.Load(),
		CurrentQueueDepth: m.currentQueueDepth,
		PeakQueueDepth:    m.peakQueueDepth,
		LastApplyTime:     m.lastApplyTime,
		StartTime:         m.startTime,
	}
}

func (m *Metrics) Reset() {
	m.txsSubmitted.Store(0)
	m.txsDecoded.Store(0)
	m.txsValidated.Store(0)
	m.txsProvisional.Store(0)
	m.txsApplied.Store(0)
	m.decodeErrors.Store(0)
	m.validationErrors.Store(0)
	m.applyErrors.Store(0)
	m.mu.Lock()
	m.currentQueueDepth = 0
	m.peakQueueDepth = 0
	m.lastApplyTime = time.Time{}
	m.startTime = time.Now()
	m.mu.Unlock()
}
