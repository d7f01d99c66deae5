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

package executive

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
	"github.com/blinklabs-io/utxokit/ledger/utxo"
	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"
)

type Status int

const (
	// ProvisionallyValid transactions passed every check that was possible, but
	// some inputs are not in the store yet
	ProvisionallyValid Status = iota
	// FullyValid transactions can be applied against the current store
	FullyValid
)

func (s Status) String() string {
	switch s {
	case ProvisionallyValid:
		return "ProvisionallyValid"
	case FullyValid:
		return "FullyValid"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ValidTransaction is the outcome of a successful validation
type ValidTransaction struct {
	Hash common.Blake2b256
	// Requires lists the inputs and peeks that are not in the store yet
	Requires []common.OutputRef
	// Provides lists the refs that the transaction's outputs will be stored at
	Provides []common.OutputRef
	Priority uint64
	// Success is the result of the constraint check. It is nil for provisionally valid transactions
	Success *common.CheckingSuccess
}

func (v *ValidTransaction) Status() Status {
	if len(v.Requires) > 0 {
		return ProvisionallyValid
	}
	return FullyValid
}

// BlockResult summarizes the transactions applied by ApplyBlock
type BlockResult struct {
	Height  uint32
	Applied int
	// Accumulators holds the folded accumulator value for each accumulator key seen in the block
	Accumulators map[string]uint256.Int
}

// ValidationResult is the outcome of validating one transaction in ValidateAll
type ValidationResult struct {
	Valid *ValidTransaction
	Err   error
}

// Executive validates transactions and applies them to a UTXO set. Validate
// may be called concurrently, while Apply and ApplyBlock are serialized
type Executive[V common.Verifier, C common.ConstraintChecker[V]] struct {
	mu     sync.RWMutex
	set    *utxo.Set[V]
	config Config
	logger *slog.Logger
}

func New[V common.Verifier, C common.ConstraintChecker[V]](
	set *utxo.Set[V],
	opts ...Option,
) *Executive[V, C] {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.HeightProvider == nil {
		config.HeightProvider = StaticHeightProvider(0)
	}
	if config.ValidateWorkers < 1 {
		config.ValidateWorkers = 1
	}
	return &Executive[V, C]{
		set:    set,
		config: config,
		logger: config.Logger.With("component", "executive"),
	}
}

// Set returns the UTXO set that the Executive operates on. Writes made
// directly through it do not take the Executive's lock and must not run
// concurrently with Apply or ApplyBlock. Use Seed to add outputs instead
func (e *Executive[V, C]) Set() *utxo.Set[V] {
	return e.set
}

// Seed stores outputs that no transaction created, such as genesis outputs,
// in one atomic write. It holds the same lock as Apply, and fails without
// writing anything if any of the refs is already in use
func (e *Executive[V, C]) Seed(entries []utxo.Entry[V]) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	seen := make(map[common.OutputRef]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.Ref]; ok {
			return common.PreExistingOutputError{OutputRef: entry.Ref}
		}
		seen[entry.Ref] = struct{}{}
		exists, err := e.set.Contains(entry.Ref)
		if err != nil {
			return err
		}
		if exists {
			return common.PreExistingOutputError{OutputRef: entry.Ref}
		}
	}
	if err := e.set.Commit(nil, entries); err != nil {
		return err
	}
	e.logger.Info("seeded outputs", "outputs", len(entries))
	return nil
}

func (e *Executive[V, C]) environment() common.Environment {
	return common.Environment{
		Height: e.config.HeightProvider(),
	}
}

// Validate checks a transaction against the current store without modifying it.
// A transaction whose inputs are not all present yet is returned as
// provisionally valid rather than rejected
func (e *Executive[V, C]) Validate(
	tx *common.Transaction[V, C],
) (*ValidTransaction, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.validate(tx, e.environment())
}

// ValidateAll validates every transaction concurrently against the current
// store. The returned error is only set if ctx is cancelled
func (e *Executive[V, C]) ValidateAll(
	ctx context.Context,
	txs []*common.Transaction[V, C],
) ([]ValidationResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	env := e.environment()
	results := make([]ValidationResult, len(txs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.ValidateWorkers)
	for idx, tx := range txs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			valid, err := e.validate(tx, env)
			results[idx] = ValidationResult{
				Valid: valid,
				Err:   err,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Executive[V, C]) validate(
	tx *common.Transaction[V, C],
	env common.Environment,
) (*ValidTransaction, error) {
	// No two inputs may spend the same output
	seenInputs := make(map[common.OutputRef]struct{}, len(tx.Inputs))
	for _, input := range tx.Inputs {
		if _, ok := seenInputs[input.OutputRef]; ok {
			return nil, common.DuplicateInputError{OutputRef: input.OutputRef}
		}
		seenInputs[input.OutputRef] = struct{}{}
	}

	// No two outputs may be identical
	seenOutputs := make(map[string]struct{}, len(tx.Outputs))
	for idx, output := range tx.Outputs {
		outputCbor, err := cbor.Encode(output)
		if err != nil {
			return nil, fmt.Errorf("encode output %d: %w", idx, err)
		}
		if _, ok := seenOutputs[string(outputCbor)]; ok {
			return nil, common.DuplicateOutputError{Index: idx}
		}
		seenOutputs[string(outputCbor)] = struct{}{}
	}

	// Verifiers sign over the transaction with its witnesses stripped, which
	// is also what the transaction hash is computed from
	proofContext, err := tx.ProofContext()
	if err != nil {
		return nil, fmt.Errorf("build proof context: %w", err)
	}
	txHash := common.Blake2b256Hash(proofContext)
	logger := e.logger.With("tx_hash", txHash.String())

	// Check the verifier of every present input, keeping track of missing ones
	var missing []common.OutputRef
	inputOutputs := make([]common.Output[V], 0, len(tx.Inputs))
	for _, input := range tx.Inputs {
		output, err := e.set.Peek(input.OutputRef)
		if err != nil {
			return nil, err
		}
		if output == nil {
			missing = append(missing, input.OutputRef)
			continue
		}
		if !output.Verifier.Verify(proofContext, env, input.Witness) {
			return nil, common.RedeemerError{OutputRef: input.OutputRef}
		}
		inputOutputs = append(inputOutputs, *output)
	}
	peekOutputs := make([]common.Output[V], 0, len(tx.Peeks))
	for _, peek := range tx.Peeks {
		output, err := e.set.Peek(peek.OutputRef)
		if err != nil {
			return nil, err
		}
		if output == nil {
			missing = append(missing, peek.OutputRef)
			continue
		}
		peekOutputs = append(peekOutputs, *output)
	}

	// Make sure no outputs already exist in the store
	provides := tx.OutputRefs(txHash)
	for _, ref := range provides {
		logger.Debug(
			"checking for pre-existing output",
			"output_ref", ref.String(),
		)
		exists, err := e.set.Contains(ref)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, common.PreExistingOutputError{OutputRef: ref}
		}
	}

	// The constraint checker can only run once every input is present
	if len(missing) > 0 {
		logger.Debug(
			"transaction is missing inputs",
			"missing", len(missing),
		)
		return &ValidTransaction{
			Hash:     txHash,
			Requires: missing,
			Provides: provides,
		}, nil
	}

	success, err := tx.Checker.Check(env, inputOutputs, peekOutputs, tx.Outputs)
	if err != nil {
		return nil, common.ConstraintCheckerError{Err: err}
	}
	return &ValidTransaction{
		Hash:     txHash,
		Provides: provides,
		Priority: success.Priority,
		Success:  &success,
	}, nil
}

// Apply fully re-validates a transaction and then consumes its inputs and
// stores its outputs in one atomic write
func (e *Executive[V, C]) Apply(tx *common.Transaction[V, C]) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.apply(tx, e.environment(), nil)
	return err
}

// ApplyBlock applies txs in order at the given height, folding the accumulator
// value reported by each transaction. The first failing transaction stops
// the block, and transactions after it are not applied
func (e *Executive[V, C]) ApplyBlock(
	height uint32,
	txs []*common.Transaction[V, C],
) (*BlockResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	env := common.Environment{Height: height}
	ret := &BlockResult{
		Height:       height,
		Accumulators: make(map[string]uint256.Int),
	}
	for idx, tx := range txs {
		if _, err := e.apply(tx, env, ret.Accumulators); err != nil {
			return ret, fmt.Errorf("apply transaction %d: %w", idx, err)
		}
		ret.Applied++
	}
	e.logger.Info(
		"applied block",
		"height", height,
		"transactions", ret.Applied,
	)
	return ret, nil
}

func (e *Executive[V, C]) apply(
	tx *common.Transaction[V, C],
	env common.Environment,
	accumulators map[string]uint256.Int,
) (*ValidTransaction, error) {
	valid, err := e.validate(tx, env)
	if err != nil {
		return nil, err
	}
	if valid.Status() != FullyValid {
		return nil, common.MissingInputError{OutputRefs: valid.Requires}
	}
	// Fold the accumulator before writing so a failure leaves the store untouched
	var accKey string
	var accValue uint256.Int
	if accumulators != nil && valid.Success.Accumulator != nil {
		accKey = valid.Success.Accumulator.Key()
		if accKey != "" {
			current, ok := accumulators[accKey]
			if !ok {
				current = valid.Success.Accumulator.Initial()
			}
			accValue, err = valid.Success.Accumulator.Accumulate(
				current,
				valid.Success.AccumulatorValue,
			)
			if err != nil {
				return nil, common.AccumulatorError{Key: accKey, Err: err}
			}
		}
	}
	consumed := make([]common.OutputRef, 0, len(tx.Inputs))
	for _, input := range tx.Inputs {
		consumed = append(consumed, input.OutputRef)
	}
	created := make([]utxo.Entry[V], 0, len(tx.Outputs))
	for idx, output := range tx.Outputs {
		created = append(
			created,
			utxo.Entry[V]{
				Ref:    valid.Provides[idx],
				Output: output,
			},
		)
	}
	if err := e.set.Commit(consumed, created); err != nil {
		return nil, err
	}
	if accKey != "" {
		accumulators[accKey] = accValue
	}
	e.logger.Debug(
		"applied transaction",
		"tx_hash", valid.Hash.String(),
		"consumed", len(consumed),
		"created", len(created),
	)
	return valid, nil
}
