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

package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateInput     = errors.New("duplicate input")
	ErrDuplicateOutput    = errors.New("duplicate output")
	ErrPreExistingOutput  = errors.New("pre-existing output")
	ErrRedeemer           = errors.New("redeemer check failed")
	ErrMissingInput       = errors.New("missing input")
	ErrConstraintChecker  = errors.New("constraint checker failed")
	ErrWrongType          = errors.New("wrong type")
	ErrDecodingFailed     = errors.New("decoding failed")
	ErrTypeIdCollision    = errors.New("type id collision")
	ErrAccumulatorFailure = errors.New("accumulator failed")
)

// DuplicateInputError indicates that two inputs reference the same output
type DuplicateInputError struct {
	OutputRef OutputRef
}

func (e DuplicateInputError) Error() string {
	return fmt.Sprintf("duplicate input: %s", e.OutputRef.String())
}

func (DuplicateInputError) Is(target error) bool {
	return target == ErrDuplicateInput
}

// DuplicateOutputError indicates that two outputs have identical encodings
type DuplicateOutputError struct {
	Index int
}

func (e DuplicateOutputError) Error() string {
	return fmt.Sprintf("duplicate output at index %d", e.Index)
}

func (DuplicateOutputError) Is(target error) bool {
	return target == ErrDuplicateOutput
}

// PreExistingOutputError indicates that an output would overwrite one already in the store
type PreExistingOutputError struct {
	OutputRef OutputRef
}

func (e PreExistingOutputError) Error() string {
	return fmt.Sprintf("output already exists: %s", e.OutputRef.String())
}

func (PreExistingOutputError) Is(target error) bool {
	return target == ErrPreExistingOutput
}

// RedeemerError indicates that the witness of a present input did not satisfy its verifier
type RedeemerError struct {
	OutputRef OutputRef
}

func (e RedeemerError) Error() string {
	return fmt.Sprintf("redeemer check failed for input %s", e.OutputRef.String())
}

func (RedeemerError) Is(target error) bool {
	return target == ErrRedeemer
}

// MissingInputError indicates that a transaction could not be applied because
// some of its inputs are not in the store
type MissingInputError struct {
	OutputRefs []OutputRef
}

func (e MissingInputError) Error() string {
	refs := make([]string, 0, len(e.OutputRefs))
	for _, ref := range e.OutputRefs {
		refs = append(refs, ref.String())
	}
	return "missing input(s): " + strings.Join(refs, ", ")
}

func (MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

// ConstraintCheckerError wraps the error returned by a transaction's constraint checker
type ConstraintCheckerError struct {
	Err error
}

func (e ConstraintCheckerError) Error() string {
	return fmt.Sprintf("constraint checker failed: %v", e.Err)
}

func (e ConstraintCheckerError) Unwrap() error { return e.Err }

func (ConstraintCheckerError) Is(target error) bool {
	return target == ErrConstraintChecker
}

type DynamicTypingErrorKind int

const (
	WrongType DynamicTypingErrorKind = iota
	DecodingFailed
)

// DynamicTypingError is returned when a payload cannot be extracted as the requested type
type DynamicTypingError struct {
	Kind     DynamicTypingErrorKind
	Expected TypeId
	Actual   TypeId
	Err      error
}

func (e DynamicTypingError) Error() string {
	if e.Kind == WrongType {
		return fmt.Sprintf(
			"wrong type: expected type id %s, got %s",
			e.Expected.String(),
			e.Actual.String(),
		)
	}
	return fmt.Sprintf(
		"failed to decode data with type id %s: %v",
		e.Actual.String(),
		e.Err,
	)
}

func (e DynamicTypingError) Unwrap() error { return e.Err }

func (e DynamicTypingError) Is(target error) bool {
	switch e.Kind {
	case WrongType:
		return target == ErrWrongType
	case DecodingFailed:
		return target == ErrDecodingFailed
	}
	return false
}

// TypeIdCollisionError indicates that two different types claim the same TypeId
type TypeIdCollisionError struct {
	TypeId   TypeId
	Existing string
	New      string
}

func (e TypeIdCollisionError) Error() string {
	return fmt.Sprintf(
		"type id %s registered by %s is also claimed by %s",
		e.TypeId.String(),
		e.Existing,
		e.New,
	)
}

func (TypeIdCollisionError) Is(target error) bool {
	return target == ErrTypeIdCollision
}

// AccumulatorError wraps a failure to fold a checker's accumulator value
type AccumulatorError struct {
	Key string
	Err error
}

func (e AccumulatorError) Error() string {
	return fmt.Sprintf("accumulator %q failed: %v", e.Key, e.Err)
}

func (e AccumulatorError) Unwrap() error { return e.Err }

func (AccumulatorError) Is(target error) bool {
	return target == ErrAccumulatorFailure
}
