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
	"encoding/hex"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/blinklabs-io/utxokit/cbor"
)

const TypeIdSize = 4

// TypeId is the 4-byte tag attached to every payload stored in an output
type TypeId [TypeIdSize]byte

func (t TypeId) String() string {
	return hex.EncodeToString(t[:])
}

// UtxoData is implemented by every type that can be stored as an output payload.
// TypeId must use a value receiver and return a constant
type UtxoData interface {
	TypeId() TypeId
}

// DynamicallyTypedData is an encoded payload tagged with the TypeId of the type it was encoded from
type DynamicallyTypedData struct {
	cbor.StructAsArray
	TypeId TypeId
	Data   []byte
}

// Wrap encodes v and tags it with its TypeId
func Wrap(v UtxoData) (DynamicallyTypedData, error) {
	data, err := cbor.Encode(v)
	if err != nil {
		return DynamicallyTypedData{}, fmt.Errorf("encode payload: %w", err)
	}
	return DynamicallyTypedData{
		TypeId: v.TypeId(),
		Data:   data,
	}, nil
}

// MustWrap is like Wrap but panics on error
func MustWrap(v UtxoData) DynamicallyTypedData {
	ret, err := Wrap(v)
	if err != nil {
		panic(err.Error())
	}
	return ret
}

// Extract decodes d as a T. The tag is compared before anything is decoded,
// and a matching tag alone is not enough: the data must also decode cleanly
func Extract[T UtxoData](d DynamicallyTypedData) (T, error) {
	var ret T
	expected := ret.TypeId()
	if d.TypeId != expected {
		return ret, &DynamicTypingError{
			Kind:     WrongType,
			Expected: expected,
			Actual:   d.TypeId,
		}
	}
	if err := cbor.DecodeExact(d.Data, &ret); err != nil {
		var zero T
		return zero, &DynamicTypingError{
			Kind:     DecodingFailed,
			Expected: expected,
			Actual:   d.TypeId,
			Err:      err,
		}
	}
	return ret, nil
}

// ExtractAll extracts every item in items as a T, stopping at the first failure
func ExtractAll[T UtxoData](items []DynamicallyTypedData) ([]T, error) {
	ret := make([]T, 0, len(items))
	for _, item := range items {
		tmp, err := Extract[T](item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, tmp)
	}
	return ret, nil
}

// TypeRegistry records which type claims each TypeId in a deployment
type TypeRegistry struct {
	mu         sync.Mutex
	types      map[TypeId]registeredType
	collisions []error
}

type registeredType struct {
	name string
	typ  reflect.Type
}

// DefaultTypeRegistry is populated by the init functions of packages that define payload types
var DefaultTypeRegistry = NewTypeRegistry()

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types: make(map[TypeId]registeredType),
	}
}

// Register claims the TypeId of v for name. Registering the same type again is a no-op,
// while a different type claiming an already registered tag is recorded as a collision
func (r *TypeRegistry) Register(name string, v UtxoData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	typeId := v.TypeId()
	typ := reflect.TypeOf(v)
	if existing, ok := r.types[typeId]; ok {
		if existing.typ == typ {
			return nil
		}
		err := &TypeIdCollisionError{
			TypeId:   typeId,
			Existing: existing.name,
			New:      name,
		}
		r.collisions = append(r.collisions, err)
		return err
	}
	r.types[typeId] = registeredType{
		name: name,
		typ:  typ,
	}
	return nil
}

// Lookup returns the name registered for a TypeId
func (r *TypeRegistry) Lookup(typeId TypeId) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret, ok := r.types[typeId]
	return ret.name, ok
}

// Names returns the registered type names in sorted order
func (r *TypeRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make([]string, 0, len(r.types))
	for _, t := range r.types {
		ret = append(ret, t.name)
	}
	sort.Strings(ret)
	return ret
}

// Validate returns every collision seen by Register, or nil if there were none
func (r *TypeRegistry) Validate() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Join(r.collisions...)
}
