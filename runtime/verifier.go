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

package runtime

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
	"github.com/blinklabs-io/utxokit/ledger/verifier"
)

const (
	VerifierTypeUpForGrabs              = 0
	VerifierTypeUnspendable             = 1
	VerifierTypeSigCheck                = 2
	VerifierTypeThresholdMultiSignature = 3
	VerifierTypeP2PKH                   = 4
	VerifierTypeTimeLock                = 5
	VerifierTypeBlakeTwoHashLock        = 6
	VerifierTypeHashTimeLock            = 7
	VerifierTypeTest                    = 8
)

var ErrUnknownVerifier = errors.New("unknown verifier")

// OuterVerifier is the closed set of verifiers this runtime accepts. It
// encodes as [type, verifier]
type OuterVerifier struct {
	Type     uint
	Verifier common.Verifier
}

// NewOuterVerifier wraps one of the verifiers from the verifier package. It
// panics if v is not one of them
func NewOuterVerifier(v common.Verifier) OuterVerifier {
	verifierType, err := outerVerifierType(v)
	if err != nil {
		panic(err.Error())
	}
	return OuterVerifier{
		Type:     verifierType,
		Verifier: v,
	}
}

func outerVerifierType(v common.Verifier) (uint, error) {
	switch v.(type) {
	case verifier.UpForGrabs:
		return VerifierTypeUpForGrabs, nil
	case verifier.Unspendable:
		return VerifierTypeUnspendable, nil
	case verifier.SigCheck:
		return VerifierTypeSigCheck, nil
	case verifier.ThresholdMultiSignature:
		return VerifierTypeThresholdMultiSignature, nil
	case verifier.P2PKH:
		return VerifierTypeP2PKH, nil
	case verifier.TimeLock:
		return VerifierTypeTimeLock, nil
	case verifier.BlakeTwoHashLock:
		return VerifierTypeBlakeTwoHashLock, nil
	case verifier.HashTimeLock:
		return VerifierTypeHashTimeLock, nil
	case verifier.TestVerifier:
		return VerifierTypeTest, nil
	}
	return 0, fmt.Errorf("%w: %T", ErrUnknownVerifier, v)
}

func (v OuterVerifier) Verify(
	proofContext []byte,
	env common.Environment,
	proof []byte,
) bool {
	if v.Verifier == nil {
		return false
	}
	return v.Verifier.Verify(proofContext, env, proof)
}

func (v OuterVerifier) MarshalCBOR() ([]byte, error) {
	verifierType, err := outerVerifierType(v.Verifier)
	if err != nil {
		return nil, err
	}
	return cbor.EncodeVariant(verifierType, v.Verifier)
}

func (v *OuterVerifier) UnmarshalCBOR(data []byte) error {
	verifierType, err := cbor.DecodeIdFromList(data)
	if err != nil {
		return err
	}
	var tmpVerifier common.Verifier
	switch verifierType {
	case VerifierTypeUpForGrabs:
		tmpVerifier, err = decodeVariantPayload[verifier.UpForGrabs](data)
	case VerifierTypeUnspendable:
		tmpVerifier, err = decodeVariantPayload[verifier.Unspendable](data)
	case VerifierTypeSigCheck:
		tmpVerifier, err = decodeVariantPayload[verifier.SigCheck](data)
	case VerifierTypeThresholdMultiSignature:
		tmpVerifier, err = decodeVariantPayload[verifier.ThresholdMultiSignature](data)
	case VerifierTypeP2PKH:
		tmpVerifier, err = decodeVariantPayload[verifier.P2PKH](data)
	case VerifierTypeTimeLock:
		tmpVerifier, err = decodeVariantPayload[verifier.TimeLock](data)
	case VerifierTypeBlakeTwoHashLock:
		tmpVerifier, err = decodeVariantPayload[verifier.BlakeTwoHashLock](data)
	case VerifierTypeHashTimeLock:
		tmpVerifier, err = decodeVariantPayload[verifier.HashTimeLock](data)
	case VerifierTypeTest:
		tmpVerifier, err = decodeVariantPayload[verifier.TestVerifier](data)
	default:
		return fmt.Errorf("%w: type %d", ErrUnknownVerifier, verifierType)
	}
	if err != nil {
		return err
	}
	// verifierType is known within uint range
	v.Type = uint(verifierType) // #nosec G115
	v.Verifier = tmpVerifier
	return nil
}

// decodeVariantPayload decodes the payload of an [id, payload] list as a T
func decodeVariantPayload[T any](data []byte) (T, error) {
	var ret T
	tmpData := struct {
		cbor.StructAsArray
		Id      uint
		Payload cbor.RawMessage
	}{}
	if err := cbor.DecodeExact(data, &tmpData); err != nil {
		return ret, err
	}
	if err := cbor.DecodeExact(tmpData.Payload, &ret); err != nil {
		return ret, err
	}
	return ret, nil
}
