// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package trace

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Digest computes a Keccak-256 commitment over the binary encoding of the
// column data of a given set of modules.  Two traces have the same digest
// exactly when they have the same columns, in the same order, holding the same
// data.
func Digest(modules []Module) ([32]byte, error) {
	var buffer bytes.Buffer
	//
	if err := WriteBytes(modules, &buffer); err != nil {
		return [32]byte{}, err
	}
	//
	return keccak(buffer.Bytes()), nil
}

// DigestTraceFile computes the commitment of a binary trace file, as given by
// Digest for the modules it was written from.  The file header is returned
// alongside, and an error is reported if the file is not a compatible trace
// file.
func DigestTraceFile(data []byte) (Header, [32]byte, error) {
	var (
		header Header
		buffer = bytes.NewBuffer(data)
	)
	//
	if !IsTraceFile(data) {
		return header, [32]byte{}, errors.New("not a binary trace file")
	} else if err := header.UnmarshalBinary(buffer); err != nil {
		return header, [32]byte{}, err
	} else if !header.IsCompatible() {
		return header, [32]byte{}, fmt.Errorf("incompatible trace file (v%d.%d)", header.MajorVersion,
			header.MinorVersion)
	}
	// Buffer now positioned at column data
	return header, keccak(buffer.Bytes()), nil
}

func keccak(data []byte) [32]byte {
	var (
		digest [32]byte
		hasher = sha3.NewLegacyKeccak256()
	)
	//
	hasher.Write(data)
	copy(digest[:], hasher.Sum(nil))
	//
	return digest
}
