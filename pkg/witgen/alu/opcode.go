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
package alu

import (
	"fmt"
	"strings"
)

// Opcode identifies an ALU operation.
type Opcode uint8

const (
	// ADD computes c = a + b.
	ADD Opcode = iota
	// SUB computes c = a - b.
	SUB
	// LT computes c = a < b.
	LT
	// LTE computes c = a <= b.
	LTE
	// EQ computes c = a == b.
	EQ
)

var opcodeNames = [...]string{"ADD", "SUB", "LT", "LTE", "EQ"}

// ParseOpcode converts an opcode mnemonic (e.g. "add") into an opcode.
func ParseOpcode(name string) (Opcode, error) {
	for i, n := range opcodeNames {
		if strings.EqualFold(n, name) {
			return Opcode(i), nil
		}
	}
	//
	return 0, fmt.Errorf("unknown opcode \"%s\"", name)
}

func (p Opcode) String() string {
	if int(p) < len(opcodeNames) {
		return opcodeNames[p]
	}
	//
	return fmt.Sprintf("op(%d)", uint8(p))
}
