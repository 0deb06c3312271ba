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
	"github.com/consensys/avm-witgen/pkg/witgen/value"
)

// Label identifies one of the operand columns of the ALU.
type Label uint8

const (
	// A is the first source operand.
	A Label = iota
	// B is the second source operand.
	B
	// C is the target operand.
	C
)

// Memory channel of each column.  This binding is fixed for all opcodes, such
// that all accesses on a given channel correspond with the same column.
var channels = [...]uint8{A: 0, B: 1, C: 2}

// Channel returns the memory channel bound to this column.
func (l Label) Channel() uint8 {
	return channels[l]
}

func (l Label) String() string {
	return [...]string{"A", "B", "C"}[l]
}

// Column is an operand slot holding a tagged value.  Columns are created afresh
// for each instruction, and hold U0(0) until populated.
type Column struct {
	label Label
	value value.Value
}

// NewColumn constructs an empty column with the given label.
func NewColumn(label Label) Column {
	return Column{label: label}
}

// Label returns the label of this column.
func (p *Column) Label() Label {
	return p.label
}

// Channel returns the memory channel bound to this column.
func (p *Column) Channel() uint8 {
	return p.label.Channel()
}

// Value returns the value currently held in this column.
func (p *Column) Value() value.Value {
	return p.value
}

// Set the value held in this column.
func (p *Column) Set(v value.Value) {
	p.value = v
}
