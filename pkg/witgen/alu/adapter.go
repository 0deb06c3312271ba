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
	"github.com/consensys/avm-witgen/pkg/witgen/memory"
)

// Adapter mediates all memory accesses made on behalf of the ALU's columns,
// such that every access is made through the channel bound to the column
// concerned.
type Adapter struct {
	memory *memory.Memory
}

// NewAdapter constructs an adapter for a given memory.
func NewAdapter(mem *memory.Memory) Adapter {
	return Adapter{mem}
}

// Read the cell at a given address into a given column.
func (p Adapter) Read(address uint32, column *Column) error {
	val, err := p.memory.Read(address, column.Channel())
	//
	if err == nil {
		column.Set(val)
	}
	//
	return err
}

// Write the value held in a given column into the cell at a given address.
func (p Adapter) Write(address uint32, column *Column) error {
	return p.memory.Write(address, column.Channel(), column.Value())
}

// Clock returns the clock cycle of the underlying memory.
func (p Adapter) Clock() uint64 {
	return p.memory.Clock()
}

// Mark returns the current position in the staged event log of the underlying
// memory.
func (p Adapter) Mark() memory.Mark {
	return p.memory.Mark()
}

// Rollback discards all accesses made since a given mark.
func (p Adapter) Rollback(mark memory.Mark) {
	p.memory.Rollback(mark)
}
