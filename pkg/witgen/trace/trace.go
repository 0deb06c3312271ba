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
	"github.com/consensys/avm-witgen/pkg/witgen/alu"
	"github.com/consensys/avm-witgen/pkg/witgen/memory"
	"github.com/consensys/avm-witgen/pkg/witgen/value"
	"github.com/holiman/uint256"
)

// MEMORY_MODULE is the name of the module holding the memory event table.
const MEMORY_MODULE = "mem"

// ALU_MODULE is the name of the module holding the ALU event table.
const ALU_MODULE = "alu"

// Bitwidth of columns holding tagged values (i.e. wide enough for any field
// element).
const valueBitWidth = 256

// Module is a named group of columns of equal height, corresponding to the
// event table of a single component.
type Module struct {
	Name    string
	Columns []Column
}

// Height returns the number of rows in this module.
func (p *Module) Height() uint {
	if len(p.Columns) == 0 {
		return 0
	}
	//
	return uint(len(p.Columns[0].Data))
}

// Column is a named sequence of unsigned integers of a given maximum
// bitwidth.
type Column struct {
	Name     string
	BitWidth uint
	Data     []uint256.Int
}

// QualifiedColumnName returns the fully qualified name of a given column in a
// given module.
func QualifiedColumnName(module string, column string) string {
	if module == "" {
		return column
	}
	//
	return module + "." + column
}

// NumberOfColumns returns the total number of columns in a set of modules.
func NumberOfColumns(modules []Module) uint {
	var n uint
	//
	for _, m := range modules {
		n += uint(len(m.Columns))
	}
	//
	return n
}

// Build constructs the memory and ALU event tables from their respective
// event logs.
func Build(aluEvents []alu.Event, memEvents []memory.Event) []Module {
	return []Module{MemoryModule(memEvents), AluModule(aluEvents)}
}

// MemoryModule constructs the memory event table, which has one row per
// memory event.
func MemoryModule(events []memory.Event) Module {
	var (
		clk     = newColumn("clk", 64, len(events))
		channel = newColumn("channel", 8, len(events))
		addr    = newColumn("addr", 32, len(events))
		tag     = newColumn("tag", 8, len(events))
		val     = newColumn("value", valueBitWidth, len(events))
		rw      = newColumn("rw", 1, len(events))
	)
	//
	for i, e := range events {
		clk.Data[i].SetUint64(e.Clk)
		channel.Data[i].SetUint64(uint64(e.Channel))
		addr.Data[i].SetUint64(uint64(e.Address))
		setValue(&tag, &val, i, e.Value)
		rw.Data[i].SetUint64(uint64(e.Op))
	}
	//
	return Module{MEMORY_MODULE, []Column{clk, channel, addr, tag, val, rw}}
}

// AluModule constructs the ALU event table, which has one row per executed
// instruction.
func AluModule(events []alu.Event) Module {
	var (
		n     = len(events)
		clk   = newColumn("clk", 64, n)
		op    = newColumn("op", 8, n)
		addrA = newColumn("addr_a", 32, n)
		addrB = newColumn("addr_b", 32, n)
		addrC = newColumn("addr_c", 32, n)
		tagA  = newColumn("tag_a", 8, n)
		a     = newColumn("a", valueBitWidth, n)
		tagB  = newColumn("tag_b", 8, n)
		b     = newColumn("b", valueBitWidth, n)
		tagC  = newColumn("tag_c", 8, n)
		c     = newColumn("c", valueBitWidth, n)
		fault = newColumn("err", 1, n)
	)
	//
	for i, e := range events {
		clk.Data[i].SetUint64(e.Clk)
		op.Data[i].SetUint64(uint64(e.Opcode))
		addrA.Data[i].SetUint64(uint64(e.AddrA))
		addrB.Data[i].SetUint64(uint64(e.AddrB))
		addrC.Data[i].SetUint64(uint64(e.AddrC))
		setValue(&tagA, &a, i, e.A)
		setValue(&tagB, &b, i, e.B)
		setValue(&tagC, &c, i, e.C)
		//
		if e.Error {
			fault.Data[i].SetOne()
		}
	}
	//
	return Module{ALU_MODULE, []Column{clk, op, addrA, addrB, addrC, tagA, a, tagB, b, tagC, c, fault}}
}

func newColumn(name string, bitwidth uint, height int) Column {
	return Column{name, bitwidth, make([]uint256.Int, height)}
}

func setValue(tag *Column, val *Column, row int, v value.Value) {
	tag.Data[row].SetUint64(uint64(v.Tag()))
	val.Data[row] = v.Bits()
}
