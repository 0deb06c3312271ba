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
package vm

import (
	"encoding/json"
	"fmt"

	"github.com/consensys/avm-witgen/pkg/witgen/alu"
	"github.com/consensys/avm-witgen/pkg/witgen/memory"
	"github.com/consensys/avm-witgen/pkg/witgen/value"
)

// Instruction represents a single ALU instruction of the form "c := a op b",
// where a, b and c are memory addresses.
type Instruction struct {
	Opcode alu.Opcode
	AddrA  uint32
	AddrB  uint32
	AddrC  uint32
}

func (p Instruction) String() string {
	return fmt.Sprintf("%s %d, %d, %d", p.Opcode, p.AddrA, p.AddrB, p.AddrC)
}

// Program is a straight-line sequence of instructions, along with the initial
// contents of memory.
type Program struct {
	Memory []memory.Cell
	Code   []Instruction
}

type jsonCell struct {
	Address uint32 `json:"address"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
}

type jsonInstruction struct {
	Op string `json:"op"`
	A  uint32 `json:"a"`
	B  uint32 `json:"b"`
	C  uint32 `json:"c"`
}

type jsonProgram struct {
	Memory []jsonCell        `json:"memory"`
	Code   []jsonInstruction `json:"code"`
}

// ParseProgram parses a program from its JSON representation.  For example:
//
//	{ "memory": [ {"address": 0, "tag": "u8", "value": "3"} ],
//	  "code": [ {"op": "add", "a": 0, "b": 1, "c": 2} ] }
//
// Cell values are decimal, or hexadecimal with a "0x" prefix.
func ParseProgram(bytes []byte) (Program, error) {
	var (
		raw     jsonProgram
		program Program
	)
	// Unmarshall data
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return program, err
	}
	// Initialise memory
	for _, c := range raw.Memory {
		tag, err := value.ParseTag(c.Tag)
		if err != nil {
			return program, fmt.Errorf("cell %d: %w", c.Address, err)
		}
		//
		val, err := value.Parse(tag, c.Value)
		if err != nil {
			return program, fmt.Errorf("cell %d: %w", c.Address, err)
		}
		//
		program.Memory = append(program.Memory, memory.Cell{Address: c.Address, Value: val})
	}
	// Decode instructions
	for pc, insn := range raw.Code {
		op, err := alu.ParseOpcode(insn.Op)
		if err != nil {
			return program, fmt.Errorf("instruction %d: %w", pc, err)
		}
		//
		program.Code = append(program.Code, Instruction{op, insn.A, insn.B, insn.C})
	}
	// Done
	return program, nil
}
