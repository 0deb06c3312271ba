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
	"fmt"

	"github.com/consensys/avm-witgen/pkg/witgen/alu"
	"github.com/consensys/avm-witgen/pkg/witgen/memory"
	"github.com/consensys/avm-witgen/pkg/witgen/rangecheck"
	log "github.com/sirupsen/logrus"
)

// Machine executes a program one instruction per clock cycle, producing the
// memory and ALU event logs from which the witness is constructed.  Each
// machine exclusively owns its memory, range table and ALU, hence distinct
// machines can safely execute in parallel.
type Machine struct {
	program Program
	ranges  *rangecheck.Table
	memory  *memory.Memory
	alu     *alu.Engine
	// Program counter
	pc uint
}

// New constructs a machine for a given program, where addresses are limited
// to the given bitwidth.  This fails if the initial contents of memory do not
// pass the range checks.
func New(program Program, addressBits uint) (*Machine, error) {
	var (
		ranges = rangecheck.NewTable(addressBits)
		mem    = memory.New("ram", ranges)
	)
	//
	for _, cell := range program.Memory {
		if err := mem.Init(cell.Address, cell.Value); err != nil {
			return nil, fmt.Errorf("initialising cell %d: %w", cell.Address, err)
		}
	}
	//
	return &Machine{program, ranges, mem, alu.NewEngine(mem), 0}, nil
}

// Execute the machine for (at most) the given number of steps, returning the
// actual number of steps executed and an error (if execution failed).  After
// a failure the program counter identifies the failing instruction, none of
// whose memory accesses are committed.
func (p *Machine) Execute(steps uint) (uint, error) {
	var nsteps uint
	//
	for ; nsteps < steps && !p.Terminated(); nsteps++ {
		if err := p.step(); err != nil {
			return nsteps, err
		}
	}
	//
	return nsteps, nil
}

// ExecuteAll executes a given machine to completion in chunks of n steps,
// returning the number of steps executed and/or any error arising.
func ExecuteAll(machine *Machine, n uint) (uint, error) {
	var nsteps uint
	//
	for {
		// Execute upto n steps
		m, err := machine.Execute(n)
		// update the tally
		nsteps += m
		// check for termination
		if err != nil || m < n {
			return nsteps, err
		}
	}
}

// Terminated checks whether every instruction has been executed.
func (p *Machine) Terminated() bool {
	return p.pc >= uint(len(p.program.Code))
}

// PC returns the current program counter.
func (p *Machine) PC() uint {
	return p.pc
}

// Program returns the program being executed by this machine.
func (p *Machine) Program() Program {
	return p.program
}

// Memory returns the memory of this machine.
func (p *Machine) Memory() *memory.Memory {
	return p.memory
}

// ALU returns the ALU of this machine.
func (p *Machine) ALU() *alu.Engine {
	return p.alu
}

// Ranges returns the range table of this machine.
func (p *Machine) Ranges() *rangecheck.Table {
	return p.ranges
}

// Execute the instruction at the current program counter within its own clock
// cycle.
func (p *Machine) step() error {
	insn := p.program.Code[p.pc]
	//
	log.Debugf("%d: %s", p.pc, insn)
	//
	if err := p.alu.Execute(insn.Opcode, insn.AddrA, insn.AddrB, insn.AddrC); err != nil {
		return fmt.Errorf("pc %d (%s): %w", p.pc, insn, err)
	}
	//
	if event, _ := p.alu.Last(); event.Error {
		log.Warnf("%d: %s flagged as erroneous", p.pc, event)
	}
	//
	p.memory.AdvanceCycle()
	p.pc++
	//
	return nil
}
