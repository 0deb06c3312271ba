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
package memory

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/consensys/avm-witgen/pkg/witgen/rangecheck"
	"github.com/consensys/avm-witgen/pkg/witgen/value"
)

// ErrRangeViolation signals that an access was rejected by the range checker.
// In such case, the access has no effect on either the contents of memory or
// its event log.
var ErrRangeViolation = errors.New("range violation")

// Memory represents the random-access memory of a single machine execution.
// Initially, all cells hold U0(0) and, thus, reading a cell which has not yet
// been written returns U0(0).  Otherwise, a read returns the last value
// written.
//
// Every access is logged as an event.  Events for the clock cycle in progress
// are "staged", and become "committed" when the cycle is advanced.  This allows
// the memory footprint of a single instruction to be observed as a unit, and
// to be discarded entirely should the instruction fail.
type Memory struct {
	name    string
	checker rangecheck.Checker
	// Current clock cycle
	clk uint64
	// Contents of memory (excluding uninitialised cells)
	cells map[uint32]value.Value
	// Initial contents of memory
	initial map[uint32]value.Value
	// Events whose clock cycle has ended
	events []Event
	// Events for the current clock cycle
	staged []Event
	// Previous contents of cells written during the current clock cycle, in
	// order of writing.
	journal []undo
}

type undo struct {
	cell    Cell
	existed bool
}

// Mark identifies a position in the staged event log, such that all events
// staged after it (and any range checks made since) can be rolled back.
type Mark struct {
	staged uint
	checks uint
}

// New constructs an empty memory whose accesses are checked by the given range
// checker.
func New(name string, checker rangecheck.Checker) *Memory {
	return &Memory{
		name:    name,
		checker: checker,
		cells:   make(map[uint32]value.Value),
		initial: make(map[uint32]value.Value),
	}
}

// Name returns the name of this memory.
func (p *Memory) Name() string {
	return p.name
}

// Clock returns the current clock cycle.
func (p *Memory) Clock() uint64 {
	return p.clk
}

// Init assigns the initial value of a given cell.  This is not logged as an
// access, since the initial contents of memory form part of the input to an
// execution.  Nevertheless, address and value must pass the range checks.
func (p *Memory) Init(address uint32, val value.Value) error {
	if err := p.check(address, &val); err != nil {
		return err
	}
	//
	p.cells[address] = val
	p.initial[address] = val
	//
	return nil
}

// Load returns the current contents of a given cell without logging an access.
func (p *Memory) Load(address uint32) value.Value {
	// NOTE: missing cells map to the zero value, which is U0(0).
	return p.cells[address]
}

// Read the contents of a given cell through a given channel.  The access is
// staged in the event log for the current clock cycle.
func (p *Memory) Read(address uint32, channel uint8) (value.Value, error) {
	if err := p.check(address, nil); err != nil {
		return value.Value{}, err
	}
	//
	val := p.cells[address]
	p.staged = append(p.staged, Event{p.clk, channel, address, val, Read})
	//
	return val, nil
}

// Write a given value into a given cell through a given channel, overwriting
// its previous contents.  Both address and value are range checked beforehand
// and, if either check fails, memory is left unchanged.
func (p *Memory) Write(address uint32, channel uint8, val value.Value) error {
	if err := p.check(address, &val); err != nil {
		return err
	}
	//
	prev, existed := p.cells[address]
	//
	p.journal = append(p.journal, undo{Cell{address, prev}, existed})
	p.cells[address] = val
	p.staged = append(p.staged, Event{p.clk, channel, address, val, Write})
	//
	return nil
}

// Mark returns the current position in the staged event log.
func (p *Memory) Mark() Mark {
	var mark = Mark{staged: uint(len(p.staged))}
	//
	if journal, ok := p.checker.(rangecheck.Journal); ok {
		mark.checks = journal.Mark()
	}
	//
	return mark
}

// Rollback discards all events staged since a given mark, undoing any writes
// they made and retracting their range checks.  The mark must have been taken
// during the current clock cycle.
func (p *Memory) Rollback(mark Mark) {
	if mark.staged > uint(len(p.staged)) {
		panic(fmt.Sprintf("invalid rollback mark %d (%d events staged)", mark.staged, len(p.staged)))
	}
	//
	for i := len(p.staged) - 1; i >= int(mark.staged); i-- {
		if p.staged[i].Op == Write {
			var prev = p.journal[len(p.journal)-1]
			//
			p.journal = p.journal[:len(p.journal)-1]
			p.restore(prev)
		}
	}
	//
	p.staged = p.staged[:mark.staged]
	//
	if journal, ok := p.checker.(rangecheck.Journal); ok {
		journal.Rollback(mark.checks)
	}
}

// AdvanceCycle closes the current clock cycle.  All staged events (and their
// range checks) are committed, and the clock is incremented.
func (p *Memory) AdvanceCycle() {
	if journal, ok := p.checker.(rangecheck.Journal); ok {
		journal.Commit()
	}
	//
	p.events = append(p.events, p.staged...)
	p.staged = p.staged[:0]
	p.journal = p.journal[:0]
	p.clk++
}

// Staged returns the events of the current clock cycle, in order of occurrence.
func (p *Memory) Staged() []Event {
	return slices.Clone(p.staged)
}

// Events returns all committed events in order of occurrence.
func (p *Memory) Events() []Event {
	return slices.Clone(p.events)
}

// Contents returns all initialised cells of this memory, ordered by address.
func (p *Memory) Contents() []Cell {
	return toCells(p.cells)
}

// Initial returns the initial contents of this memory, ordered by address.
func (p *Memory) Initial() []Cell {
	return toCells(p.initial)
}

func (p *Memory) check(address uint32, val *value.Value) error {
	if err := p.checker.CheckAddressRange(address); err != nil {
		return fmt.Errorf("%w: %w", ErrRangeViolation, err)
	} else if val == nil {
		return nil
	} else if err := p.checker.CheckValueWidth(*val); err != nil {
		return fmt.Errorf("%w: %w", ErrRangeViolation, err)
	}
	//
	return nil
}

func (p *Memory) restore(prev undo) {
	if prev.existed {
		p.cells[prev.cell.Address] = prev.cell.Value
	} else {
		delete(p.cells, prev.cell.Address)
	}
}

func toCells(cells map[uint32]value.Value) []Cell {
	var (
		addresses = slices.Sorted(maps.Keys(cells))
		contents  = make([]Cell, len(addresses))
	)
	//
	for i, addr := range addresses {
		contents[i] = Cell{addr, cells[addr]}
	}
	//
	return contents
}
