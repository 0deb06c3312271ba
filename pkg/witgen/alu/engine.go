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
	"errors"
	"fmt"
	"slices"

	"github.com/consensys/avm-witgen/pkg/witgen/memory"
	"github.com/consensys/avm-witgen/pkg/witgen/value"
)

// ErrUnknownOpcode signals an attempt to execute an opcode which the ALU does
// not support.
var ErrUnknownOpcode = errors.New("unknown opcode")

// Event records the execution of a single ALU instruction.  For every event,
// the memory log contains (in order) a read of A on channel 0, a read of B on
// channel 1 and a write of C on channel 2, all in the same clock cycle and with
// matching addresses and values.  The error flag indicates the operation
// itself failed (e.g. due to overflow), in which case C holds a placeholder.
type Event struct {
	Clk    uint64
	Opcode Opcode
	AddrA  uint32
	AddrB  uint32
	AddrC  uint32
	A      value.Value
	B      value.Value
	C      value.Value
	Error  bool
}

func (p Event) String() string {
	var flag string
	//
	if p.Error {
		flag = " (error)"
	}
	//
	return fmt.Sprintf("%d: %s @%d=%s, @%d=%s -> @%d=%s%s", p.Clk, p.Opcode, p.AddrA, p.A, p.AddrB, p.B,
		p.AddrC, p.C, flag)
}

// Semantics of an ALU operation.  This always returns a well-defined result,
// along with an error when the operation itself failed.
type semantics func(a, b value.Value) (value.Value, error)

var operations = [...]semantics{
	ADD: add,
	SUB: sub,
	LT:  lessThan,
	LTE: lessThanOrEqual,
	EQ:  equal,
}

// Engine executes ALU instructions against a given memory, logging one event
// per instruction executed.
type Engine struct {
	memory Adapter
	events []Event
}

// NewEngine constructs an ALU engine operating on a given memory.
func NewEngine(mem *memory.Memory) *Engine {
	return &Engine{NewAdapter(mem), nil}
}

// Events returns the events logged so far, in order of execution.
func (p *Engine) Events() []Event {
	return slices.Clone(p.events)
}

// Last returns the most recently logged event, or false if there is none.
func (p *Engine) Last() (Event, bool) {
	if len(p.events) == 0 {
		return Event{}, false
	}
	//
	return p.events[len(p.events)-1], true
}

// Add executes c := a + b.
func (p *Engine) Add(addrA, addrB, addrC uint32) error {
	return p.Execute(ADD, addrA, addrB, addrC)
}

// Sub executes c := a - b.
func (p *Engine) Sub(addrA, addrB, addrC uint32) error {
	return p.Execute(SUB, addrA, addrB, addrC)
}

// Lt executes c := a < b.
func (p *Engine) Lt(addrA, addrB, addrC uint32) error {
	return p.Execute(LT, addrA, addrB, addrC)
}

// Lte executes c := a <= b.
func (p *Engine) Lte(addrA, addrB, addrC uint32) error {
	return p.Execute(LTE, addrA, addrB, addrC)
}

// Eq executes c := a == b.
func (p *Engine) Eq(addrA, addrB, addrC uint32) error {
	return p.Execute(EQ, addrA, addrB, addrC)
}

// Execute a given operation on the cells at addresses addrA and addrB, writing
// the result to the cell at addrC.  Failures of the operation itself (e.g.
// overflow) are recorded in the event's error flag, and do not prevent the
// instruction from completing.  In contrast, a failing memory access aborts
// the instruction: any accesses already made are rolled back, no event is
// logged, and the error is returned.
func (p *Engine) Execute(op Opcode, addrA, addrB, addrC uint32) error {
	var (
		a, b, c = NewColumn(A), NewColumn(B), NewColumn(C)
		mark    = p.memory.Mark()
	)
	//
	if int(op) >= len(operations) {
		return fmt.Errorf("%w: %s", ErrUnknownOpcode, op)
	}
	// Load operands
	if err := p.load(addrA, &a, addrB, &b); err != nil {
		p.memory.Rollback(mark)
		return fmt.Errorf("%s: %w", op, err)
	}
	// Compute result
	result, fault := operations[op](a.Value(), b.Value())
	c.Set(result)
	// Commit result
	if err := p.memory.Write(addrC, &c); err != nil {
		p.memory.Rollback(mark)
		return fmt.Errorf("%s: %w", op, err)
	}
	//
	p.events = append(p.events, Event{
		Clk:    p.memory.Clock(),
		Opcode: op,
		AddrA:  addrA,
		AddrB:  addrB,
		AddrC:  addrC,
		A:      a.Value(),
		B:      b.Value(),
		C:      c.Value(),
		Error:  fault != nil,
	})
	//
	return nil
}

func (p *Engine) load(addrA uint32, a *Column, addrB uint32, b *Column) error {
	if err := p.memory.Read(addrA, a); err != nil {
		return err
	}
	//
	return p.memory.Read(addrB, b)
}

func add(a, b value.Value) (value.Value, error) {
	c, err := value.Add(a, b)
	//
	if err != nil {
		return value.Zero(a.Tag()), err
	}
	//
	return c, nil
}

func sub(a, b value.Value) (value.Value, error) {
	c, err := value.Sub(a, b)
	//
	if err != nil {
		return value.Zero(a.Tag()), err
	}
	//
	return c, nil
}

func lessThan(a, b value.Value) (value.Value, error) {
	c, err := value.Compare(a, b)
	//
	return value.Bool(err == nil && c < 0), err
}

func lessThanOrEqual(a, b value.Value) (value.Value, error) {
	c, err := value.Compare(a, b)
	//
	return value.Bool(err == nil && c <= 0), err
}

func equal(a, b value.Value) (value.Value, error) {
	c, err := value.Compare(a, b)
	//
	return value.Bool(err == nil && c == 0), err
}
