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
package lookup

import (
	"errors"
	"fmt"

	"github.com/consensys/avm-witgen/pkg/witgen/alu"
	"github.com/consensys/avm-witgen/pkg/witgen/memory"
	"github.com/consensys/avm-witgen/pkg/witgen/value"
)

// ErrInconsistent signals that the ALU and memory event logs cannot be linked
// by the lookup argument.
var ErrInconsistent = errors.New("inconsistent event logs")

// ErrStaleRead signals a read which did not observe the last value written.
var ErrStaleRead = errors.New("stale read")

// Check that the ALU and memory event logs are consistent.  That is, every ALU
// event corresponds with exactly three consecutive memory events in the same
// clock cycle: a read of A on channel 0, a read of B on channel 1 and a write
// of C on channel 2, with matching addresses and values.  Furthermore, no
// memory event is left unaccounted for.
func Check(aluEvents []alu.Event, memEvents []memory.Event) error {
	if len(memEvents) != 3*len(aluEvents) {
		return fmt.Errorf("%w: %d ALU events but %d memory events", ErrInconsistent, len(aluEvents),
			len(memEvents))
	}
	//
	for i, e := range aluEvents {
		var (
			footprint = memEvents[3*i : 3*i+3]
			expected  = []memory.Event{
				{Clk: e.Clk, Channel: alu.A.Channel(), Address: e.AddrA, Value: e.A, Op: memory.Read},
				{Clk: e.Clk, Channel: alu.B.Channel(), Address: e.AddrB, Value: e.B, Op: memory.Read},
				{Clk: e.Clk, Channel: alu.C.Channel(), Address: e.AddrC, Value: e.C, Op: memory.Write},
			}
		)
		//
		for j := range expected {
			if footprint[j] != expected[j] {
				return fmt.Errorf("%w: ALU event %d (%s) expected %s, found %s", ErrInconsistent, i, e,
					expected[j], footprint[j])
			}
		}
		//
		if i > 0 && aluEvents[i-1].Clk >= e.Clk {
			return fmt.Errorf("%w: ALU event %d out of order (clk %d after %d)", ErrInconsistent, i, e.Clk,
				aluEvents[i-1].Clk)
		}
	}
	//
	return nil
}

// CheckMemory replays a memory event log against the initial contents of
// memory, checking that every read observes the value most recently written
// (or the initial value, or U0(0) for uninitialised cells), and that clock
// cycles never decrease.
func CheckMemory(initial []memory.Cell, events []memory.Event) error {
	var (
		cells = make(map[uint32]value.Value)
		clk   uint64
	)
	//
	for _, c := range initial {
		cells[c.Address] = c.Value
	}
	//
	for i, e := range events {
		if e.Clk < clk {
			return fmt.Errorf("%w: memory event %d out of order (clk %d after %d)", ErrInconsistent, i, e.Clk, clk)
		}
		//
		clk = e.Clk
		//
		switch e.Op {
		case memory.Read:
			if actual := cells[e.Address]; actual != e.Value {
				return fmt.Errorf("%w: memory event %d (%s) but cell holds %s", ErrStaleRead, i, e, actual)
			}
		case memory.Write:
			cells[e.Address] = e.Value
		}
	}
	//
	return nil
}
