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
package rangecheck

import (
	"errors"
	"fmt"
	"slices"

	"github.com/consensys/avm-witgen/pkg/witgen/value"
)

// ErrValueWidth signals a value whose raw bits exceed the width of its tag.
var ErrValueWidth = errors.New("value exceeds width of tag")

// ErrAddressRange signals an address outside the addressable range of the
// machine.
var ErrAddressRange = errors.New("address out of range")

// MAX_ADDRESS_BITS is the widest supported address bus.
const MAX_ADDRESS_BITS = 32

// Checker is responsible for checking that values and addresses are within
// their permitted ranges.  Every successful check corresponds to a row in a
// range lookup table, whilst a failing check indicates a malformed access which
// cannot be proven.
type Checker interface {
	// CheckValueWidth checks that the raw bits of a value fit within the
	// bitwidth determined by its tag.
	CheckValueWidth(value.Value) error
	// CheckAddressRange checks that an address lies within the addressable
	// range of the machine.
	CheckAddressRange(address uint32) error
}

// Journal is implemented by checkers which record successful checks, such that
// those made after a given mark can be retracted.  This allows the checks of an
// aborted instruction to be discarded along with its memory accesses.
type Journal interface {
	Checker
	// Mark returns the current position in the journal.
	Mark() uint
	// Rollback retracts all checks recorded since a given mark.
	Rollback(mark uint)
	// Commit makes all checks recorded so far permanent.
	Commit()
}

// Count records how many range checks were performed for a given bitwidth.
type Count struct {
	BitWidth     uint
	Multiplicity uint
}

// Table is a Checker which additionally records the multiplicity of every
// bitwidth checked, as needed to populate the range lookup table.
type Table struct {
	addressBits uint
	counts      map[uint]uint
	// Bitwidths of checks not yet committed, in order of occurrence.
	journal []uint
}

// NewTable constructs a range table for a machine with the given address
// bitwidth.  This panics if the bitwidth exceeds MAX_ADDRESS_BITS.
func NewTable(addressBits uint) *Table {
	if addressBits > MAX_ADDRESS_BITS {
		panic(fmt.Sprintf("address bitwidth %d exceeds %d", addressBits, MAX_ADDRESS_BITS))
	}
	//
	return &Table{addressBits, make(map[uint]uint), nil}
}

// AddressBits returns the bitwidth of addresses on this machine.
func (p *Table) AddressBits() uint {
	return p.addressBits
}

// CheckValueWidth implementation for the Checker interface.  Field elements
// are checked against the field modulus rather than a power of two.  Neither
// field elements nor U0 values are counted, since neither corresponds to a
// row of the range lookup table.
func (p *Table) CheckValueWidth(v value.Value) error {
	var (
		tag  = v.Tag()
		bits = v.Bits()
	)
	//
	if _, err := value.New(tag, &bits); err != nil {
		return fmt.Errorf("%w: %s", ErrValueWidth, v)
	}
	//
	if !tag.IsField() && tag != value.U0 {
		p.record(tag.BitWidth())
	}
	//
	return nil
}

// CheckAddressRange implementation for the Checker interface.
func (p *Table) CheckAddressRange(address uint32) error {
	if p.addressBits < MAX_ADDRESS_BITS && address>>p.addressBits != 0 {
		return fmt.Errorf("%w: 0x%x exceeds %d bits", ErrAddressRange, address, p.addressBits)
	}
	//
	p.record(p.addressBits)
	//
	return nil
}

// Mark implementation for the Journal interface.
func (p *Table) Mark() uint {
	return uint(len(p.journal))
}

// Rollback implementation for the Journal interface.
func (p *Table) Rollback(mark uint) {
	if mark > uint(len(p.journal)) {
		panic(fmt.Sprintf("invalid rollback mark %d (%d checks journaled)", mark, len(p.journal)))
	}
	//
	for _, width := range p.journal[mark:] {
		if p.counts[width]--; p.counts[width] == 0 {
			delete(p.counts, width)
		}
	}
	//
	p.journal = p.journal[:mark]
}

// Commit implementation for the Journal interface.
func (p *Table) Commit() {
	p.journal = p.journal[:0]
}

func (p *Table) record(width uint) {
	p.counts[width]++
	p.journal = append(p.journal, width)
}

// Counts returns the multiplicity of each bitwidth checked so far (and not
// rolled back), ordered by bitwidth.
func (p *Table) Counts() []Count {
	var counts []Count
	//
	for width, n := range p.counts {
		counts = append(counts, Count{width, n})
	}
	//
	slices.SortFunc(counts, func(l, r Count) int {
		return int(l.BitWidth) - int(r.BitWidth)
	})
	//
	return counts
}
