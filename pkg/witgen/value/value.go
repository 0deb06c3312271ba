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
package value

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"
)

// ErrTagMismatch signals an attempt to combine two values of different tags.
var ErrTagMismatch = errors.New("tag mismatch")

// ErrOverflow signals that the result of an operation does not fit into the
// bitwidth of its operands.
var ErrOverflow = errors.New("overflow")

// ErrRange signals that a given set of raw bits cannot be represented by a
// given tag.
var ErrRange = errors.New("out of range")

// Modulus of the native field.
var modulus = uint256.MustFromBig(fr.Modulus())

// Value is a tagged value, as held in a single cell of memory.  Values are
// immutable and comparable.  The zero Value is U0(0), which is the value of
// every memory cell which has not yet been written.
type Value struct {
	tag  Tag
	bits uint256.Int
}

// New constructs a value of the given tag from a given set of raw bits.  This
// fails if the bits do not fit within the tag.  For FF, the bits must be a
// canonical field element (i.e. less than the modulus).
func New(tag Tag, bits *uint256.Int) (Value, error) {
	if !fits(tag, bits) {
		return Value{}, fmt.Errorf("%w: %s for %s", ErrRange, bits.Dec(), tag)
	}
	//
	return Value{tag, *bits}, nil
}

// Parse constructs a value of the given tag from a string, which is either a
// decimal integer or a hexadecimal integer prefixed with "0x".
func Parse(tag Tag, str string) (Value, error) {
	var (
		val big.Int
		ok  bool
	)
	//
	if hex, found := strings.CutPrefix(str, "0x"); found {
		_, ok = val.SetString(hex, 16)
	} else {
		_, ok = val.SetString(str, 10)
	}
	//
	if !ok || val.Sign() < 0 {
		return Value{}, fmt.Errorf("invalid %s literal \"%s\"", tag, str)
	}
	//
	bits, overflow := uint256.FromBig(&val)
	if overflow {
		return Value{}, fmt.Errorf("%w: %s for %s", ErrRange, str, tag)
	}
	//
	return New(tag, bits)
}

// Zero returns the zero value of a given tag.
func Zero(tag Tag) Value {
	return Value{tag: tag}
}

// Uint1 constructs a U1 value.  This panics if bit is not 0 or 1.
func Uint1(bit uint8) Value {
	return mustNew(U1, uint64(bit))
}

// Bool constructs a U1 value from a boolean.
func Bool(flag bool) Value {
	if flag {
		return Uint1(1)
	}
	//
	return Uint1(0)
}

// Uint8 constructs a U8 value.
func Uint8(val uint8) Value {
	return mustNew(U8, uint64(val))
}

// Uint16 constructs a U16 value.
func Uint16(val uint16) Value {
	return mustNew(U16, uint64(val))
}

// Uint32 constructs a U32 value.
func Uint32(val uint32) Value {
	return mustNew(U32, uint64(val))
}

// Uint64 constructs a U64 value.
func Uint64(val uint64) Value {
	return mustNew(U64, val)
}

// Uint128 constructs a U128 value from its high and low 64bit halves.
func Uint128(hi, lo uint64) Value {
	var bits uint256.Int
	//
	bits[1], bits[0] = hi, lo
	//
	return Value{U128, bits}
}

// Field constructs an FF value from a small integer.
func Field(val uint64) Value {
	return mustNew(FF, val)
}

// FromElement constructs an FF value from a field element.
func FromElement(e fr.Element) Value {
	var (
		bits  uint256.Int
		bytes = e.Bytes()
	)
	//
	bits.SetBytes32(bytes[:])
	//
	return Value{FF, bits}
}

func mustNew(tag Tag, val uint64) Value {
	v, err := New(tag, uint256.NewInt(val))
	if err != nil {
		panic(err)
	}
	//
	return v
}

// Tag returns the tag of this value.
func (p Value) Tag() Tag {
	return p.tag
}

// Bits returns (a copy of) the raw bits of this value.
func (p Value) Bits() uint256.Int {
	return p.bits
}

// IsZero checks whether the raw bits of this value are zero.
func (p Value) IsZero() bool {
	return p.bits.IsZero()
}

// Uint64 returns the raw bits of this value as a uint64, provided they fit.
func (p Value) Uint64() (uint64, bool) {
	return p.bits.Uint64(), p.bits.IsUint64()
}

// Element returns this value as an element of the native field.  For integer
// tags, this is simply the embedding of the integer into the field.
func (p Value) Element() fr.Element {
	var (
		elem  fr.Element
		bytes = p.bits.Bytes32()
	)
	//
	elem.SetBytes(bytes[:])
	//
	return elem
}

// Equals checks whether two values have the same tag and bits.
func (p Value) Equals(other Value) bool {
	return p == other
}

func (p Value) String() string {
	return fmt.Sprintf("%s(%s)", p.tag, p.bits.Dec())
}

// Check whether a given set of bits can be held by a given tag.
func fits(tag Tag, bits *uint256.Int) bool {
	if tag == FF {
		return bits.Lt(modulus)
	}
	//
	return uint(bits.BitLen()) <= tag.BitWidth()
}
