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
	"fmt"
	"strings"
)

// Tag identifies the kind of a tagged value.  Each tag, except FF, corresponds
// to an unsigned integer of a fixed bitwidth.  FF identifies an element of the
// native field of the proof system (i.e. the BN254 scalar field).
type Tag uint8

const (
	// U0 is a zero-width placeholder, which only ever holds zero.  This is the
	// tag of uninitialised memory.
	U0 Tag = iota
	// U1 is a single bit.
	U1
	// U8 is an unsigned 8bit integer.
	U8
	// U16 is an unsigned 16bit integer.
	U16
	// U32 is an unsigned 32bit integer.
	U32
	// U64 is an unsigned 64bit integer.
	U64
	// U128 is an unsigned 128bit integer.
	U128
	// FF is an element of the native field.
	FF
)

// FIELD_BITWIDTH is the number of bits required to hold any element of the
// native field.
const FIELD_BITWIDTH = 254

var tagNames = [...]string{"U0", "U1", "U8", "U16", "U32", "U64", "U128", "FF"}

var tagWidths = [...]uint{0, 1, 8, 16, 32, 64, 128, FIELD_BITWIDTH}

// Tags returns all tags in order.
func Tags() []Tag {
	return []Tag{U0, U1, U8, U16, U32, U64, U128, FF}
}

// ParseTag converts a tag name (e.g. "u8" or "FF") into a tag.
func ParseTag(name string) (Tag, error) {
	for i, n := range tagNames {
		if strings.EqualFold(n, name) {
			return Tag(i), nil
		}
	}
	//
	return U0, fmt.Errorf("unknown tag \"%s\"", name)
}

// BitWidth returns the number of bits available in values of this tag.  For FF
// this is the bitwidth of the field modulus.
func (t Tag) BitWidth() uint {
	return tagWidths[t]
}

// IsField determines whether this tag identifies field elements.
func (t Tag) IsField() bool {
	return t == FF
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	//
	return fmt.Sprintf("tag(%d)", uint8(t))
}
