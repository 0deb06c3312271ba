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

	"github.com/holiman/uint256"
)

// Add computes x + y.  This fails with ErrTagMismatch if the operands have
// different tags, or with ErrOverflow if the sum does not fit into their
// bitwidth.  Field elements are added modulo the field order and, hence, never
// overflow.
func Add(x, y Value) (Value, error) {
	var sum uint256.Int
	//
	if x.tag != y.tag {
		return Value{}, mismatch("+", x, y)
	} else if x.tag == FF {
		var (
			lhs = x.Element()
			rhs = y.Element()
		)
		//
		return FromElement(*lhs.Add(&lhs, &rhs)), nil
	} else if _, carry := sum.AddOverflow(&x.bits, &y.bits); carry || !fits(x.tag, &sum) {
		return Value{}, fmt.Errorf("%w: %s + %s", ErrOverflow, x, y)
	}
	//
	return Value{x.tag, sum}, nil
}

// Sub computes x - y.  This fails with ErrTagMismatch if the operands have
// different tags, or with ErrOverflow if the difference is negative.  Field
// elements are subtracted modulo the field order.
func Sub(x, y Value) (Value, error) {
	var diff uint256.Int
	//
	if x.tag != y.tag {
		return Value{}, mismatch("-", x, y)
	} else if x.tag == FF {
		var (
			lhs = x.Element()
			rhs = y.Element()
		)
		//
		return FromElement(*lhs.Sub(&lhs, &rhs)), nil
	} else if _, borrow := diff.SubOverflow(&x.bits, &y.bits); borrow {
		return Value{}, fmt.Errorf("%w: %s - %s", ErrOverflow, x, y)
	}
	//
	return Value{x.tag, diff}, nil
}

// Compare returns -1, 0 or +1 depending on whether x is less than, equal to or
// greater than y, when both are interpreted as unsigned integers.  Field
// elements are compared by their canonical representatives.  This fails with
// ErrTagMismatch if the operands have different tags.
func Compare(x, y Value) (int, error) {
	if x.tag != y.tag {
		return 0, mismatch("<=>", x, y)
	}
	//
	return x.bits.Cmp(&y.bits), nil
}

func mismatch(op string, x, y Value) error {
	return fmt.Errorf("%w: %s %s %s", ErrTagMismatch, x, op, y)
}
