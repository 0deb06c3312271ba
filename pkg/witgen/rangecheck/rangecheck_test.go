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
	"testing"

	"github.com/consensys/avm-witgen/pkg/util/assert"
	"github.com/consensys/avm-witgen/pkg/witgen/value"
)

func Test_RangeCheck_Address_01(t *testing.T) {
	table := NewTable(8)
	//
	assert.NoError(t, table.CheckAddressRange(0))
	assert.NoError(t, table.CheckAddressRange(255))
	assert.ErrorIs(t, table.CheckAddressRange(256), ErrAddressRange)
}

func Test_RangeCheck_Address_02(t *testing.T) {
	table := NewTable(32)
	//
	assert.NoError(t, table.CheckAddressRange(0xffffffff))
}

func Test_RangeCheck_Address_03(t *testing.T) {
	table := NewTable(0)
	//
	assert.NoError(t, table.CheckAddressRange(0))
	assert.ErrorIs(t, table.CheckAddressRange(1), ErrAddressRange)
}

func Test_RangeCheck_Value(t *testing.T) {
	table := NewTable(32)
	//
	for _, v := range []value.Value{value.Zero(value.U0), value.Uint1(1), value.Uint8(255),
		value.Uint128(1, 1), value.Field(7)} {
		assert.NoError(t, table.CheckValueWidth(v))
	}
}

func Test_RangeCheck_Counts(t *testing.T) {
	table := NewTable(16)
	//
	assert.NoError(t, table.CheckAddressRange(1))
	assert.NoError(t, table.CheckAddressRange(2))
	assert.NoError(t, table.CheckValueWidth(value.Uint8(1)))
	assert.ErrorIs(t, table.CheckAddressRange(1<<16), ErrAddressRange)
	// Failed checks are not counted
	assert.Equal(t, []Count{{8, 1}, {16, 2}}, table.Counts())
}

func Test_RangeCheck_Counts_02(t *testing.T) {
	table := NewTable(16)
	// Field elements and U0 values are checked, but not counted
	assert.NoError(t, table.CheckValueWidth(value.Field(7)))
	assert.NoError(t, table.CheckValueWidth(value.Zero(value.U0)))
	assert.NoError(t, table.CheckValueWidth(value.Uint1(1)))
	assert.Equal(t, []Count{{1, 1}}, table.Counts())
}

func Test_RangeCheck_Rollback_01(t *testing.T) {
	table := NewTable(16)
	//
	assert.NoError(t, table.CheckAddressRange(1))
	mark := table.Mark()
	assert.NoError(t, table.CheckAddressRange(2))
	assert.NoError(t, table.CheckValueWidth(value.Uint8(1)))
	assert.Equal(t, []Count{{8, 1}, {16, 2}}, table.Counts())
	//
	table.Rollback(mark)
	assert.Equal(t, []Count{{16, 1}}, table.Counts())
	assert.Equal(t, mark, table.Mark())
}

func Test_RangeCheck_Rollback_02(t *testing.T) {
	table := NewTable(16)
	//
	assert.NoError(t, table.CheckAddressRange(1))
	table.Commit()
	assert.Equal(t, uint(0), table.Mark())
	// Committed checks survive a rollback
	assert.NoError(t, table.CheckValueWidth(value.Uint8(1)))
	table.Rollback(0)
	assert.Equal(t, []Count{{16, 1}}, table.Counts())
}
