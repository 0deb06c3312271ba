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
	"testing"

	"github.com/consensys/avm-witgen/pkg/util/assert"
	"github.com/consensys/avm-witgen/pkg/witgen/alu"
	"github.com/consensys/avm-witgen/pkg/witgen/memory"
	"github.com/consensys/avm-witgen/pkg/witgen/rangecheck"
	"github.com/consensys/avm-witgen/pkg/witgen/value"
)

func Test_Lookup_Valid_01(t *testing.T) {
	mem, engine := execute(t, []value.Value{value.Uint8(3), value.Uint8(4)},
		func(e *alu.Engine) error { return e.Add(0, 1, 2) },
		func(e *alu.Engine) error { return e.Lt(2, 1, 3) },
		func(e *alu.Engine) error { return e.Add(2, 2, 2) },
	)
	//
	assert.NoError(t, Check(engine.Events(), mem.Events()))
	assert.NoError(t, CheckMemory(mem.Initial(), mem.Events()))
}

func Test_Lookup_Valid_02(t *testing.T) {
	// Erroneous instructions still link
	mem, engine := execute(t, []value.Value{value.Uint8(250), value.Uint16(10)},
		func(e *alu.Engine) error { return e.Add(0, 0, 2) },
		func(e *alu.Engine) error { return e.Add(0, 1, 3) },
		func(e *alu.Engine) error { return e.Sub(1, 1, 1) },
	)
	//
	assert.NoError(t, Check(engine.Events(), mem.Events()))
	assert.NoError(t, CheckMemory(mem.Initial(), mem.Events()))
}

func Test_Lookup_Invalid_01(t *testing.T) {
	mem, engine := execute(t, []value.Value{value.Uint8(3), value.Uint8(4)},
		func(e *alu.Engine) error { return e.Add(0, 1, 2) },
	)
	// Drop a memory event
	err := Check(engine.Events(), mem.Events()[1:])
	assert.ErrorIs(t, err, ErrInconsistent)
}

func Test_Lookup_Invalid_02(t *testing.T) {
	mem, engine := execute(t, []value.Value{value.Uint8(3), value.Uint8(4)},
		func(e *alu.Engine) error { return e.Add(0, 1, 2) },
	)
	// Tamper with result
	events := engine.Events()
	events[0].C = value.Uint8(8)
	assert.ErrorIs(t, Check(events, mem.Events()), ErrInconsistent)
}

func Test_Lookup_Invalid_03(t *testing.T) {
	mem, engine := execute(t, []value.Value{value.Uint8(3), value.Uint8(4)},
		func(e *alu.Engine) error { return e.Add(0, 1, 2) },
	)
	// Swap channels of operand reads
	events := mem.Events()
	events[0].Channel, events[1].Channel = events[1].Channel, events[0].Channel
	assert.ErrorIs(t, Check(engine.Events(), events), ErrInconsistent)
}

func Test_Lookup_StaleRead(t *testing.T) {
	mem, _ := execute(t, []value.Value{value.Uint8(3), value.Uint8(4)},
		func(e *alu.Engine) error { return e.Add(0, 1, 2) },
		func(e *alu.Engine) error { return e.Add(2, 1, 3) },
	)
	// Tamper with read of address 2
	events := mem.Events()
	events[3].Value = value.Uint8(0)
	assert.ErrorIs(t, CheckMemory(mem.Initial(), events), ErrStaleRead)
}

// ===================================================================
// Test Helpers
// ===================================================================

func execute(t *testing.T, init []value.Value, insns ...func(*alu.Engine) error) (*memory.Memory, *alu.Engine) {
	t.Helper()
	//
	mem := memory.New("ram", rangecheck.NewTable(32))
	engine := alu.NewEngine(mem)
	//
	for i, v := range init {
		assert.NoError(t, mem.Init(uint32(i), v))
	}
	//
	for _, insn := range insns {
		assert.NoError(t, insn(engine))
		mem.AdvanceCycle()
	}
	//
	return mem, engine
}
