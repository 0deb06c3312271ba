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
package trace

import (
	"bytes"
	"testing"

	"github.com/consensys/avm-witgen/pkg/util/assert"
	"github.com/consensys/avm-witgen/pkg/witgen/alu"
	"github.com/consensys/avm-witgen/pkg/witgen/memory"
	"github.com/consensys/avm-witgen/pkg/witgen/rangecheck"
	"github.com/consensys/avm-witgen/pkg/witgen/value"
	"github.com/holiman/uint256"
)

func Test_Trace_Json(t *testing.T) {
	modules := executeAdd(t)
	//
	expected := `{"mem.clk": [0, 0, 0], "mem.channel": [0, 1, 2], "mem.addr": [0, 1, 2], ` +
		`"mem.tag": [2, 2, 2], "mem.value": [3, 4, 7], "mem.rw": [0, 0, 1], ` +
		`"alu.clk": [0], "alu.op": [0], "alu.addr_a": [0], "alu.addr_b": [1], "alu.addr_c": [2], ` +
		`"alu.tag_a": [2], "alu.a": [3], "alu.tag_b": [2], "alu.b": [4], "alu.tag_c": [2], "alu.c": [7], ` +
		`"alu.err": [0]}`
	//
	assert.Equal(t, expected, ToJsonString(modules))
}

func Test_Trace_Height(t *testing.T) {
	modules := executeAdd(t)
	//
	assert.Equal(t, uint(3), modules[0].Height())
	assert.Equal(t, uint(1), modules[1].Height())
	assert.Equal(t, uint(18), NumberOfColumns(modules))
}

func Test_Trace_Bytes(t *testing.T) {
	var (
		buf     bytes.Buffer
		modules = []Module{{"m", []Column{
			{"x", 16, []uint256.Int{*uint256.NewInt(0x1234), *uint256.NewInt(5)}},
			{"y", 1, []uint256.Int{*uint256.NewInt(1)}},
		}}}
	)
	//
	assert.NoError(t, WriteBytes(modules, &buf))
	//
	expected := []byte{
		0, 0, 0, 2, // column count
		0, 3, 'm', '.', 'x', 2, 0, 0, 0, 2, // m.x header
		0, 3, 'm', '.', 'y', 1, 0, 0, 0, 1, // m.y header
		0x12, 0x34, 0, 5, // m.x data
		1, // m.y data
	}
	assert.Equal(t, expected, buf.Bytes())
}

func Test_Trace_Bytes_Invalid(t *testing.T) {
	var (
		buf     bytes.Buffer
		modules = []Module{{"m", []Column{{"x", 8, []uint256.Int{*uint256.NewInt(256)}}}}}
	)
	//
	assert.True(t, WriteBytes(modules, &buf) != nil)
}

func Test_Trace_File(t *testing.T) {
	file, err := NewTraceFile(map[string]string{"program": "add.json"}, executeAdd(t))
	assert.NoError(t, err)
	//
	data, err := file.MarshalBinary()
	assert.NoError(t, err)
	assert.True(t, IsTraceFile(data))
	// Read back header
	var header Header
	//
	buffer := bytes.NewBuffer(data)
	assert.NoError(t, header.UnmarshalBinary(buffer))
	assert.True(t, header.IsCompatible())
	//
	metadata, err := header.GetMetaData()
	assert.NoError(t, err)
	assert.Equal(t, "add.json", metadata["program"])
	// Remainder is column data
	var columns bytes.Buffer
	//
	assert.NoError(t, WriteBytes(file.Modules, &columns))
	assert.Equal(t, columns.Bytes(), buffer.Bytes())
}

func Test_Trace_Digest(t *testing.T) {
	modules := executeAdd(t)
	//
	d1, err := Digest(modules)
	assert.NoError(t, err)
	d2, err := Digest(executeAdd(t))
	assert.NoError(t, err)
	assert.Equal(t, d1, d2)
	// Change a single value
	modules[1].Columns[len(modules[1].Columns)-1].Data[0].SetOne()
	d3, err := Digest(modules)
	assert.NoError(t, err)
	assert.True(t, d1 != d3)
}

func Test_Trace_DigestFile_01(t *testing.T) {
	modules := executeAdd(t)
	file, err := NewTraceFile(map[string]string{"address-bits": "32"}, modules)
	assert.NoError(t, err)
	data, err := file.MarshalBinary()
	assert.NoError(t, err)
	//
	header, digest, err := DigestTraceFile(data)
	assert.NoError(t, err)
	expected, err := Digest(modules)
	assert.NoError(t, err)
	// Digest of file matches that of the modules written
	assert.Equal(t, expected, digest)
	//
	metadata, err := header.GetMetaData()
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"address-bits": "32"}, metadata)
}

func Test_Trace_DigestFile_02(t *testing.T) {
	_, _, err := DigestTraceFile([]byte(`{"alu.clk": [0]}`))
	assert.True(t, err != nil)
}

func Test_Trace_DigestFile_03(t *testing.T) {
	file, err := NewTraceFile(nil, executeAdd(t))
	assert.NoError(t, err)
	// Newer major version
	file.Header.MajorVersion = LT_MAJOR_VERSION + 1
	data, err := file.MarshalBinary()
	assert.NoError(t, err)
	//
	_, _, err = DigestTraceFile(data)
	assert.True(t, err != nil)
}

// ===================================================================
// Test Helpers
// ===================================================================

func executeAdd(t *testing.T) []Module {
	t.Helper()
	//
	mem := memory.New("ram", rangecheck.NewTable(32))
	engine := alu.NewEngine(mem)
	//
	assert.NoError(t, mem.Init(0, value.Uint8(3)))
	assert.NoError(t, mem.Init(1, value.Uint8(4)))
	assert.NoError(t, engine.Add(0, 1, 2))
	mem.AdvanceCycle()
	//
	return Build(engine.Events(), mem.Events())
}
