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
package vm

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/consensys/avm-witgen/pkg/util/assert"
	"github.com/consensys/avm-witgen/pkg/witgen/trace"
)

// Determines the (relative) location of the test directory.  That is where
// the test programs and their expected final memory states are found.
const TestDir = "../../../testdata/programs"

func Test_Program_AddLt(t *testing.T) {
	check(t, "add_lt")
}

func Test_Program_Field(t *testing.T) {
	check(t, "field")
}

func Test_Program_U128(t *testing.T) {
	check(t, "u128")
}

func Test_Program_Mismatch(t *testing.T) {
	check(t, "mismatch")
}

// For a given test program, check that it executes to completion, that its
// event logs are consistent, that its final memory matches that expected and
// that its trace can be written.
func check(t *testing.T, test string) {
	// Enable testing each program in parallel
	t.Parallel()
	//
	program := readProgram(t, fmt.Sprintf("%s/%s.json", TestDir, test))
	expected := readProgram(t, fmt.Sprintf("%s/%s.out.json", TestDir, test))
	//
	machine, err := New(program, 32)
	assert.NoError(t, err)
	//
	n, err := ExecuteAll(machine, 2)
	assert.NoError(t, err)
	assert.Equal(t, uint(len(program.Code)), n)
	assert.True(t, machine.Terminated())
	// Check final state
	assert.Equal(t, expected.Memory, machine.Memory().Contents())
	check_Consistent(t, machine)
	// Check trace generation
	var buf bytes.Buffer
	//
	modules := trace.Build(machine.ALU().Events(), machine.Memory().Events())
	assert.NoError(t, trace.WriteBytes(modules, &buf))
	assert.Equal(t, 3*len(program.Code), int(modules[0].Height()))
}

func readProgram(t *testing.T, filename string) Program {
	data, err := os.ReadFile(filename)
	// Check test file read ok
	if err != nil {
		t.Fatal(err)
	}
	//
	program, err := ParseProgram(data)
	if err != nil {
		t.Fatalf("Error parsing %s: %v\n", filename, err)
	}
	//
	return program
}
