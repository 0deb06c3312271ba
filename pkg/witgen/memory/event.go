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
package memory

import (
	"fmt"

	"github.com/consensys/avm-witgen/pkg/witgen/value"
)

// Op identifies the kind of a memory access.
type Op uint8

const (
	// Read identifies an access which observed the contents of a cell.
	Read Op = iota
	// Write identifies an access which overwrote the contents of a cell.
	Write
)

func (p Op) String() string {
	if p == Read {
		return "read"
	}
	//
	return "write"
}

// Event records a single access to memory.  Specifically, the clock cycle in
// which it occurred, the channel through which it was made, the address
// accessed, and the value read or written.  Events are never modified once
// created.
type Event struct {
	Clk     uint64
	Channel uint8
	Address uint32
	Value   value.Value
	Op      Op
}

func (p Event) String() string {
	return fmt.Sprintf("%s ch%d @%d %s (clk %d)", p.Op, p.Channel, p.Address, p.Value, p.Clk)
}

// Cell pairs an address with the value it holds.
type Cell struct {
	Address uint32
	Value   value.Value
}
