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
package witgen

import (
	"fmt"
	"os"
	"path"

	"github.com/consensys/avm-witgen/pkg/util"
	"github.com/consensys/avm-witgen/pkg/witgen/lookup"
	"github.com/consensys/avm-witgen/pkg/witgen/rangecheck"
	"github.com/consensys/avm-witgen/pkg/witgen/trace"
	"github.com/consensys/avm-witgen/pkg/witgen/vm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var executeCmd = &cobra.Command{
	Use:   "execute [flags] program.json",
	Short: "Execute a program and generate its witness.",
	Long: `Execute a program from its initial memory, producing the memory and ALU event
tables as a trace file.  Traces are written as JSON or in the binary LT format.`,
	Aliases: []string{"exec"},
	Args:    cobra.ExactArgs(1),
	Run:     runExecuteCmd,
}

func runExecuteCmd(cmd *cobra.Command, args []string) {
	var (
		addressBits = GetUint(cmd, "address-bits")
		chunk       = GetUint(cmd, "chunk")
		output      = GetString(cmd, "out")
		format      = GetString(cmd, "format")
		check       = GetFlag(cmd, "check")
		digest      = GetFlag(cmd, "digest")
	)
	// Sanity check configuration
	if addressBits > rangecheck.MAX_ADDRESS_BITS {
		fmt.Printf("address bitwidth %d exceeds maximum of %d\n", addressBits, rangecheck.MAX_ADDRESS_BITS)
		os.Exit(2)
	} else if chunk == 0 {
		fmt.Println("chunk size must be positive")
		os.Exit(2)
	}
	//
	program := readProgramFile(args[0])
	// Build our machine
	machine, err := vm.New(program, addressBits)
	if err != nil {
		log.Error(err)
		os.Exit(3)
	}
	// Execute it
	stats := util.NewPerfStats()
	n, err := vm.ExecuteAll(machine, chunk)
	//
	stats.Log("Witness generation")
	//
	if err != nil {
		log.Error(err)
		os.Exit(4)
	}
	//
	log.Debugf("executed %d instructions (%d memory accesses)", n, len(machine.Memory().Events()))
	//
	for _, c := range machine.Ranges().Counts() {
		log.Debugf("range checked %d values of %d bits", c.Multiplicity, c.BitWidth)
	}
	//
	var (
		aluEvents = machine.ALU().Events()
		memEvents = machine.Memory().Events()
	)
	// Cross-check event logs
	if check {
		if err := lookup.Check(aluEvents, memEvents); err != nil {
			log.Error(err)
			os.Exit(5)
		} else if err := lookup.CheckMemory(machine.Memory().Initial(), memEvents); err != nil {
			log.Error(err)
			os.Exit(5)
		}
	}
	//
	modules := trace.Build(aluEvents, memEvents)
	//
	if digest {
		d, err := trace.Digest(modules)
		if err != nil {
			log.Error(err)
			os.Exit(6)
		}
		//
		log.Infof("trace digest 0x%x", d)
	}
	//
	metadata := map[string]string{
		"program":      args[0],
		"address-bits": fmt.Sprintf("%d", addressBits),
	}
	//
	writeTraceFile(output, format, metadata, modules)
}

// Read and parse a program file.  Only JSON is currently supported.
func readProgramFile(filename string) vm.Program {
	bytes, err := os.ReadFile(filename)
	//
	if err == nil {
		switch ext := path.Ext(filename); ext {
		case ".json":
			program, err := vm.ParseProgram(bytes)
			if err == nil {
				return program
			}
			//
			fmt.Printf("%s: %s\n", filename, err)
			os.Exit(2)
		default:
			err = fmt.Errorf("unknown program file format: %s", ext)
		}
	}
	// Handle error
	fmt.Println(err)
	os.Exit(2)
	// unreachable
	return vm.Program{}
}

// Write a trace to a given file (or stdout if no file is given) in a given
// format.  If no format is given, this is determined by the file extension.
func writeTraceFile(filename string, format string, metadata map[string]string, modules []trace.Module) {
	var (
		bytes []byte
		err   error
	)
	//
	if format == "" && path.Ext(filename) == ".lt" {
		format = "lt"
	} else if format == "" {
		format = "json"
	}
	//
	switch format {
	case "json":
		bytes = []byte(trace.ToJsonString(modules))
	case "lt":
		var file trace.TraceFile
		//
		if filename == "" && term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Println("refusing to write binary trace to terminal (use --out)")
			os.Exit(2)
		} else if file, err = trace.NewTraceFile(metadata, modules); err == nil {
			bytes, err = file.MarshalBinary()
		}
	default:
		err = fmt.Errorf("unknown trace format \"%s\"", format)
	}
	//
	if err == nil && filename == "" {
		_, err = os.Stdout.Write(bytes)
	} else if err == nil {
		err = os.WriteFile(filename, bytes, 0644)
	}
	//
	if err != nil {
		log.Error(err)
		os.Exit(6)
	}
}

func init() {
	rootCmd.AddCommand(executeCmd)
	executeCmd.Flags().Uint("address-bits", rangecheck.MAX_ADDRESS_BITS, "bitwidth of memory addresses")
	executeCmd.Flags().Uint("chunk", 1024, "number of instructions executed per chunk")
	executeCmd.Flags().StringP("out", "o", "", "trace file to write (default stdout)")
	executeCmd.Flags().String("format", "", "trace format (json or lt), otherwise determined from file extension")
	executeCmd.Flags().Bool("check", true, "cross-check memory and ALU event logs")
	executeCmd.Flags().Bool("digest", false, "log Keccak-256 digest of trace")
}
