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
	"strings"

	"github.com/consensys/avm-witgen/pkg/witgen/trace"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var digestCmd = &cobra.Command{
	Use:   "digest [flags] trace.lt",
	Short: "Compute the digest of a binary trace file.",
	Long: `Compute the Keccak-256 digest of the column data held in a binary (LT) trace
file.  This matches the digest logged by "execute --digest" for the same trace.`,
	Args: cobra.ExactArgs(1),
	Run:  runDigestCmd,
}

func runDigestCmd(cmd *cobra.Command, args []string) {
	var expected = GetString(cmd, "expect")
	//
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	header, digest, err := trace.DigestTraceFile(data)
	if err != nil {
		log.Errorf("%s: %s", args[0], err)
		os.Exit(2)
	}
	//
	if metadata, err := header.GetMetaData(); err != nil {
		log.Warnf("%s: malformed metadata (%s)", args[0], err)
	} else {
		for k, v := range metadata {
			log.Debugf("%s: %s", k, v)
		}
	}
	//
	actual := fmt.Sprintf("0x%x", digest)
	fmt.Println(actual)
	//
	if expected != "" && !strings.EqualFold(expected, actual) {
		log.Errorf("digest mismatch (expected %s)", expected)
		os.Exit(7)
	}
}

func init() {
	rootCmd.AddCommand(digestCmd)
	digestCmd.Flags().String("expect", "", "fail unless the digest matches")
}
