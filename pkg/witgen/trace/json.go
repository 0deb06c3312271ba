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
	"strings"
)

// ToJsonString converts a set of modules into a JSON object mapping each
// qualified column name to the array of its values.
func ToJsonString(modules []Module) string {
	var (
		builder strings.Builder
		first   = true
	)
	//
	builder.WriteString("{")
	//
	for _, ith := range modules {
		for _, jth := range ith.Columns {
			if !first {
				builder.WriteString(", ")
			}
			//
			first = false
			//
			builder.WriteString("\"")
			// Construct qualified column name
			builder.WriteString(QualifiedColumnName(ith.Name, jth.Name))
			//
			builder.WriteString("\": [")
			//
			for k := range jth.Data {
				if k != 0 {
					builder.WriteString(", ")
				}
				//
				builder.WriteString(jth.Data[k].Dec())
			}
			//
			builder.WriteString("]")
		}
	}
	//
	builder.WriteString("}")
	// Done
	return builder.String()
}
