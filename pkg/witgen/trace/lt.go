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
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// LT_MAJOR_VERSION gives the major version of the binary file format.
const LT_MAJOR_VERSION uint16 = 1

// LT_MINOR_VERSION gives the minor version of the binary file format.  The
// expected interpretation is that older versions are compatible with newer
// ones, but not vice-versa.
const LT_MINOR_VERSION uint16 = 0

// ZKTRACER is used as the file identifier for binary trace files.  This just
// helps us identify actual binary files from corrupted files.
var ZKTRACER [8]byte = [8]byte{'z', 'k', 't', 'r', 'a', 'c', 'e', 'r'}

// Header provides a structured header for the binary file format.  In
// particular, it supports versioning and embedded (JSON) metadata.
type Header struct {
	Identifier   [8]byte
	MajorVersion uint16
	MinorVersion uint16
	MetaData     []byte
}

// TraceFile is a programatic representation of a binary trace file.
type TraceFile struct {
	Header  Header
	Modules []Module
}

// NewTraceFile constructs a new trace file with the default header for the
// currently supported version, embedding the given metadata.
func NewTraceFile(metadata map[string]string, modules []Module) (TraceFile, error) {
	var header = Header{ZKTRACER, LT_MAJOR_VERSION, LT_MINOR_VERSION, nil}
	//
	if err := header.SetMetaData(metadata); err != nil {
		return TraceFile{}, err
	}
	//
	return TraceFile{header, modules}, nil
}

// IsTraceFile checks whether the given data file begins with the expected
// "zktracer" identifier.
func IsTraceFile(data []byte) bool {
	return len(data) >= len(ZKTRACER) && [8]byte(data[:8]) == ZKTRACER
}

// MarshalBinary converts the TraceFile into a sequence of bytes.
func (p *TraceFile) MarshalBinary() ([]byte, error) {
	var buffer bytes.Buffer
	// Bytes header
	headerBytes, err := p.Header.MarshalBinary()
	// Error check
	if err != nil {
		return nil, err
	}
	// Encode header
	buffer.Write(headerBytes)
	// Encode column data
	if err := WriteBytes(p.Modules, &buffer); err != nil {
		return nil, err
	}
	// Done
	return buffer.Bytes(), nil
}

// GetMetaData parses the metadata bytes as a JSON object.  Observe that, if
// there are no metadata bytes, then an empty map is returned.
func (p *Header) GetMetaData() (map[string]string, error) {
	var metadata = make(map[string]string)
	//
	if len(p.MetaData) == 0 {
		return metadata, nil
	}
	//
	err := json.Unmarshal(p.MetaData, &metadata)
	//
	return metadata, err
}

// SetMetaData sets the metadata bytes for this header, using a JSON encoding of
// the given map.  If this fails, an error is returned and the metadata bytes
// are unaffected.
func (p *Header) SetMetaData(metadata map[string]string) error {
	bytes, err := json.Marshal(metadata)
	// Check for error
	if err != nil {
		return err
	}
	// success
	p.MetaData = bytes
	//
	return nil
}

// MarshalBinary converts the LT file header into a sequence of bytes.
func (p *Header) MarshalBinary() ([]byte, error) {
	var (
		buffer     bytes.Buffer
		majorBytes [2]byte
		minorBytes [2]byte
		metaLength [4]byte
	)
	// Marshall version numbers
	binary.BigEndian.PutUint16(majorBytes[:], p.MajorVersion)
	binary.BigEndian.PutUint16(minorBytes[:], p.MinorVersion)
	binary.BigEndian.PutUint32(metaLength[:], uint32(len(p.MetaData)))
	// Write identifier
	buffer.Write(p.Identifier[:])
	// Write major version
	buffer.Write(majorBytes[:])
	// Write minor version
	buffer.Write(minorBytes[:])
	// Write metadata length
	buffer.Write(metaLength[:])
	// Write metadata itself
	buffer.Write(p.MetaData)
	// Done
	return buffer.Bytes(), nil
}

// UnmarshalBinary initialises this LT file header from a given buffer, leaving
// the buffer positioned at the start of the column data.
func (p *Header) UnmarshalBinary(buffer *bytes.Buffer) error {
	var (
		fixed      [16]byte
		metaLength uint32
	)
	// Read identifier, versions and metadata length
	if n, err := buffer.Read(fixed[:]); err != nil {
		return err
	} else if n != len(fixed) {
		return errors.New("malformed trace file")
	}
	//
	copy(p.Identifier[:], fixed[:8])
	p.MajorVersion = binary.BigEndian.Uint16(fixed[8:10])
	p.MinorVersion = binary.BigEndian.Uint16(fixed[10:12])
	metaLength = binary.BigEndian.Uint32(fixed[12:16])
	// Read metadata itself
	p.MetaData = make([]byte, metaLength)
	//
	if n, err := buffer.Read(p.MetaData); metaLength > 0 && err != nil {
		return err
	} else if n != int(metaLength) {
		return errors.New("malformed trace file")
	}
	// Done
	return nil
}

// IsCompatible determines whether a given binary file is compatible with this
// version of the file format.
func (p *Header) IsCompatible() bool {
	return p.Identifier == ZKTRACER &&
		p.MajorVersion == LT_MAJOR_VERSION &&
		p.MinorVersion <= LT_MINOR_VERSION
}

// WriteBytes writes the column data of a given set of modules to an io.Writer.
// This consists of the column count, followed by a header for each column
// (name, bytes per element and number of elements), followed by the data of
// each column in turn.  All integers are big endian.
func WriteBytes(modules []Module, buf io.Writer) error {
	ncols := NumberOfColumns(modules)
	// Write column count
	if err := binary.Write(buf, binary.BigEndian, uint32(ncols)); err != nil {
		return err
	}
	// Write header information
	for _, ith := range modules {
		for _, jth := range ith.Columns {
			var (
				name  = []byte(QualifiedColumnName(ith.Name, jth.Name))
				width = byteWidth(jth.BitWidth)
			)
			//
			if len(name) > 0xffff {
				return fmt.Errorf("column name %s too long", name)
			}
			// Write name length
			if err := binary.Write(buf, binary.BigEndian, uint16(len(name))); err != nil {
				return err
			}
			// Write name bytes
			if _, err := buf.Write(name); err != nil {
				return err
			}
			// Write bytes per element
			if err := binary.Write(buf, binary.BigEndian, uint8(width)); err != nil {
				return err
			}
			// Write Data length
			if err := binary.Write(buf, binary.BigEndian, uint32(len(jth.Data))); err != nil {
				return err
			}
		}
	}
	// Write column data information
	for _, ith := range modules {
		for _, jth := range ith.Columns {
			if err := writeColumnBytes(buf, jth); err != nil {
				return err
			}
		}
	}
	// Done
	return nil
}

func writeColumnBytes(w io.Writer, column Column) error {
	var width = byteWidth(column.BitWidth)
	//
	for i := range column.Data {
		var (
			bytes = column.Data[i].Bytes32()
			n     = 32 - width
		)
		// Sanity check element fits
		if uint(column.Data[i].BitLen()) > column.BitWidth {
			return fmt.Errorf("column %s row %d exceeds %d bits", column.Name, i, column.BitWidth)
		}
		// Write least significant bytes
		if _, err := w.Write(bytes[n:]); err != nil {
			return err
		}
	}
	//
	return nil
}

// Determine number of bytes required to hold an element of a given bitwidth.
func byteWidth(bitwidth uint) uint {
	return (bitwidth + 7) / 8
}
