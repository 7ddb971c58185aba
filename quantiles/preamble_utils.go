/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package quantiles

import (
	"encoding/binary"

	"github.com/dsquantiles/quantiles-go/common"
)

const (
	_PREAMBLE_LONGS_BYTE_ADR = 0
	_SER_VER_BYTE_ADR        = 1
	_FAMILY_BYTE_ADR         = 2
	_FLAGS_BYTE_ADR          = 3
	_K_SHORT_ADR             = 4 // to 5
	// 6-7 reserved

	_N_LONG_ADR = 8 // to 15, present iff not empty

	_DATA_START_ADR_FULL  = 16 // min, max, base buffer, levels
	_DATA_START_ADR_EMPTY = 8  // nothing follows

	_PREAMBLE_LONGS_EMPTY = 1
	_PREAMBLE_LONGS_FULL  = 2

	_SER_VER_1 = 1
	_SER_VER_2 = 2
	_SER_VER_3 = 3

	// Flag bit masks.
	_EMPTY_BIT_MASK   = 1
	_SORTED_BIT_MASK  = 2
	_COMPACT_BIT_MASK = 4
)

func getPreambleLongs(mem []byte) int {
	return int(mem[_PREAMBLE_LONGS_BYTE_ADR] & 0xFF)
}

func getSerVer(mem []byte) int {
	return int(mem[_SER_VER_BYTE_ADR] & 0xFF)
}

func getFamilyID(mem []byte) int {
	return int(mem[_FAMILY_BYTE_ADR] & 0xFF)
}

func getFlags(mem []byte) int {
	return int(mem[_FLAGS_BYTE_ADR] & 0xFF)
}

func getEmptyFlag(mem []byte) bool {
	return (getFlags(mem) & _EMPTY_BIT_MASK) != 0
}

func getSortedFlag(mem []byte) bool {
	return (getFlags(mem) & _SORTED_BIT_MASK) != 0
}

func getCompactFlag(mem []byte) bool {
	return (getFlags(mem) & _COMPACT_BIT_MASK) != 0
}

func getK(mem []byte) uint16 {
	return uint16(common.GetShortLE(mem, _K_SHORT_ADR))
}

func getN(mem []byte) uint64 {
	return binary.LittleEndian.Uint64(mem[_N_LONG_ADR : _N_LONG_ADR+8])
}

func putPreambleLongs(mem []byte, v int) {
	mem[_PREAMBLE_LONGS_BYTE_ADR] = byte(v)
}

func putSerVer(mem []byte, v int) {
	mem[_SER_VER_BYTE_ADR] = byte(v)
}

func putFamilyID(mem []byte, v int) {
	mem[_FAMILY_BYTE_ADR] = byte(v)
}

func putFlags(mem []byte, v int) {
	mem[_FLAGS_BYTE_ADR] = byte(v)
}

func putK(mem []byte, v uint16) {
	common.PutShortLE(mem, _K_SHORT_ADR, int(v))
}

func putN(mem []byte, v uint64) {
	binary.LittleEndian.PutUint64(mem[_N_LONG_ADR:_N_LONG_ADR+8], v)
}
