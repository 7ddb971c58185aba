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
	"fmt"

	"github.com/dsquantiles/quantiles-go/common"
	"github.com/dsquantiles/quantiles-go/internal"
)

// GetSerializedSizeBytes returns the exact byte length ToSlice would
// produce, without materializing it.
func (s *Sketch[C]) GetSerializedSizeBytes() int {
	if s.n == 0 {
		return _DATA_START_ADR_EMPTY
	}
	size := _DATA_START_ADR_FULL
	size += s.serde.SizeOf(*s.minItem)
	size += s.serde.SizeOf(*s.maxItem)
	size += totalSizeOf(s.serde, s.baseBuffer)
	for i := 0; i < len(s.levels); i++ {
		if s.bitPattern&(uint64(1)<<uint(i)) != 0 {
			size += totalSizeOf(s.serde, s.levels[i])
		}
	}
	return size
}

func totalSizeOf[C comparable](serde common.ItemSketchSerde[C], items []C) int {
	total := 0
	for _, it := range items {
		total += serde.SizeOf(it)
	}
	return total
}

// ToSlice serializes the sketch in its compact wire form (serial version 3).
func (s *Sketch[C]) ToSlice() []byte {
	out := make([]byte, s.GetSerializedSizeBytes())

	flags := _COMPACT_BIT_MASK
	if s.n == 0 {
		flags |= _EMPTY_BIT_MASK
	}
	if s.isSorted {
		flags |= _SORTED_BIT_MASK
	}
	preLongs := _PREAMBLE_LONGS_FULL
	if s.n == 0 {
		preLongs = _PREAMBLE_LONGS_EMPTY
	}

	putPreambleLongs(out, preLongs)
	putSerVer(out, _SER_VER_3)
	putFamilyID(out, internal.FamilyEnum.Quantiles.Id)
	putFlags(out, flags)
	putK(out, s.k)

	if s.n == 0 {
		return out
	}
	putN(out, s.n)

	offset := _DATA_START_ADR_FULL
	minBytes := s.serde.SerializeOneToSlice(*s.minItem)
	copy(out[offset:], minBytes)
	offset += len(minBytes)
	maxBytes := s.serde.SerializeOneToSlice(*s.maxItem)
	copy(out[offset:], maxBytes)
	offset += len(maxBytes)

	baseBytes := s.serde.SerializeManyToSlice(s.baseBuffer)
	copy(out[offset:], baseBytes)
	offset += len(baseBytes)

	for i := 0; i < len(s.levels); i++ {
		if s.bitPattern&(uint64(1)<<uint(i)) == 0 {
			continue
		}
		lvlBytes := s.serde.SerializeManyToSlice(s.levels[i])
		copy(out[offset:], lvlBytes)
		offset += len(lvlBytes)
	}
	return out
}

// NewSketchFromSlice reconstructs a sketch from bytes written by ToSlice, or
// by a sibling implementation at serial versions 1-3. preambleLongs*8 is
// taken as the payload start for every legal header shape, which matches
// this family's convention of counting literal 8-byte preamble words; the
// only shape this does not fully decode is the legacy 5-long non-empty,
// non-compact v1 layout, whose historical field order is not present in any
// retrieved reference and is rejected rather than guessed at.
func NewSketchFromSlice[C comparable](sl []byte, compareFn common.CompareFn[C], serde common.ItemSketchSerde[C]) (*Sketch[C], error) {
	if compareFn == nil {
		return nil, fmt.Errorf("%w: no compare function provided", ErrInvalidArgument)
	}
	if serde == nil {
		return nil, fmt.Errorf("%w: no SerDe provided", ErrInvalidArgument)
	}

	mv, err := newSketchMemoryValidate(sl)
	if err != nil {
		return nil, err
	}
	if mv.preambleLongs == 5 {
		return nil, fmt.Errorf("%w: legacy 5-long non-compact v1 layout is not supported", ErrCorruption)
	}

	sk, err := newSketch(mv.k, compareFn, serde, nil, newDefaultRandomBitSource())
	if err != nil {
		return nil, err
	}
	if mv.empty {
		return sk, nil
	}

	sk.n = mv.n
	sk.bitPattern = computeBitPattern(mv.n, mv.k)
	sk.isSorted = mv.sorted
	needed := levelsNeeded(sk.bitPattern)
	sk.levels = make([][]C, needed)

	offset := mv.dataStart
	minItems, err := serde.DeserializeManyFromSlice(sl, offset, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: reading min item: %v", ErrIoError, err)
	}
	sk.minItem = &minItems[0]
	offset += serde.SizeOf(minItems[0])

	maxItems, err := serde.DeserializeManyFromSlice(sl, offset, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: reading max item: %v", ErrIoError, err)
	}
	sk.maxItem = &maxItems[0]
	offset += serde.SizeOf(maxItems[0])

	storedBaseCount := computeBaseBufferItems(mv.n, mv.k)
	readCount := storedBaseCount
	if !mv.compact {
		readCount = 2 * int(mv.k)
	}
	baseItemsRead, err := serde.DeserializeManyFromSlice(sl, offset, readCount)
	if err != nil {
		return nil, fmt.Errorf("%w: reading base buffer: %v", ErrIoError, err)
	}
	offset += totalSizeOf(serde, baseItemsRead)
	baseItems := baseItemsRead
	if !mv.compact {
		baseItems = baseItemsRead[:storedBaseCount]
	}
	fullCapBase := make([]C, len(baseItems), 2*int(mv.k))
	copy(fullCapBase, baseItems)
	sk.baseBuffer = fullCapBase

	for i := 0; i < needed; i++ {
		if sk.bitPattern&(uint64(1)<<uint(i)) == 0 {
			continue
		}
		lvlItems, err := serde.DeserializeManyFromSlice(sl, offset, int(mv.k))
		if err != nil {
			return nil, fmt.Errorf("%w: reading level %d: %v", ErrIoError, i, err)
		}
		sk.levels[i] = lvlItems
		offset += totalSizeOf(serde, lvlItems)
	}

	return sk, nil
}
