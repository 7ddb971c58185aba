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
	"sort"

	"github.com/dsquantiles/quantiles-go/common"
)

// processFullBaseBuffer is invoked the instant the base buffer reaches
// exactly 2k items. n has already been incremented by Update, so n/(2k) is
// the bit pattern this compaction must reach.
func (s *Sketch[C]) processFullBaseBuffer() error {
	s.growLevelsIfNeededForBitPattern(computeBitPattern(s.n, s.k))
	s.sortBaseBuffer()
	s.inPlacePropagateCarry(0, s.baseBuffer, true)
	s.baseBuffer = s.baseBuffer[:0]
	s.isSorted = true
	return nil
}

func (s *Sketch[C]) sortBaseBuffer() {
	sort.Slice(s.baseBuffer, func(i, j int) bool {
		return s.compareFn(s.baseBuffer[i], s.baseBuffer[j])
	})
}

func (s *Sketch[C]) growLevelsIfNeededForBitPattern(bp uint64) {
	needed := levelsNeeded(bp)
	for len(s.levels) < needed {
		s.levels = append(s.levels, nil)
	}
}

// inPlacePropagateCarry ripple-carries a single bit addition at
// startingLevel into the level stack. When applyAsUpdate is true, buf is a
// sorted size-2k buffer zipped down into the terminal level; when false, buf
// is already a sorted size-k buffer moved directly into the terminal level
// (the merge path).
func (s *Sketch[C]) inPlacePropagateCarry(startingLevel int, buf []C, applyAsUpdate bool) {
	endingLevel := lowestZeroBitFrom(s.bitPattern, startingLevel)
	for len(s.levels) <= endingLevel {
		s.levels = append(s.levels, nil)
	}

	if applyAsUpdate {
		s.levels[endingLevel] = s.zip(buf)
	} else {
		moved := make([]C, len(buf))
		copy(moved, buf)
		s.levels[endingLevel] = moved
	}

	for lvl := startingLevel; lvl < endingLevel; lvl++ {
		merged := mergeTwoSizeKBuffers(s.levels[lvl], s.levels[endingLevel], s.compareFn)
		s.levels[lvl] = nil
		s.levels[endingLevel] = s.zip(merged)
	}

	s.bitPattern += uint64(1) << uint(startingLevel)
}

// zip halves a sorted size-2k buffer into a size-k buffer by taking every
// other element starting at a fair random offset in {0,1}.
func (s *Sketch[C]) zip(buf2k []C) []C {
	k := int(s.k)
	offset := s.randSource.NextBit()
	out := make([]C, k)
	for i := 0; i < k; i++ {
		out[i] = buf2k[2*i+offset]
	}
	return out
}

// mergeTwoSizeKBuffers performs a standard sorted merge of two size-k sorted
// inputs into a size-2k sorted output. Ties go to a.
func mergeTwoSizeKBuffers[C comparable](a, b []C, compareFn common.CompareFn[C]) []C {
	out := make([]C, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if compareFn(b[j], a[i]) {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
