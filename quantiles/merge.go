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

import "fmt"

// Merge folds other into s. Both sketches must share k; this module does not
// implement the cross-k downsampling variant of the reference algorithm (see
// the design ledger). other is left unmodified.
//
// other's base buffer items are replayed through Update one at a time
// (weight 1 each, possibly triggering compactions of their own); other's
// occupied levels are ripple-carried directly into s at their original
// depth, each in O(k), preserving their weight.
func (s *Sketch[C]) Merge(other *Sketch[C]) error {
	if other == nil || other.n == 0 {
		return nil
	}
	if other.k != s.k {
		return fmt.Errorf("%w: merge requires equal k, got %d and %d", ErrInvalidArgument, s.k, other.k)
	}

	if s.n == 0 {
		minCopy := *other.minItem
		maxCopy := *other.maxItem
		s.minItem = &minCopy
		s.maxItem = &maxCopy
	} else {
		if s.compareFn(*other.minItem, *s.minItem) {
			minCopy := *other.minItem
			s.minItem = &minCopy
		}
		if s.compareFn(*s.maxItem, *other.maxItem) {
			maxCopy := *other.maxItem
			s.maxItem = &maxCopy
		}
	}

	otherBase := make([]C, len(other.baseBuffer))
	copy(otherBase, other.baseBuffer)
	levelsWeight := other.n - uint64(len(otherBase))

	for _, item := range otherBase {
		if err := s.updateFromMerge(item); err != nil {
			return err
		}
	}

	if levelsWeight > 0 {
		s.growLevelsIfNeededForBitPattern(s.bitPattern + other.bitPattern)
		for i := 0; i < len(other.levels); i++ {
			if other.bitPattern&(uint64(1)<<uint(i)) == 0 {
				continue
			}
			s.inPlacePropagateCarry(i, other.levels[i], false)
		}
		s.n += levelsWeight
	}
	return nil
}

// updateFromMerge replays a single weight-1 item from another sketch without
// touching min/max, which Merge has already folded in from other's summary
// (other's min/max may not coincide with any single replayed item once both
// sketches' levels are involved).
func (s *Sketch[C]) updateFromMerge(item C) error {
	twoK := 2 * int(s.k)
	if len(s.baseBuffer)+1 > cap(s.baseBuffer) {
		newCap := twoK
		if grown := 2 * cap(s.baseBuffer); grown < newCap {
			newCap = grown
		}
		if newCap < 1 {
			newCap = 1
		}
		grownBuf := make([]C, len(s.baseBuffer), newCap)
		copy(grownBuf, s.baseBuffer)
		s.baseBuffer = grownBuf
	}
	s.baseBuffer = append(s.baseBuffer, item)
	s.n++
	if len(s.baseBuffer) > 1 {
		s.isSorted = false
	}
	if len(s.baseBuffer) == twoK {
		return s.processFullBaseBuffer()
	}
	return nil
}
