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
	"math"

	"github.com/dsquantiles/quantiles-go/common"
)

// Sketch is a mergeable approximate quantiles sketch over items of type C.
// It tracks an unsorted base buffer of capacity up to 2k and a bit-pattern
// addressed stack of sorted, size-k levels; level i represents 2^(i+1)*k
// stream items. Accuracy is governed by k alone.
type Sketch[C comparable] struct {
	k          uint16
	n          uint64
	bitPattern uint64
	baseBuffer []C
	levels     [][]C
	minItem    *C
	maxItem    *C
	isSorted   bool

	compareFn   common.CompareFn[C]
	serde       common.ItemSketchSerde[C]
	randSource  RandomBitSource
	isValidItem func(C) bool
}

// NewSketch constructs an empty sketch with the given resolution. compareFn
// must be a strict-weak total order; serde must be able to round-trip a run
// of items to and from bytes.
func NewSketch[C comparable](k uint16, compareFn common.CompareFn[C], serde common.ItemSketchSerde[C]) (*Sketch[C], error) {
	return newSketch(k, compareFn, serde, nil, newDefaultRandomBitSource())
}

// NewSketchWithDefaultK constructs an empty sketch at the default resolution.
func NewSketchWithDefaultK[C comparable](compareFn common.CompareFn[C], serde common.ItemSketchSerde[C]) (*Sketch[C], error) {
	return NewSketch[C](_DEFAULT_K, compareFn, serde)
}

// NewSketchWithValidator is like NewSketch but additionally rejects items for
// which isValidItem returns false (used, for example, to silently drop NaN
// for float64 payloads). A nil isValidItem accepts everything.
func NewSketchWithValidator[C comparable](k uint16, compareFn common.CompareFn[C], serde common.ItemSketchSerde[C], isValidItem func(C) bool) (*Sketch[C], error) {
	return newSketch(k, compareFn, serde, isValidItem, newDefaultRandomBitSource())
}

// NewSketchWithRandomSource is like NewSketch but lets the caller supply the
// random bit source consumed by zip during compaction, for reproducible
// tests or cross-implementation comparison.
func NewSketchWithRandomSource[C comparable](k uint16, compareFn common.CompareFn[C], serde common.ItemSketchSerde[C], randSource RandomBitSource) (*Sketch[C], error) {
	return newSketch(k, compareFn, serde, nil, randSource)
}

func newSketch[C comparable](k uint16, compareFn common.CompareFn[C], serde common.ItemSketchSerde[C], isValidItem func(C) bool, randSource RandomBitSource) (*Sketch[C], error) {
	if err := checkK(k); err != nil {
		return nil, err
	}
	if compareFn == nil {
		return nil, fmt.Errorf("%w: no compare function provided", ErrInvalidArgument)
	}
	if serde == nil {
		return nil, fmt.Errorf("%w: no SerDe provided", ErrInvalidArgument)
	}
	return &Sketch[C]{
		k:           k,
		compareFn:   compareFn,
		serde:       serde,
		randSource:  randSource,
		isValidItem: isValidItem,
		isSorted:    true,
	}, nil
}

// IsFiniteFloat64 is a ready-made validator rejecting NaN, for use with
// NewSketchWithValidator on float64 payloads. Only NaN is rejected: positive
// and negative infinity are accepted.
func IsFiniteFloat64(v float64) bool {
	return !math.IsNaN(v)
}

// GetK returns the configured resolution.
func (s *Sketch[C]) GetK() uint16 { return s.k }

// GetN returns the total number of successfully ingested items.
func (s *Sketch[C]) GetN() uint64 { return s.n }

// IsEmpty reports whether the sketch has never been updated.
func (s *Sketch[C]) IsEmpty() bool { return s.n == 0 }

// IsEstimationMode reports whether any level is occupied, i.e. the sketch is
// estimating rather than holding exact retained data.
func (s *Sketch[C]) IsEstimationMode() bool { return s.bitPattern != 0 }

// GetNumRetained returns the number of items actually stored.
func (s *Sketch[C]) GetNumRetained() int {
	return len(s.baseBuffer) + int(s.k)*popcount(s.bitPattern)
}

// GetMinItem returns the smallest item ever seen, or ErrEmptySketch.
func (s *Sketch[C]) GetMinItem() (C, error) {
	var zero C
	if s.n == 0 {
		return zero, fmt.Errorf("GetMinItem: %w", ErrEmptySketch)
	}
	return *s.minItem, nil
}

// GetMaxItem returns the largest item ever seen, or ErrEmptySketch.
func (s *Sketch[C]) GetMaxItem() (C, error) {
	var zero C
	if s.n == 0 {
		return zero, fmt.Errorf("GetMaxItem: %w", ErrEmptySketch)
	}
	return *s.maxItem, nil
}

// GetNormalizedRankError returns the approximate normalized rank error bound
// for this sketch's k, for PMF queries if isPmf is true, else for rank and
// quantile queries.
func (s *Sketch[C]) GetNormalizedRankError(isPmf bool) float64 {
	return normalizedRankError(s.k, isPmf)
}

func normalizedRankError(k uint16, isPmf bool) float64 {
	kf := float64(k)
	if isPmf {
		return 1.854 / math.Pow(kf, 0.9657)
	}
	return 1.576 / math.Pow(kf, 0.9726)
}

// Reset returns the sketch to its just-constructed, empty state. The
// comparator, SerDe and random source are kept.
func (s *Sketch[C]) Reset() {
	s.n = 0
	s.bitPattern = 0
	s.baseBuffer = nil
	s.levels = nil
	s.minItem = nil
	s.maxItem = nil
	s.isSorted = true
}

// Update ingests a single item. Items failing the configured validator (if
// any) are silently dropped.
func (s *Sketch[C]) Update(item C) error {
	if s.isValidItem != nil && !s.isValidItem(item) {
		return nil
	}
	if s.n == 0 {
		minCopy := item
		maxCopy := item
		s.minItem = &minCopy
		s.maxItem = &maxCopy
	} else {
		if s.compareFn(item, *s.minItem) {
			minCopy := item
			s.minItem = &minCopy
		}
		if s.compareFn(*s.maxItem, item) {
			maxCopy := item
			s.maxItem = &maxCopy
		}
	}

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
		if err := s.processFullBaseBuffer(); err != nil {
			return err
		}
	}
	return nil
}

// ToString returns a diagnostic summary, optionally including per-level
// occupancy and, if printItems, the raw retained items.
func (s *Sketch[C]) ToString(printLevels bool, printItems bool) string {
	out := fmt.Sprintf(
		"### Quantiles Sketch Summary:\n   K                            : %d\n   N                            : %d\n   Epsilon                      : %.4f%%\n   Epsilon PMF                  : %.4f%%\n   Empty?                       : %t\n   Estimation Mode?             : %t\n   Levels Needed                : %d\n   Level Bit Pattern             : %b\n   Retained Items                : %d\n   Bytes (estimated)             : %d\n",
		s.k, s.n, normalizedRankError(s.k, false)*100, normalizedRankError(s.k, true)*100,
		s.IsEmpty(), s.IsEstimationMode(), len(s.levels), s.bitPattern, s.GetNumRetained(), s.GetSerializedSizeBytes())
	if printLevels {
		out += "### Levels:\n"
		for i, lvl := range s.levels {
			occupied := s.bitPattern&(1<<uint(i)) != 0
			out += fmt.Sprintf("   level %2d: occupied=%t len=%d\n", i, occupied, len(lvl))
			if printItems && occupied {
				out += fmt.Sprintf("      %v\n", lvl)
			}
		}
	}
	if printItems {
		out += fmt.Sprintf("### Base Buffer:\n   %v\n", s.baseBuffer)
	}
	out += "### End sketch summary\n"
	return out
}
