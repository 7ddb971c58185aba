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
	"math/bits"

	"github.com/dsquantiles/quantiles-go/internal"
)

const (
	_MIN_K     = uint16(2)
	_MAX_K     = uint16(32768)
	_DEFAULT_K = uint16(128)
)

func checkK(k uint16) error {
	if k < _MIN_K || k > _MAX_K {
		return fmt.Errorf("%w: k must be >= %d and <= %d: %d", ErrInvalidArgument, _MIN_K, _MAX_K, k)
	}
	return nil
}

// computeBitPattern returns n / (2k), the occupancy mask of the level stack.
func computeBitPattern(n uint64, k uint16) uint64 {
	return n / (2 * uint64(k))
}

// computeBaseBufferItems returns n mod (2k), the number of items that belong
// in the base buffer for a given n.
func computeBaseBufferItems(n uint64, k uint16) int {
	return int(n % (2 * uint64(k)))
}

// computeRetainedItems returns the number of items actually stored across
// base buffer and occupied levels, matching get_num_retained.
func computeRetainedItems(n uint64, k uint16) int {
	return computeBaseBufferItems(n, k) + int(k)*popcount(computeBitPattern(n, k))
}

// levelsNeeded mirrors the C++ reference's 64 - count_leading_zeros(bitPattern),
// which evaluates to 64 when bitPattern is 0. That case is special-cased here:
// an empty or sub-2k sketch needs zero levels, so 0 is returned for it.
func levelsNeeded(bitPattern uint64) int {
	if bitPattern == 0 {
		return 0
	}
	return 64 - int(internal.CountLeadingZerosInU64(bitPattern))
}

func popcount(bitPattern uint64) int {
	return bits.OnesCount64(bitPattern)
}

// lowestZeroBitFrom returns the index of the lowest unset bit of bitPattern
// at or above startingLevel, i.e. the ripple-carry terminus.
func lowestZeroBitFrom(bitPattern uint64, startingLevel int) int {
	lvl := startingLevel
	mask := uint64(1) << uint(lvl)
	for bitPattern&mask != 0 {
		lvl++
		mask <<= 1
	}
	return lvl
}
