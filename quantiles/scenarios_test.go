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
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsquantiles/quantiles-go/common"
)

// TestScenario_OrderedIntegers1To1000 is scenario 1: k=128, integers 1..1000
// in order, checking n/min/max and that the median estimate and its rank
// both land within the sketch's own error bound.
func TestScenario_OrderedIntegers1To1000(t *testing.T) {
	sk := newLongSketch(t, 128)
	for i := int64(1); i <= 1000; i++ {
		require.NoError(t, sk.Update(i))
	}
	assert.Equal(t, uint64(1000), sk.GetN())
	minItem, _ := sk.GetMinItem()
	maxItem, _ := sk.GetMaxItem()
	assert.Equal(t, int64(1), minItem)
	assert.Equal(t, int64(1000), maxItem)

	eps := sk.GetNormalizedRankError(false)
	median, err := sk.GetQuantile(0.5, true)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, float64(median), 500-eps*1000)
	assert.LessOrEqual(t, float64(median), 500+eps*1000)

	r := sk.GetRank(int64(500), true)
	assert.InDelta(t, 0.5, r, eps+0.01)
}

// TestScenario_ForcedCompactionAt2K is scenario 2: k=8, 16 ordered updates
// force exactly one compaction. The occupied level must hold 8 of the 16
// original values, sorted, and the base buffer must be empty afterward.
func TestScenario_ForcedCompactionAt2K(t *testing.T) {
	k := uint16(8)
	sk, err := NewSketchWithRandomSource[int64](k, common.ItemSketchLongComparator(false), common.ItemSketchLongSerDe{}, NewAlternatingBitSource())
	require.NoError(t, err)
	for i := int64(1); i <= 16; i++ {
		require.NoError(t, sk.Update(i))
	}

	assert.Equal(t, uint64(1), sk.bitPattern)
	assert.Empty(t, sk.baseBuffer)
	require.Len(t, sk.levels, 1)
	require.Len(t, sk.levels[0], int(k))

	seen := make(map[int64]bool, k)
	for _, v := range sk.levels[0] {
		assert.GreaterOrEqual(t, v, int64(1))
		assert.LessOrEqual(t, v, int64(16))
		seen[v] = true
	}
	assert.Len(t, seen, int(k), "level items must be distinct originals")
	assert.True(t, sort.SliceIsSorted(sk.levels[0], func(i, j int) bool { return sk.levels[0][i] < sk.levels[0][j] }))
}

// TestScenario_RoundTripIsStable is scenario 3: serialize, deserialize,
// serialize again — the two byte sequences must match exactly.
func TestScenario_RoundTripIsStable(t *testing.T) {
	sk := newLongSketch(t, 32)
	for i := int64(1); i <= 777; i++ {
		require.NoError(t, sk.Update(i))
	}
	first := sk.ToSlice()

	back, err := NewSketchFromSlice[int64](first, common.ItemSketchLongComparator(false), common.ItemSketchLongSerDe{})
	require.NoError(t, err)

	second := back.ToSlice()
	assert.Equal(t, first, second)
}

// TestScenario_EmptySketchBehavior is scenario 4.
func TestScenario_EmptySketchBehavior(t *testing.T) {
	sk := newLongSketch(t, 128)
	assert.Equal(t, uint64(0), sk.GetN())

	_, err := sk.GetQuantile(0.5, true)
	assert.ErrorIs(t, err, ErrEmptySketch)

	assert.True(t, math.IsNaN(sk.GetRank(int64(42), true)))

	cdf, err := sk.GetCDF(nil, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0}, cdf)
}

// TestScenario_InvalidKRejected is scenario 5.
func TestScenario_InvalidKRejected(t *testing.T) {
	_, err := NewSketch[int64](1, common.ItemSketchLongComparator(false), common.ItemSketchLongSerDe{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// TestScenario_CorruptHeaderRejected is scenario 6.
func TestScenario_CorruptHeaderRejected(t *testing.T) {
	sk := newLongSketch(t, 128)
	for i := int64(1); i <= 10; i++ {
		require.NoError(t, sk.Update(i))
	}
	sl := sk.ToSlice()
	sl[_FAMILY_BYTE_ADR] ^= 0xFF

	_, err := NewSketchFromSlice[int64](sl, common.ItemSketchLongComparator(false), common.ItemSketchLongSerDe{})
	assert.ErrorIs(t, err, ErrCorruption)
}

// TestInvariant_BitPatternAndBaseBufferSize checks the core invariant after
// every update across a stream long enough to pass through several
// compactions.
func TestInvariant_BitPatternAndBaseBufferSize(t *testing.T) {
	k := uint16(16)
	sk := newLongSketch(t, k)
	twoK := uint64(2 * k)
	for i := int64(1); i <= 5000; i++ {
		require.NoError(t, sk.Update(i))
		assert.Equal(t, sk.n/twoK, sk.bitPattern)
		assert.Equal(t, int(sk.n%twoK), len(sk.baseBuffer))
		assert.Equal(t, popcount(sk.bitPattern), countOccupiedLevels(sk))
		assert.Equal(t, len(sk.baseBuffer)+int(k)*popcount(sk.bitPattern), sk.GetNumRetained())
	}
}

func countOccupiedLevels[C comparable](s *Sketch[C]) int {
	n := 0
	for i := range s.levels {
		if s.bitPattern&(uint64(1)<<uint(i)) != 0 {
			n++
		}
	}
	return n
}

// TestLaw_RankAndQuantileEndpoints checks get_quantile(0)==min,
// get_quantile(1)==max and rank(max)==1.0 on a non-empty sketch.
func TestLaw_RankAndQuantileEndpoints(t *testing.T) {
	sk := newLongSketch(t, 128)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 3000; i++ {
		require.NoError(t, sk.Update(rng.Int63n(1_000_000)))
	}
	minItem, _ := sk.GetMinItem()
	maxItem, _ := sk.GetMaxItem()

	q0, err := sk.GetQuantile(0, true)
	require.NoError(t, err)
	assert.Equal(t, minItem, q0)

	q1, err := sk.GetQuantile(1, true)
	require.NoError(t, err)
	assert.Equal(t, maxItem, q1)

	assert.Equal(t, 1.0, sk.GetRank(maxItem, true))
}

// TestLaw_ErrorBoundOnUniformStream checks that estimated quantiles track
// their true rank within the sketch's own normalized rank error, with
// slack for the statistical nature of the guarantee.
func TestLaw_ErrorBoundOnUniformStream(t *testing.T) {
	k := uint16(128)
	sk := newLongSketch(t, k)
	rng := rand.New(rand.NewSource(7))
	n := 20000
	values := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		v := rng.Int63n(1_000_000)
		values = append(values, v)
		require.NoError(t, sk.Update(v))
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	eps := sk.GetNormalizedRankError(false)
	for _, q := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
		est, err := sk.GetQuantile(q, true)
		require.NoError(t, err)
		trueRank := sort.Search(len(values), func(i int) bool { return values[i] >= est }) + 1
		trueQ := float64(trueRank) / float64(n)
		assert.InDelta(t, q, trueQ, eps*5, "quantile %v: estimated rank %v out of tolerance", q, trueQ)
	}
}
