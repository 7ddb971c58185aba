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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsquantiles/quantiles-go/common"
	"github.com/dsquantiles/quantiles-go/internal"
)

func TestSerialization_EmptyRoundTrip(t *testing.T) {
	sk := newLongSketch(t, 128)
	sl := sk.ToSlice()
	assert.Equal(t, _DATA_START_ADR_EMPTY, len(sl))

	back, err := NewSketchFromSlice[int64](sl, common.ItemSketchLongComparator(false), common.ItemSketchLongSerDe{})
	require.NoError(t, err)
	assert.True(t, back.IsEmpty())
	assert.Equal(t, sk.GetK(), back.GetK())
}

func TestSerialization_RoundTripPreservesQuantiles(t *testing.T) {
	sk := newLongSketch(t, 128)
	for i := int64(1); i <= 2000; i++ {
		require.NoError(t, sk.Update(i))
	}

	sl := sk.ToSlice()
	assert.Equal(t, sk.GetSerializedSizeBytes(), len(sl))

	back, err := NewSketchFromSlice[int64](sl, common.ItemSketchLongComparator(false), common.ItemSketchLongSerDe{})
	require.NoError(t, err)

	assert.Equal(t, sk.GetN(), back.GetN())
	assert.Equal(t, sk.GetK(), back.GetK())
	assert.Equal(t, sk.GetNumRetained(), back.GetNumRetained())

	origMin, _ := sk.GetMinItem()
	backMin, _ := back.GetMinItem()
	assert.Equal(t, origMin, backMin)

	origMax, _ := sk.GetMaxItem()
	backMax, _ := back.GetMaxItem()
	assert.Equal(t, origMax, backMax)

	for _, r := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
		origQ, err := sk.GetQuantile(r, true)
		require.NoError(t, err)
		backQ, err := back.GetQuantile(r, true)
		require.NoError(t, err)
		assert.Equal(t, origQ, backQ)
	}
}

func TestSerialization_ToSliceDeterministicAcrossRepeats(t *testing.T) {
	k := uint16(16)
	sk, err := NewSketchWithRandomSource[int64](k, common.ItemSketchLongComparator(false), common.ItemSketchLongSerDe{}, NewAlternatingBitSource())
	require.NoError(t, err)
	for i := int64(1); i <= 500; i++ {
		require.NoError(t, sk.Update(i))
	}

	first := sk.ToSlice()
	second := sk.ToSlice()
	assert.Equal(t, first, second)
}

func TestSerialization_CorruptFamilyID(t *testing.T) {
	sk := newLongSketch(t, 128)
	for i := int64(1); i <= 50; i++ {
		require.NoError(t, sk.Update(i))
	}
	sl := sk.ToSlice()
	sl[_FAMILY_BYTE_ADR] = byte(internal.FamilyEnum.Quantiles.Id + 1)

	_, err := NewSketchFromSlice[int64](sl, common.ItemSketchLongComparator(false), common.ItemSketchLongSerDe{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruption))
}

func TestSerialization_CorruptSerialVersion(t *testing.T) {
	sk := newLongSketch(t, 128)
	for i := int64(1); i <= 50; i++ {
		require.NoError(t, sk.Update(i))
	}
	sl := sk.ToSlice()
	sl[_SER_VER_BYTE_ADR] = 99

	_, err := NewSketchFromSlice[int64](sl, common.ItemSketchLongComparator(false), common.ItemSketchLongSerDe{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruption))
}

func TestSerialization_TruncatedHeader(t *testing.T) {
	_, err := NewSketchFromSlice[int64]([]byte{1, 2, 3}, common.ItemSketchLongComparator(false), common.ItemSketchLongSerDe{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruption))
}

func TestSerialization_IllegalHeaderShape(t *testing.T) {
	sk := newLongSketch(t, 128)
	for i := int64(1); i <= 50; i++ {
		require.NoError(t, sk.Update(i))
	}
	sl := sk.ToSlice()
	// Flip the compact bit while leaving preambleLongs=2, serVer=3, empty=false:
	// (2, false, 3, false) is legal, but forcing empty=true with compact
	// cleared yields (2, true, 3, false), which is also legal; instead corrupt
	// preambleLongs directly to a shape absent from the table.
	sl[_PREAMBLE_LONGS_BYTE_ADR] = 3

	_, err := NewSketchFromSlice[int64](sl, common.ItemSketchLongComparator(false), common.ItemSketchLongSerDe{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruption))
}

func TestSerialization_FloatSketchRoundTrip(t *testing.T) {
	sk, err := NewSketch[float64](128, common.ItemSketchDoubleComparator(false), common.ItemSketchDoubleSerDe{})
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		require.NoError(t, sk.Update(float64(i)*0.5))
	}
	sl := sk.ToSlice()
	back, err := NewSketchFromSlice[float64](sl, common.ItemSketchDoubleComparator(false), common.ItemSketchDoubleSerDe{})
	require.NoError(t, err)
	assert.Equal(t, sk.GetN(), back.GetN())

	origMax, _ := sk.GetMaxItem()
	backMax, _ := back.GetMaxItem()
	assert.InDelta(t, origMax, backMax, numericNoiseTolerance)
}
