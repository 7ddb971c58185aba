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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsquantiles/quantiles-go/common"
)

func TestSketch_StringPayloadRoundTrip(t *testing.T) {
	sk, err := NewSketch[string](64, common.ItemSketchStringComparator(false), common.ItemSketchStringSerDe{})
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		require.NoError(t, sk.Update(fmt.Sprintf("item-%04d", i)))
	}
	minItem, err := sk.GetMinItem()
	require.NoError(t, err)
	assert.Equal(t, "item-0000", minItem)
	maxItem, err := sk.GetMaxItem()
	require.NoError(t, err)
	assert.Equal(t, "item-0499", maxItem)

	sl := sk.ToSlice()
	back, err := NewSketchFromSlice[string](sl, common.ItemSketchStringComparator(false), common.ItemSketchStringSerDe{})
	require.NoError(t, err)
	assert.Equal(t, sk.GetN(), back.GetN())
	backMin, err := back.GetMinItem()
	require.NoError(t, err)
	assert.Equal(t, minItem, backMin)
}

func TestSketch_Float32Payload(t *testing.T) {
	sk, err := NewSketch[float32](32, common.ItemSketchFloatComparator(false), common.ItemSketchFloatSerDe{})
	require.NoError(t, err)
	for i := 0; i < 300; i++ {
		require.NoError(t, sk.Update(float32(i)*1.5))
	}
	median, err := sk.GetQuantile(0.5, true)
	require.NoError(t, err)
	eps := sk.GetNormalizedRankError(false)
	assert.InDelta(t, 300*1.5*0.5, median, eps*300*1.5+5)
}
