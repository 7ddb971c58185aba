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
	"github.com/dsquantiles/quantiles-go/internal"
)

// GetQuantile returns the item at the given normalized rank. rank 0 and 1
// always return the exact min/max without building a calculator.
func (s *Sketch[C]) GetQuantile(rank float64, inclusive bool) (C, error) {
	var zero C
	if rank < 0 || rank > 1 {
		return zero, fmt.Errorf("%w: rank must be in [0,1]: %v", ErrInvalidArgument, rank)
	}
	if s.n == 0 {
		return zero, fmt.Errorf("GetQuantile: %w", ErrEmptySketch)
	}
	if rank == 0 {
		return *s.minItem, nil
	}
	if rank == 1 {
		return *s.maxItem, nil
	}
	qc, err := newQuantileCalculator(s)
	if err != nil {
		return zero, err
	}
	return qc.getQuantile(rank, inclusive)
}

// GetQuantiles returns the items at each of the given normalized ranks,
// sharing a single calculator build across the whole batch.
func (s *Sketch[C]) GetQuantiles(ranks []float64, inclusive bool) ([]C, error) {
	if len(ranks) == 0 {
		return nil, fmt.Errorf("%w: GetQuantiles requires at least one rank", ErrInvalidArgument)
	}
	if s.n == 0 {
		return nil, fmt.Errorf("GetQuantiles: %w", ErrEmptySketch)
	}
	for _, r := range ranks {
		if r < 0 || r > 1 {
			return nil, fmt.Errorf("%w: rank must be in [0,1]: %v", ErrInvalidArgument, r)
		}
	}
	qc, err := newQuantileCalculator(s)
	if err != nil {
		return nil, err
	}
	out := make([]C, len(ranks))
	for i, r := range ranks {
		switch r {
		case 0:
			out[i] = *s.minItem
		case 1:
			out[i] = *s.maxItem
		default:
			v, err := qc.getQuantile(r, inclusive)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
	}
	return out, nil
}

// GetRank returns the fraction of retained weight at or below value (or
// strictly below, if !inclusive). NaN on an empty sketch.
func (s *Sketch[C]) GetRank(value C, inclusive bool) float64 {
	if s.n == 0 {
		return math.NaN()
	}
	var total uint64
	for _, it := range s.baseBuffer {
		if (inclusive && !s.compareFn(value, it)) || (!inclusive && s.compareFn(it, value)) {
			total++
		}
	}
	for i := 0; i < len(s.levels); i++ {
		if s.bitPattern&(uint64(1)<<uint(i)) == 0 {
			continue
		}
		lvl := s.levels[i]
		weight := uint64(1) << uint(i+1)
		var crit internal.Inequality
		if inclusive {
			crit = internal.InequalityLE
		} else {
			crit = internal.InequalityLT
		}
		idx := internal.FindWithInequality(lvl, 0, len(lvl)-1, value, crit, s.compareFn)
		total += uint64(idx+1) * weight
	}
	return float64(total) / float64(s.n)
}

// GetCDF returns, for strictly increasing splitPoints, a slice of length
// len(splitPoints)+1 where out[i] = GetRank(splitPoints[i]) and the final
// entry is always 1.0.
func (s *Sketch[C]) GetCDF(splitPoints []C, inclusive bool) ([]float64, error) {
	if err := checkSplitPoints(splitPoints, s.compareFn); err != nil {
		return nil, err
	}
	out := make([]float64, len(splitPoints)+1)
	for i, sp := range splitPoints {
		out[i] = s.GetRank(sp, inclusive)
	}
	out[len(splitPoints)] = 1.0
	return out, nil
}

// GetPMF returns the probability mass between consecutive split points,
// derived from GetCDF by differencing from the top bucket down.
func (s *Sketch[C]) GetPMF(splitPoints []C, inclusive bool) ([]float64, error) {
	cdf, err := s.GetCDF(splitPoints, inclusive)
	if err != nil {
		return nil, err
	}
	pmf := make([]float64, len(cdf))
	for i := len(cdf) - 1; i >= 1; i-- {
		pmf[i] = cdf[i] - cdf[i-1]
	}
	pmf[0] = cdf[0]
	return pmf, nil
}

func checkSplitPoints[C comparable](splitPoints []C, compareFn common.CompareFn[C]) error {
	for i := 1; i < len(splitPoints); i++ {
		if !compareFn(splitPoints[i-1], splitPoints[i]) {
			return fmt.Errorf("%w: split points must be strictly increasing", ErrInvalidArgument)
		}
	}
	return nil
}
