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
	"sort"

	"github.com/dsquantiles/quantiles-go/common"
)

// quantileCalculator holds a sorted, weight-collapsed view of every retained
// item: items is ascending under compareFn and deduplicated, cumWeights[i]
// is the inclusive cumulative weight of all retained items <= items[i].
type quantileCalculator[C comparable] struct {
	items      []C
	cumWeights []uint64
	n          uint64
	compareFn  common.CompareFn[C]
}

func newQuantileCalculator[C comparable](s *Sketch[C]) (*quantileCalculator[C], error) {
	if s.n == 0 {
		return nil, fmt.Errorf("quantile calculator: %w", ErrEmptySketch)
	}
	if !s.isSorted {
		// Observable mutation even from a logically const query: sort the
		// base buffer in place but do not flip isSorted.
		s.sortBaseBuffer()
	}

	type weighted struct {
		item   C
		weight uint64
	}
	entries := make([]weighted, 0, len(s.baseBuffer)+int(s.k)*popcount(s.bitPattern))
	for _, it := range s.baseBuffer {
		entries = append(entries, weighted{it, 1})
	}
	for i := 0; i < len(s.levels); i++ {
		if s.bitPattern&(uint64(1)<<uint(i)) == 0 {
			continue
		}
		w := uint64(1) << uint(i+1)
		for _, it := range s.levels[i] {
			entries = append(entries, weighted{it, w})
		}
	}

	sort.Slice(entries, func(a, b int) bool {
		return s.compareFn(entries[a].item, entries[b].item)
	})

	items := make([]C, 0, len(entries))
	cumWeights := make([]uint64, 0, len(entries))
	var running uint64
	i := 0
	for i < len(entries) {
		j := i + 1
		groupWeight := entries[i].weight
		for j < len(entries) && !s.compareFn(entries[i].item, entries[j].item) && !s.compareFn(entries[j].item, entries[i].item) {
			groupWeight += entries[j].weight
			j++
		}
		running += groupWeight
		items = append(items, entries[i].item)
		cumWeights = append(cumWeights, running)
		i = j
	}

	return &quantileCalculator[C]{items: items, cumWeights: cumWeights, n: s.n, compareFn: s.compareFn}, nil
}

// getQuantile resolves a rank in (0,1) — the 0/1 edges are handled by the
// caller via min/max directly. inclusive selects the smallest item whose
// cumulative weight is >= the target weight; exclusive selects by strict >,
// falling back to the largest item with cumulative weight <= target.
func (qc *quantileCalculator[C]) getQuantile(rank float64, inclusive bool) (C, error) {
	target := rank * float64(qc.n)
	var idx int
	if inclusive {
		idx = sort.Search(len(qc.cumWeights), func(i int) bool {
			return float64(qc.cumWeights[i]) >= target
		})
	} else {
		idx = sort.Search(len(qc.cumWeights), func(i int) bool {
			return float64(qc.cumWeights[i]) > target
		})
	}
	if idx >= len(qc.items) {
		idx = len(qc.items) - 1
	}
	return qc.items[idx], nil
}
