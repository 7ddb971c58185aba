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

// Iterator walks a sketch's retained items, yielding each one with its
// weight: the base buffer first at weight 1, then each occupied level in
// order at weight 2^(i+1). It holds a back-reference to the sketch and is
// invalidated by any subsequent mutation.
type Iterator[C comparable] struct {
	sketch     *Sketch[C]
	level      int // -1 while walking the base buffer
	posInLevel int
	pos        int
	weight     uint64
	started    bool
}

// GetIterator returns a fresh Iterator over s's current retained items.
func (s *Sketch[C]) GetIterator() *Iterator[C] {
	return &Iterator[C]{sketch: s, level: -1, weight: 1}
}

// Next advances the iterator and reports whether a new (item, weight) pair
// is available.
func (it *Iterator[C]) Next() bool {
	s := it.sketch
	if !it.started {
		it.started = true
	} else {
		it.pos++
	}
	if it.level == -1 {
		if it.pos < len(s.baseBuffer) {
			return true
		}
		it.level = 0
		it.pos = 0
		it.weight = 2
	}
	for it.level < len(s.levels) {
		if s.bitPattern&(uint64(1)<<uint(it.level)) == 0 {
			it.level++
			it.weight <<= 1
			it.pos = 0
			continue
		}
		if it.pos < len(s.levels[it.level]) {
			return true
		}
		it.level++
		it.weight <<= 1
		it.pos = 0
	}
	return false
}

// GetItem returns the current item. Valid only after Next returns true.
func (it *Iterator[C]) GetItem() C {
	if it.level == -1 {
		return it.sketch.baseBuffer[it.pos]
	}
	return it.sketch.levels[it.level][it.pos]
}

// GetWeight returns the current item's weight. Valid only after Next
// returns true.
func (it *Iterator[C]) GetWeight() uint64 {
	if it.level == -1 {
		return 1
	}
	return it.weight
}
