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

import "math/rand"

// RandomBitSource supplies the fair random bit consumed once per zip during
// ripple-carry compaction. Sketches constructed without one fall back to
// defaultRandomBitSource, which wraps math/rand.
type RandomBitSource interface {
	NextBit() int
}

type defaultRandomBitSource struct {
	rnd *rand.Rand
}

// newDefaultRandomBitSource returns a RandomBitSource seeded from the
// process-wide random source.
func newDefaultRandomBitSource() *defaultRandomBitSource {
	return &defaultRandomBitSource{rnd: rand.New(rand.NewSource(rand.Int63()))}
}

func (d *defaultRandomBitSource) NextBit() int {
	return d.rnd.Intn(2)
}

// alternatingBitSource toggles 0/1/0/1... deterministically. Used by tests
// that need reproducible zip offsets comparable across implementations.
type alternatingBitSource struct {
	next int
}

// NewAlternatingBitSource returns a RandomBitSource that starts at bit 0 and
// flips on every call.
func NewAlternatingBitSource() RandomBitSource {
	return &alternatingBitSource{next: 0}
}

func (a *alternatingBitSource) NextBit() int {
	b := a.next
	a.next = 1 - a.next
	return b
}

// constantBitSource always returns the same bit. Used to test the two zip
// branches (odd positions vs even positions) independently.
type constantBitSource struct {
	bit int
}

// NewConstantBitSource returns a RandomBitSource that always yields bit.
func NewConstantBitSource(bit int) RandomBitSource {
	return &constantBitSource{bit: bit}
}

func (c *constantBitSource) NextBit() int {
	return c.bit
}
