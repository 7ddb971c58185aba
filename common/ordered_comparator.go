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

package common

import "golang.org/x/exp/constraints"

// OrderedComparator builds a CompareFn for any type with a natural <
// ordering, sparing callers a hand-written comparator for arithmetic and
// string payloads that don't otherwise need a bespoke SerDe.
func OrderedComparator[T constraints.Ordered](reverseOrder bool) CompareFn[T] {
	if reverseOrder {
		return func(a, b T) bool { return a > b }
	}
	return func(a, b T) bool { return a < b }
}

// OrderedMin returns the lesser of a and b under <.
func OrderedMin[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// OrderedMax returns the greater of a and b under <.
func OrderedMax[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
