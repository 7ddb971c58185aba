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

// Package quantiles implements the classic Agarwal/Cormode/Mitzenmacher/Thaler/Wang
// mergeable quantiles sketch: an unsorted base buffer backed by a bit-pattern
// addressed stack of sorted, size-k levels. Accuracy is controlled by a single
// parameter k; the normalized rank error is approximately 1.576/k^0.9726 for
// rank and quantile queries and 1.854/k^0.9657 for PMF queries.
//
// Reference: https://arxiv.org/abs/cs/0608054 "Space- and time-efficient
// deterministic algorithms for biased quantiles over data streams"
package quantiles
