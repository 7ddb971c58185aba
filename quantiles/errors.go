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

import "errors"

// ErrInvalidArgument is returned for out-of-range k, ranks outside [0,1],
// split points that are not strictly increasing, or a zero-length quantiles
// request.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrEmptySketch is returned when a query has no meaningful answer on an
// empty sketch (for example, requesting the minimum or maximum item).
var ErrEmptySketch = errors.New("sketch is empty")

// ErrCorruption is returned when deserialized bytes fail header validation:
// unknown serial version, unknown family id, a preamble/flags/version
// combination absent from the legal tuple table, or a truncated stream.
var ErrCorruption = errors.New("corrupt or unrecognized sketch image")

// ErrIoError wraps failures propagated from a caller-supplied SerDe during
// serialization or deserialization.
var ErrIoError = errors.New("I/O error")
