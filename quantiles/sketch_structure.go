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

// headerShape is the (preambleLongs, empty, serialVersion, compact) tuple read
// from a serialized image's first bytes. Only a fixed enumeration of shapes
// is legal across serial versions 1-3; anything else is a corrupt header.
type headerShape struct {
	preambleLongs int
	empty         bool
	serialVersion int
	compact       bool
}

var legalHeaderShapes = map[headerShape]bool{
	{1, true, 1, false}:  true,
	{5, false, 1, false}: true,
	{1, true, 2, true}:   true,
	{2, false, 2, true}:  true,
	{1, true, 3, true}:   true,
	{1, true, 3, false}:  true,
	{2, true, 3, true}:   true,
	{2, true, 3, false}:  true,
	{2, false, 3, true}:  true,
	{2, false, 3, false}: true,
}

func isLegalHeaderShape(preambleLongs int, empty bool, serialVersion int, compact bool) bool {
	return legalHeaderShapes[headerShape{preambleLongs, empty, serialVersion, compact}]
}
