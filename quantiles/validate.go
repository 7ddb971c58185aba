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

	"github.com/dsquantiles/quantiles-go/internal"
)

// sketchMemoryValidate parses and validates a serialized image's header
// before any payload is touched, mirroring kll's itemsSketchMemoryValidate.
type sketchMemoryValidate struct {
	preambleLongs int
	serialVersion int
	familyID      int
	empty         bool
	sorted        bool
	compact       bool
	k             uint16
	n             uint64
	dataStart     int
}

func newSketchMemoryValidate(mem []byte) (*sketchMemoryValidate, error) {
	if len(mem) < 8 {
		return nil, fmt.Errorf("%w: header truncated, need at least 8 bytes, got %d", ErrCorruption, len(mem))
	}
	preLongs := getPreambleLongs(mem)
	serVer := getSerVer(mem)
	famID := getFamilyID(mem)
	flags := getFlags(mem)
	empty := flags&_EMPTY_BIT_MASK != 0
	sorted := flags&_SORTED_BIT_MASK != 0
	compact := flags&_COMPACT_BIT_MASK != 0

	if famID != internal.FamilyEnum.Quantiles.Id {
		return nil, fmt.Errorf("%w: unrecognized family id %d", ErrCorruption, famID)
	}
	if serVer < _SER_VER_1 || serVer > _SER_VER_3 {
		return nil, fmt.Errorf("%w: unsupported serial version %d", ErrCorruption, serVer)
	}
	if !isLegalHeaderShape(preLongs, empty, serVer, compact) {
		return nil, fmt.Errorf("%w: illegal preamble/flags/version combination (preambleLongs=%d empty=%t serVer=%d compact=%t)",
			ErrCorruption, preLongs, empty, serVer, compact)
	}

	k := getK(mem)
	if err := checkK(k); err != nil {
		return nil, fmt.Errorf("%w: bad k in header: %v", ErrCorruption, err)
	}

	v := &sketchMemoryValidate{
		preambleLongs: preLongs,
		serialVersion: serVer,
		familyID:      famID,
		empty:         empty,
		sorted:        sorted,
		compact:       compact,
		k:             k,
		dataStart:     preLongs * 8,
	}
	if !empty {
		if len(mem) < _N_LONG_ADR+8 {
			return nil, fmt.Errorf("%w: header truncated before n", ErrCorruption)
		}
		v.n = getN(mem)
	}
	return v, nil
}
