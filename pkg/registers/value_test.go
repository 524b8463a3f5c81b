// Copyright 2026 The Talismancer Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registers

import "testing"

func TestValueEqualityIgnoresKind(t *testing.T) {
	a := U64(42)
	b := I64(42)
	if !a.Equal(b) {
		t.Errorf("U64(42) and I64(42) should share a byte image")
	}
}

func TestValueEqualityDiffers(t *testing.T) {
	if U64(1).Equal(U64(2)) {
		t.Errorf("U64(1) should not equal U64(2)")
	}
}

func TestSignedRoundTrip(t *testing.T) {
	v := I32(-1)
	if v.AsU32() != 0xffffffff {
		t.Errorf("I32(-1) image = %#x, want 0xffffffff", v.AsU32())
	}
}

func TestNaturalSize(t *testing.T) {
	cases := []struct {
		v    Value
		want int
	}{
		{U8(1), 1},
		{I16(1), 2},
		{U32(1), 4},
		{F32(1), 4},
		{U64(1), 8},
		{F64(1), 8},
		{B64([8]byte{}), 8},
		{B128([16]byte{}), 16},
	}
	for _, c := range cases {
		if got := c.v.NaturalSize(); got != c.want {
			t.Errorf("NaturalSize(%v) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestFloatRoundTrip(t *testing.T) {
	v := F64(3.5)
	if v.AsF64() != 3.5 {
		t.Errorf("AsF64() = %v, want 3.5", v.AsF64())
	}
}
