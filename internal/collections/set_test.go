// Copyright 2026 EngFlow Inc. All rights reserved.
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

package collections

import "testing"

func TestToSetDeduplicates(t *testing.T) {
	s := ToSet([]string{"a", "b", "a", "c", "b"})
	if len(s) != 3 {
		t.Fatalf("ToSet length mismatch: expected 3, got %d", len(s))
	}
	for _, want := range []string{"a", "b", "c"} {
		if _, ok := s[want]; !ok {
			t.Errorf("ToSet missing element %q", want)
		}
	}
}

func TestSortedValues(t *testing.T) {
	s := ToSet([]string{"c", "a", "b"})
	got := s.SortedValues(func(l, r string) int {
		switch {
		case l < r:
			return -1
		case l > r:
			return 1
		default:
			return 0
		}
	})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("SortedValues length mismatch: expected %d, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortedValues[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
