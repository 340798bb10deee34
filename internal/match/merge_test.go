package match

import (
	"reflect"
	"testing"
)

func TestMergeSkillIDs(t *testing.T) {
	cases := []struct {
		name     string
		existing []string
		mined    []string
		want     []string
	}{
		{"both empty", nil, nil, []string{}},
		{"mined only", nil, []string{"a", "b"}, []string{"a", "b"}},
		{"existing kept first", []string{"a"}, []string{"b", "a"}, []string{"a", "b"}},
		{"duplicates collapsed", []string{"a", "a", ""}, []string{"a", "c"}, []string{"a", "c"}},
	}
	for _, tc := range cases {
		got := mergeSkillIDs(tc.existing, tc.mined)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: mergeSkillIDs(%v, %v) = %v, want %v",
				tc.name, tc.existing, tc.mined, got, tc.want)
		}
	}
}
