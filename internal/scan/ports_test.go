// internal/scan/ports_test.go
// Unit tests for port spec parsing

package scan

import (
	"reflect"
	"testing"
)

func TestParsePortSpec(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []int
	}{
		{
			name: "single port",
			spec: "22",
			want: []int{22},
		},
		{
			name: "comma list",
			spec: "22,80,443",
			want: []int{22, 80, 443},
		},
		{
			name: "range",
			spec: "20-23",
			want: []int{20, 21, 22, 23},
		},
		{
			name: "mixed list and range",
			spec: "21,22,80-82,8080",
			want: []int{21, 22, 80, 81, 82, 8080},
		},
		{
			name: "invalid token does not abort valid ones",
			spec: "21,22,80-82,99999",
			want: []int{21, 22, 80, 81, 82},
		},
		{
			name: "duplicates collapse",
			spec: "80,80,79-81",
			want: []int{79, 80, 81},
		},
		{
			name: "unsorted input sorts ascending",
			spec: "443,22,80",
			want: []int{22, 80, 443},
		},
		{
			name: "reversed range dropped",
			spec: "100-90,22",
			want: []int{22},
		},
		{
			name: "zero port dropped",
			spec: "0,22",
			want: []int{22},
		},
		{
			name: "garbage tokens dropped",
			spec: "abc,2 2,-,22",
			want: []int{22},
		},
		{
			name: "whitespace tolerated",
			spec: " 21 , 22 , 80 - 82 ",
			want: []int{21, 22, 80, 81, 82},
		},
		{
			name: "empty spec",
			spec: "",
			want: []int{},
		},
		{
			name: "fully invalid spec",
			spec: "foo,bar,0,70000",
			want: []int{},
		},
		{
			name: "boundary ports",
			spec: "1,65535",
			want: []int{1, 65535},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePortSpec(tt.spec)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePortSpec(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParsePortSpec_SortedUnique(t *testing.T) {
	got := ParsePortSpec("8080,21-25,22,443,21")
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("ports not strictly ascending at %d: %v", i, got)
		}
	}
}
