package main

import (
	"reflect"
	"testing"
)

func TestCalculatePreloadIndices(t *testing.T) {
	pm := &PreloadManager{maxPreload: 4}

	tests := []struct {
		name      string
		current   int
		direction NavigationDirection
		pageCount int
		expected  []int
	}{
		{"Forward", 3, NavigationForward, 20, []int{4, 5, 6, 7}},
		{"Forward near the end", 17, NavigationForward, 20, []int{18, 19}},
		{"Backward", 10, NavigationBackward, 20, []int{9, 8, 7, 6}},
		{"Backward near the start", 1, NavigationBackward, 20, []int{0}},
		{"Jump splits both ways", 10, NavigationJump, 20, []int{11, 12, 9, 8}},
		{"Jump to first page", 0, NavigationJump, 20, []int{1, 2}},
		{"Single page", 0, NavigationForward, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pm.calculatePreloadIndices(tt.current, tt.direction, tt.pageCount)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("calculatePreloadIndices(%d, %s, %d) = %v, want %v",
					tt.current, tt.direction, tt.pageCount, got, tt.expected)
			}
		})
	}
}

func TestNavigationDirectionString(t *testing.T) {
	tests := map[NavigationDirection]string{
		NavigationForward:  "forward",
		NavigationBackward: "backward",
		NavigationJump:     "jump",
	}
	for dir, want := range tests {
		if got := dir.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
