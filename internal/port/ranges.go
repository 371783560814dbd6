package port

import (
	"github.com/juju/collections/set"

	"github.com/shinji-kodama/port-for/internal/model"
)

// RangesToSet expands each inclusive range into its member ports and
// returns their union.
//
// Example:
//
//	RangesToSet([]model.Range{{1, 3}, {5, 6}}) → {1, 2, 3, 5, 6}
func RangesToSet(ranges []model.Range) set.Ints {
	ports := set.NewInts()
	for _, r := range ranges {
		for p := r.Low; p <= r.High; p++ {
			ports.Add(p)
		}
	}
	return ports
}

// ToRanges groups a sorted, duplicate-free list of ports into maximal
// runs of consecutive values. A port with no neighbours becomes a
// single-port range.
//
// The input must already be sorted ascending and unique (use
// set.Ints.SortedValues); other input produces undefined groupings.
//
// Example:
//
//	ToRanges([]int{1, 2, 3, 5, 6}) → [{1, 3}, {5, 6}]
func ToRanges(ports []int) []model.Range {
	var ranges []model.Range
	for i, p := range ports {
		// Extend the current run while values stay consecutive.
		if i > 0 && p == ports[i-1]+1 {
			ranges[len(ranges)-1].High = p
			continue
		}
		ranges = append(ranges, model.Range{Low: p, High: p})
	}
	return ranges
}

// SetToRanges is a convenience wrapper for ToRanges(ports.SortedValues()).
func SetToRanges(ports set.Ints) []model.Range {
	return ToRanges(ports.SortedValues())
}
