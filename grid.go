package main

import "iter"

// Points enumerates the grid of a single target. Dimensions are nested in
// declared order: the first dimension is the outermost loop and the last
// one changes fastest. A sweep without dimensions has exactly one point per
// target. The sequence can be ranged over any number of times and yields the
// same points each time.
func (s SweepSpec) Points(target BenchmarkTarget) iter.Seq[GridPoint] {
	return func(yield func(GridPoint) bool) {
		for _, dim := range s.Dimensions {
			if len(dim.Values) == 0 {
				return
			}
		}
		cursor := make([]int, len(s.Dimensions))
		for index := 0; ; index++ {
			values := make([]string, len(s.Dimensions))
			for i, dim := range s.Dimensions {
				values[i] = dim.Values[cursor[i]]
			}
			if !yield(GridPoint{Target: target, Values: values, Index: index}) {
				return
			}
			if !advance(cursor, s.Dimensions) {
				return
			}
		}
	}
}

// Grid enumerates the points of every target, targets outermost.
func (s SweepSpec) Grid() iter.Seq[GridPoint] {
	return func(yield func(GridPoint) bool) {
		for _, target := range s.Targets {
			for point := range s.Points(target) {
				if !yield(point) {
					return
				}
			}
		}
	}
}

// PointsPerTarget is the size of one target sweep.
func (s SweepSpec) PointsPerTarget() int {
	size := 1
	for _, dim := range s.Dimensions {
		size *= len(dim.Values)
	}
	return size
}

// advance moves the odometer one step and reports false once it wraps around.
func advance(cursor []int, dims []Dimension) bool {
	for i := len(cursor) - 1; i >= 0; i-- {
		cursor[i]++
		if cursor[i] < len(dims[i].Values) {
			return true
		}
		cursor[i] = 0
	}
	return false
}
