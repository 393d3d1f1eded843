// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice adds the generic helpers missing from the standard [slices]
// package.
package slice

// Map applies transform to every element. The result is never nil, so an
// empty input still encodes as a JSON array.
func Map[T, U any](input []T, transform func(T) U) []U {
	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}

// Filter keeps the elements for which keep returns true.
func Filter[T any](input []T, keep func(T) bool) []T {
	var result []T
	for _, v := range input {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}
