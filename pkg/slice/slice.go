// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice compliments the standard [slices] package by providing functional
programming utilities (Map, Filter, Count) leveraging generics.
*/
package slice

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Filter filters a slice, returning only elements where the predicate function evaluates to true.
//
// A non-nil input always yields a non-nil result so empty matches encode as
// "[]" rather than "null".
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	// Not pre-allocating to full length to avoid excessive memory on heavy filters
	result := make([]T, 0)
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}

// Count returns how many elements satisfy predicate.
func Count[T any](input []T, predicate func(T) bool) int {
	n := 0
	for _, v := range input {
		if predicate(v) {
			n++
		}
	}
	return n
}
