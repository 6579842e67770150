// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer holds small generic helpers for optional (pointer) fields.
package pointer

// To returns a pointer to v. Handy for optional request fields in literals.
func To[T any](v T) *T {
	return &v
}

// Fallback dereferences p, or returns fallback when p is nil.
func Fallback[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
