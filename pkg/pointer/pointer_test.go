// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/artverify/pkg/pointer"
)

func TestTo(t *testing.T) {
	p := pointer.To(0)
	*p = 3

	assert.Equal(t, 3, *p)
	assert.False(t, *pointer.To(false))
}

func TestFallback(t *testing.T) {
	joined := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, joined, pointer.Fallback(&joined, now))
	assert.Equal(t, now, pointer.Fallback[time.Time](nil, now))
}
