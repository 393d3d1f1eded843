// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangashelf/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, slice.Map([]int{1, 2}, strconv.Itoa))

	empty := slice.Map[int, string](nil, strconv.Itoa)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestFilter(t *testing.T) {
	nonEmpty := func(s string) bool { return s != "" }
	assert.Equal(t, []string{"a", "b"}, slice.Filter([]string{"", "a", "", "b"}, nonEmpty))
	assert.Nil(t, slice.Filter([]string{""}, nonEmpty))
}
