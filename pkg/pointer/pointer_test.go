// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangashelf/pkg/pointer"
)

func TestPointer(t *testing.T) {
	assert.Equal(t, 3, pointer.Val(pointer.To(3)))
	assert.Equal(t, "", pointer.Val[string](nil))
	assert.Equal(t, "fallback", pointer.Fallback(nil, "fallback"))
	assert.Equal(t, "set", pointer.Fallback(pointer.To("set"), "fallback"))

	assert.Nil(t, pointer.NilIfZero(""))
	assert.Equal(t, "Reading", *pointer.NilIfZero("Reading"))
}
