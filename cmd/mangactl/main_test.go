// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestRootCommand_Tree registers every operator command.
*/
func TestRootCommand_Tree(t *testing.T) {
	root := (&cli{}).rootCommand()

	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"seed"},
		{"fanout"},
	} {
		command, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], command.Name())
	}
}

/*
TestFanout_RequiresChapterID rejects the call before any configuration is
loaded.
*/
func TestFanout_RequiresChapterID(t *testing.T) {
	app := &cli{}
	root := app.rootCommand()
	root.SetArgs([]string{"fanout"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
	assert.Nil(t, app.cfg)
}
