// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/platform/logger"
)

/*
TestNewWithWriter_Level checks that debug records only appear in debug mode.
*/
func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, logger.Options{App: "mangashelf"})

	log.Debug("hidden")
	log.Info("shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &record))
	assert.Equal(t, "shown", record["msg"])
	assert.Equal(t, "mangashelf", record["app"])
}

/*
TestNew_FileSink verifies that the rotating file receives records.
*/
func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")

	log, closeFn := logger.New(logger.Options{App: "mangashelf", Debug: true, File: path, MaxSizeMB: 1})
	log.Debug("written_to_file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written_to_file")
}
