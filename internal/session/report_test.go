package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekslens/leadgen-cli/internal/model"
)

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	finished := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	report := &model.Report{
		ID:         "r1",
		Industry:   "Medical Aesthetics",
		TotalLeads: 2,
		FinishedAt: finished,
	}

	path, err := writeReport(dir, "medical_aesthetics", report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "leadgen_session_medical_aesthetics_20260314_0926.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got model.Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "r1", got.ID)
	assert.Equal(t, 2, got.TotalLeads)
}

func TestWriteReport_BadDir(t *testing.T) {
	report := &model.Report{ID: "r1", FinishedAt: time.Now()}
	_, err := writeReport("/nonexistent/dir", "medical_aesthetics", report)
	assert.Error(t, err)
}
