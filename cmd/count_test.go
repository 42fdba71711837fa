package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/weldcount/internal/config"
	"github.com/sells-group/weldcount/internal/model"
)

func setTestConfig(t *testing.T) {
	t.Helper()
	orig := cfg
	cfg = &config.Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.Path = filepath.Join(t.TempDir(), "runs.db")
	cfg.Export.Format = "csv"
	cfg.Server.Port = 8080
	t.Cleanup(func() { cfg = orig })
}

func TestLoadSpecTable_CSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.csv")
	data := "component_reference,port1_conn,port2_conn,type,bore\n/E1,BWD,BWD,ELBOW,200\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	table, err := loadSpecTable(path, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestLoadSpecTable_UnsupportedExtension(t *testing.T) {
	_, err := loadSpecTable("spec.pdf", "", 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported spec table format")
}

func TestCharsetOrDefault(t *testing.T) {
	setTestConfig(t)
	cfg.Engine.Charset = "windows-1252"

	assert.Equal(t, "utf-8", charsetOrDefault("utf-8"))
	assert.Equal(t, "windows-1252", charsetOrDefault(""))
}

func TestExportFormat_FallsBackToConfig(t *testing.T) {
	setTestConfig(t)
	cfg.Export.Format = "xlsx"

	assert.Equal(t, "csv", exportFormat("csv"))
	assert.Equal(t, "xlsx", exportFormat(""))

	cfg.Export.Format = ""
	assert.Equal(t, "csv", exportFormat(""))
}

func TestRunStatus(t *testing.T) {
	assert.Equal(t, model.RunStatusComplete, runStatus(model.WeldTally{}))
	assert.Equal(t, model.RunStatusPartial, runStatus(model.WeldTally{DroppedBranches: 2}))
}

func TestFormatTally(t *testing.T) {
	var buf bytes.Buffer
	formatTally(&buf, model.WeldTally{
		ComponentWelds:      5,
		BWDBranchEnds:       3,
		TouchingPairs:       1,
		ComponentsAtBWDEnds: 1,
		Total:               6,
		Branches:            2,
		Components:          5,
		UnmatchedSpec:       1,
	})

	out := buf.String()
	assert.Contains(t, out, "Component welds:")
	assert.Contains(t, out, "Total welds:")
	assert.Contains(t, out, "6")
	assert.Contains(t, out, "Unmatched in spec:")
	assert.NotContains(t, out, "Dropped branches:")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abcd1234", truncateID("abcd1234-5678-90ab"))
	assert.Equal(t, "short", truncateID("short"))
}
