package scheduler

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticExporter struct {
	kind string
	data []byte
	err  error
}

func (e staticExporter) Kind() string            { return e.kind }
func (e staticExporter) Export() ([]byte, error) { return e.data, e.err }

func nopLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestRunBackupWritesAndPrunes(t *testing.T) {
	dir := t.TempDir()
	src := staticExporter{kind: "teachers", data: []byte("kind: teachers\n")}
	s := NewBackupScheduler([]Exporter{src}, dir, 2, "@daily", nil, nopLogger())

	// Files from other kinds or with foreign names are never pruned.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "teachers-notes.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "teaching_requirements-20250101T000000Z.yaml"), []byte("x"), 0o644))

	start := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		at := start.Add(time.Duration(i) * time.Hour)
		s.now = func() time.Time { return at }
		require.NoError(t, s.RunBackup())
	}

	matches, err := filepath.Glob(filepath.Join(dir, "teachers-2026*.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "teachers-20260501T050000Z.yaml"),
		filepath.Join(dir, "teachers-20260501T060000Z.yaml"),
	}, matches)
	assert.FileExists(t, filepath.Join(dir, "teachers-notes.yaml"))
	assert.FileExists(t, filepath.Join(dir, "teaching_requirements-20250101T000000Z.yaml"))

	data, err := os.ReadFile(matches[1])
	require.NoError(t, err)
	assert.Equal(t, "kind: teachers\n", string(data))
}

func TestRunBackupContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	bad := staticExporter{kind: "teachers", err: errors.New("encode failed")}
	good := staticExporter{kind: "teaching_requirements", data: []byte("ok")}
	s := NewBackupScheduler([]Exporter{bad, good}, dir, 3, "@daily", nil, nopLogger())
	s.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }

	err := s.RunBackup()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teachers")
	assert.FileExists(t, filepath.Join(dir, "teaching_requirements-20260501T000000Z.yaml"))
}

func TestStartRejectsInvalidCronExpression(t *testing.T) {
	s := NewBackupScheduler(nil, t.TempDir(), 1, "every now and then", nil, nopLogger())
	assert.Error(t, s.Start())
}
