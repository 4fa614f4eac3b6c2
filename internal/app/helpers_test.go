package app

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"teaching_admin/internal/domain/requirement"
	"teaching_admin/internal/domain/teacher"
	"teaching_admin/internal/infra/storage"
)

func nopLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newRepos(t *testing.T) (teacher.Repository, requirement.Repository) {
	t.Helper()
	dir := t.TempDir()

	ts, err := storage.NewFileSnapshotStore(dir, storage.KindTeachers)
	require.NoError(t, err)
	rs, err := storage.NewFileSnapshotStore(dir, storage.KindRequirements)
	require.NoError(t, err)

	return storage.NewTeacherRepository(ts, nopLogger()), storage.NewRequirementRepository(rs, nopLogger())
}
