package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"teaching_admin/internal/infra/storage"
)

const backupTimeLayout = "20060102T150405Z"

// Exporter produces the encoded snapshot of one record kind.
type Exporter interface {
	Kind() string
	Export() ([]byte, error)
}

// Alerter is told when a backup run fails.
type Alerter interface {
	Alert(text string) error
}

// BackupScheduler periodically copies every repository snapshot into
// BackupDir as <kind>-<timestamp>.yaml, keeping the newest Keep files per kind.
type BackupScheduler struct {
	cronEngine *cron.Cron
	sources    []Exporter
	backupDir  string
	keep       int
	cronSpec   string
	alerter    Alerter
	logger     *logrus.Entry
	now        func() time.Time
}

func NewBackupScheduler(
	sources []Exporter,
	backupDir string,
	keep int,
	cronSpec string, // e.g., "0 3 * * *" (3:00 AM daily)
	alerter Alerter,
	logger *logrus.Entry,
) *BackupScheduler {
	return &BackupScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		sources:    sources,
		backupDir:  backupDir,
		keep:       keep,
		cronSpec:   cronSpec,
		alerter:    alerter,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *BackupScheduler) Start() error {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return fmt.Errorf("%w: create backup directory %s: %v", storage.ErrStorageUnavailable, s.backupDir, err)
	}
	if _, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for snapshot backup.")
		if err := s.RunBackup(); err != nil {
			s.logger.WithError(err).Error("Snapshot backup failed")
			if s.alerter != nil {
				if alertErr := s.alerter.Alert(fmt.Sprintf("Snapshot backup failed: %v", err)); alertErr != nil {
					s.logger.WithError(alertErr).Warn("Could not deliver backup failure alert")
				}
			}
		}
	}); err != nil {
		return fmt.Errorf("could not add backup cron job: %w", err)
	}
	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpec).Info("Backup scheduler started.")
	return nil
}

func (s *BackupScheduler) Stop() {
	s.logger.Info("Stopping backup scheduler...")
	ctx := s.cronEngine.Stop() // Waits for a running backup to finish.
	<-ctx.Done()
	s.logger.Info("Backup scheduler gracefully stopped.")
}

// RunBackup writes one backup per source and prunes old ones. It keeps
// going after a failing source and returns the first error.
func (s *BackupScheduler) RunBackup() error {
	stamp := s.now().UTC().Format(backupTimeLayout)
	var firstErr error
	for _, src := range s.sources {
		log := s.logger.WithField("kind", src.Kind())
		if err := s.backupOne(src, stamp); err != nil {
			log.WithError(err).Error("Backup failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := s.prune(src.Kind()); err != nil {
			log.WithError(err).Warn("Could not prune old backups")
		}
		log.Info("Backup written")
	}
	return firstErr
}

func (s *BackupScheduler) backupOne(src Exporter, stamp string) error {
	data, err := src.Export()
	if err != nil {
		return fmt.Errorf("export %s: %w", src.Kind(), err)
	}
	path := filepath.Join(s.backupDir, fmt.Sprintf("%s-%s.yaml", src.Kind(), stamp))
	if err := storage.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup %s: %w", path, err)
	}
	return nil
}

// prune deletes all but the newest keep backups of kind. The timestamp
// layout sorts lexically in time order.
func (s *BackupScheduler) prune(kind string) error {
	matches, err := filepath.Glob(filepath.Join(s.backupDir, kind+"-*.yaml"))
	if err != nil {
		return err
	}
	prefix := kind + "-"
	backups := slices.DeleteFunc(matches, func(p string) bool {
		stamp := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(p), prefix), ".yaml")
		_, perr := time.Parse(backupTimeLayout, stamp)
		return perr != nil
	})
	if len(backups) <= s.keep {
		return nil
	}
	slices.Sort(backups)
	for _, old := range backups[:len(backups)-s.keep] {
		if err := os.Remove(old); err != nil {
			return err
		}
	}
	return nil
}
