package jobs

import (
	"context"
	"os"
	"path/filepath"

	"log/slog"

	"gorm.io/gorm"
)

// OrphanCleanupJob removes attachment payload files that no longer have a
// database row, which can happen when a delete removes the row but the disk
// cleanup afterwards fails. Only useful in filesystem storage mode.
type OrphanCleanupJob struct {
	db        *gorm.DB
	logger    *slog.Logger
	uploadDir string
}

// NewOrphanCleanupJob creates the sweep over uploadDir/attachments.
func NewOrphanCleanupJob(db *gorm.DB, uploadDir string, logger *slog.Logger) *OrphanCleanupJob {
	return &OrphanCleanupJob{db: db, logger: logger, uploadDir: uploadDir}
}

func (j *OrphanCleanupJob) Name() string { return "orphan_attachment_cleanup" }

func (j *OrphanCleanupJob) Execute(ctx context.Context) error {
	dir := filepath.Join(j.uploadDir, "attachments")

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var known []string
	if err := j.db.WithContext(ctx).
		Table("lesson_attachments").
		Pluck("filename", &known).Error; err != nil {
		return err
	}

	keep := make(map[string]struct{}, len(known))
	for _, name := range known {
		keep[name] = struct{}{}
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := keep[entry.Name()]; ok {
			continue
		}

		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			j.logger.Warn("failed to remove orphaned payload",
				slog.String("file", entry.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		removed++
	}

	if removed > 0 {
		j.logger.Info("orphaned attachment payloads removed", slog.Int("count", removed))
	}

	return nil
}
