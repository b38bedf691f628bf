// Package store persists mentions, snapshots and alerts in SQLite.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"wsbpulse/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store wraps the SQLite database. Safe for concurrent use.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// New opens (or creates) the database at path and migrates the schema.
func New(path string, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&mentionRow{}, &snapshotRow{}, &alertRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveMentions inserts mentions, silently skipping rows whose
// (ticker, post_id) pair already exists. Returns the number actually
// inserted.
func (s *Store) SaveMentions(ctx context.Context, mentions []domain.TickerMention) (int, error) {
	if len(mentions) == 0 {
		return 0, nil
	}
	rows := make([]mentionRow, len(mentions))
	for i, m := range mentions {
		rows[i] = newMentionRow(m)
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ticker"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if result.Error != nil {
		return 0, fmt.Errorf("save mentions: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

// MentionsSince returns all mentions newer than the lookback window,
// newest first.
func (s *Store) MentionsSince(ctx context.Context, lookback time.Duration) ([]domain.TickerMention, error) {
	cutoff := time.Now().UTC().Add(-lookback)
	var rows []mentionRow
	err := s.db.WithContext(ctx).
		Where("timestamp >= ?", cutoff).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query mentions: %w", err)
	}
	return toMentions(rows), nil
}

// MentionsForTicker returns the mentions of one ticker inside the
// lookback window, newest first.
func (s *Store) MentionsForTicker(ctx context.Context, ticker string, lookback time.Duration) ([]domain.TickerMention, error) {
	cutoff := time.Now().UTC().Add(-lookback)
	var rows []mentionRow
	err := s.db.WithContext(ctx).
		Where("ticker = ? AND timestamp >= ?", ticker, cutoff).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query ticker mentions: %w", err)
	}
	return toMentions(rows), nil
}

// SaveSnapshot persists one scan cycle.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	row, err := newSnapshotRow(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent snapshot, or nil when no scan
// has been persisted yet.
func (s *Store) LatestSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	var row snapshotRow
	err := s.db.WithContext(ctx).Order("timestamp DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	return row.toDomain()
}

// Snapshots returns up to limit snapshots, newest first.
func (s *Store) Snapshots(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []snapshotRow
	err := s.db.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	snapshots := make([]*domain.Snapshot, 0, len(rows))
	for _, row := range rows {
		snapshot, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", row.ID, err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// SaveAlerts appends new alert records.
func (s *Store) SaveAlerts(ctx context.Context, alerts []domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	rows := make([]alertRow, len(alerts))
	for i, a := range alerts {
		rows[i] = newAlertRow(a)
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}
	return nil
}

// Alerts returns up to limit alerts, newest first. When unackedOnly is
// set, acknowledged alerts are filtered out.
func (s *Store) Alerts(ctx context.Context, limit int, unackedOnly bool) ([]domain.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	query := s.db.WithContext(ctx).Order("triggered_at DESC").Limit(limit)
	if unackedOnly {
		query = query.Where("acknowledged = ?", false)
	}
	var rows []alertRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	alerts := make([]domain.Alert, len(rows))
	for i, row := range rows {
		alerts[i] = row.toDomain()
	}
	return alerts, nil
}

// OpenAlerts returns every unacknowledged alert, for evaluator
// suppression.
func (s *Store) OpenAlerts(ctx context.Context) ([]domain.Alert, error) {
	var rows []alertRow
	err := s.db.WithContext(ctx).Where("acknowledged = ?", false).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query open alerts: %w", err)
	}
	alerts := make([]domain.Alert, len(rows))
	for i, row := range rows {
		alerts[i] = row.toDomain()
	}
	return alerts, nil
}

// AcknowledgeAlert marks one alert acknowledged. ErrNotFound when no
// alert has that id.
func (s *Store) AcknowledgeAlert(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).
		Model(&alertRow{}).
		Where("id = ?", id).
		Update("acknowledged", true)
	if result.Error != nil {
		return fmt.Errorf("acknowledge alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AcknowledgeAll marks every open alert acknowledged and returns how many
// were updated.
func (s *Store) AcknowledgeAll(ctx context.Context) (int, error) {
	result := s.db.WithContext(ctx).
		Model(&alertRow{}).
		Where("acknowledged = ?", false).
		Update("acknowledged", true)
	if result.Error != nil {
		return 0, fmt.Errorf("acknowledge all alerts: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

// Cleanup deletes mentions, snapshots and acknowledged alerts older than
// the retention period.
func (s *Store) Cleanup(ctx context.Context, retention time.Duration) error {
	cutoff := time.Now().UTC().Add(-retention)

	if err := s.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&mentionRow{}).Error; err != nil {
		return fmt.Errorf("cleanup mentions: %w", err)
	}
	if err := s.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&snapshotRow{}).Error; err != nil {
		return fmt.Errorf("cleanup snapshots: %w", err)
	}
	if err := s.db.WithContext(ctx).
		Where("triggered_at < ? AND acknowledged = ?", cutoff, true).
		Delete(&alertRow{}).Error; err != nil {
		return fmt.Errorf("cleanup alerts: %w", err)
	}

	s.logger.Debug("retention cleanup complete", slog.Time("cutoff", cutoff))
	return nil
}

func toMentions(rows []mentionRow) []domain.TickerMention {
	mentions := make([]domain.TickerMention, len(rows))
	for i, row := range rows {
		mentions[i] = row.toDomain()
	}
	return mentions
}
