package outbox

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists parked envelopes in the sync_outbox table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

type messageModel struct {
	ID         string     `gorm:"column:id;primaryKey"`
	Queue      string     `gorm:"column:queue"`
	Payload    []byte     `gorm:"column:payload"`
	Status     string     `gorm:"column:status;index"`
	RetryCount int        `gorm:"column:retry_count"`
	LastError  string     `gorm:"column:last_error"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	SentAt     *time.Time `gorm:"column:sent_at"`
}

func (messageModel) TableName() string {
	return "sync_outbox"
}

// Migrate creates the outbox table when it does not exist.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&messageModel{})
}

func (s *GormStore) Append(ctx context.Context, message Message) error {
	if message.Status == "" {
		message.Status = StatusPending
	}
	row := messageModel{
		ID:         message.ID,
		Queue:      message.Queue,
		Payload:    message.Payload,
		Status:     message.Status,
		RetryCount: message.RetryCount,
		LastError:  message.LastError,
		CreatedAt:  message.CreatedAt.UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

func (s *GormStore) ListPending(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []messageModel
	if err := s.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, Message{
			ID:         row.ID,
			Queue:      row.Queue,
			Payload:    row.Payload,
			Status:     row.Status,
			RetryCount: row.RetryCount,
			LastError:  row.LastError,
			CreatedAt:  row.CreatedAt,
			SentAt:     row.SentAt,
		})
	}
	return items, nil
}

func (s *GormStore) MarkSent(ctx context.Context, id string, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&messageModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":  StatusSent,
			"sent_at": at.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (s *GormStore) MarkRetry(ctx context.Context, id string, reason string, terminal bool) error {
	updates := map[string]any{
		"retry_count": gorm.Expr("retry_count + 1"),
		"last_error":  reason,
	}
	if terminal {
		updates["status"] = StatusFailed
	}
	result := s.db.WithContext(ctx).
		Model(&messageModel{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
