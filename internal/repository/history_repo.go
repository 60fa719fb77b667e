package repository

import (
	"context"
	"time"

	"fertilabel/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoryRepository interface {
	ListRecent(ctx context.Context, limit int) ([]model.GenerationRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.GenerationRecord, error)
	// FindByLotePlaca returns the most recent record for the pair.
	FindByLotePlaca(ctx context.Context, lote, placa string) (*model.GenerationRecord, error)
	Create(ctx context.Context, rec *model.GenerationRecord) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountSince counts records touched at or after t; termOnly restricts to
	// records with a withdrawal term.
	CountSince(ctx context.Context, t time.Time, termOnly bool) (int64, error)
}

type historyRepo struct{ db *gorm.DB }

func NewHistoryRepository(db *gorm.DB) HistoryRepository { return &historyRepo{db: db} }

func (r *historyRepo) ListRecent(ctx context.Context, limit int) ([]model.GenerationRecord, error) {
	var recs []model.GenerationRecord
	err := r.db.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&recs).Error
	return recs, mapErr(err)
}

func (r *historyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.GenerationRecord, error) {
	var rec model.GenerationRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &rec, nil
}

func (r *historyRepo) FindByLotePlaca(ctx context.Context, lote, placa string) (*model.GenerationRecord, error) {
	var rec model.GenerationRecord
	err := r.db.WithContext(ctx).
		Where("lote = ? AND placa = ?", lote, placa).
		Order("timestamp DESC").
		First(&rec).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &rec, nil
}

func (r *historyRepo) Create(ctx context.Context, rec *model.GenerationRecord) error {
	return mapErr(r.db.WithContext(ctx).Create(rec).Error)
}

func (r *historyRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return affected(r.db.WithContext(ctx).Model(&model.GenerationRecord{}).Where("id = ?", id).Updates(fields))
}

func (r *historyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&model.GenerationRecord{}, "id = ?", id))
}

func (r *historyRepo) CountSince(ctx context.Context, t time.Time, termOnly bool) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.GenerationRecord{}).Where("updated_at >= ?", t)
	if termOnly {
		q = q.Where("term_generated = true")
	} else {
		q = q.Where("label_generated = true")
	}
	err := q.Count(&n).Error
	return n, mapErr(err)
}
