package repository

import (
	"context"

	"fertilabel/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QueueRepository is the loading-queue store. Every call is a single-row
// operation; the queue has no batch or transactional writes.
type QueueRepository interface {
	List(ctx context.Context) ([]model.QueueItem, error)
	Count(ctx context.Context) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.QueueItem, error)
	Create(ctx context.Context, item *model.QueueItem) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type queueRepo struct{ db *gorm.DB }

func NewQueueRepository(db *gorm.DB) QueueRepository { return &queueRepo{db: db} }

func (r *queueRepo) List(ctx context.Context) ([]model.QueueItem, error) {
	var items []model.QueueItem
	err := r.db.WithContext(ctx).Order(`"order" ASC`).Order("created_at ASC").Find(&items).Error
	return items, mapErr(err)
}

func (r *queueRepo) Count(ctx context.Context) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.QueueItem{}).Count(&n).Error
	return int(n), mapErr(err)
}

func (r *queueRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.QueueItem, error) {
	var item model.QueueItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &item, nil
}

func (r *queueRepo) Create(ctx context.Context, item *model.QueueItem) error {
	return mapErr(r.db.WithContext(ctx).Create(item).Error)
}

func (r *queueRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return affected(r.db.WithContext(ctx).Model(&model.QueueItem{}).Where("id = ?", id).Updates(fields))
}

func (r *queueRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&model.QueueItem{}, "id = ?", id))
}
