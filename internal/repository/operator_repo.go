package repository

import (
	"context"

	"fertilabel/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OperatorRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.Operator, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Operator, error)
	// Upsert creates the operator or refreshes name, hash, role and active flag
	// of an existing one with the same username.
	Upsert(ctx context.Context, op *model.Operator) error
}

type operatorRepo struct{ db *gorm.DB }

func NewOperatorRepository(db *gorm.DB) OperatorRepository { return &operatorRepo{db: db} }

func (r *operatorRepo) FindByUsername(ctx context.Context, username string) (*model.Operator, error) {
	var op model.Operator
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?) AND active = true", username).
		First(&op).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &op, nil
}

func (r *operatorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Operator, error) {
	var op model.Operator
	if err := r.db.WithContext(ctx).First(&op, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &op, nil
}

func (r *operatorRepo) Upsert(ctx context.Context, op *model.Operator) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "password_hash", "role", "active", "updated_at"}),
		}).
		Create(op).Error
	return mapErr(err)
}
