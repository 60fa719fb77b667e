package repository

import (
	"context"
	"strings"

	"fertilabel/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	Search(ctx context.Context, q string) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	Count(ctx context.Context) (int64, error)
	// Save inserts p or overwrites the row with the same ID.
	Save(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var ps []model.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&ps).Error
	return ps, mapErr(err)
}

func (r *productRepo) Search(ctx context.Context, q string) ([]model.Product, error) {
	var ps []model.Product
	like := "%" + strings.ToUpper(q) + "%"
	err := r.db.WithContext(ctx).
		Where("UPPER(name) LIKE ? OR UPPER(code) LIKE ?", like, like).
		Order("name ASC").
		Find(&ps).Error
	return ps, mapErr(err)
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Where("UPPER(code) = ?", strings.ToUpper(code)).First(&p).Error; err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, mapErr(err)
}

func (r *productRepo) Save(ctx context.Context, p *model.Product) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(p).Error
	return mapErr(err)
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id))
}
