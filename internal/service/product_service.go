package service

import (
	"context"
	"strings"

	"fertilabel/internal/dto"
	"fertilabel/internal/model"
	"fertilabel/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProductService manages the label catalog.
type ProductService interface {
	List(ctx context.Context) ([]dto.ProductResponse, error)
	// Search matches name or code, case-insensitive. A blank query returns nothing.
	Search(ctx context.Context, q string) ([]dto.ProductResponse, error)
	Get(ctx context.Context, id string) (*dto.ProductResponse, error)
	// Save upserts by id; an empty id creates a new product.
	Save(ctx context.Context, id string, req dto.SaveProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id string) error
	// SeedDefaults inserts the default catalog when no product exists yet.
	SeedDefaults(ctx context.Context) (int, error)
	MatchByQueueName(ctx context.Context, name string) (*dto.ProductResponse, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	ps, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(ps), nil
}

func (s *productService) Search(ctx context.Context, q string) ([]dto.ProductResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []dto.ProductResponse{}, nil
	}
	ps, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	return toProductResponses(ps), nil
}

func (s *productService) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err = notFound(err); err == ErrNotFound {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	resp := toProductResponse(*p)
	return &resp, nil
}

func (s *productService) Save(ctx context.Context, id string, req dto.SaveProductRequest) (*dto.ProductResponse, error) {
	if id == "" {
		id = uuid.NewString()
	}
	p := &model.Product{
		ID:          id,
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		ClientName:  upperOrNil(req.ClientName),
		MapaReg:     strings.TrimSpace(req.MapaReg),
		Application: strings.TrimSpace(req.Application),
		Category:    strings.TrimSpace(req.Category),
		Nature:      strings.TrimSpace(req.Nature),
		Composition: model.Composition(req.Composition),
		EpBa:        req.EpBa,
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	log.Info().Str("product_id", p.ID).Str("code", p.Code).Msg("product saved")
	resp := toProductResponse(*p)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err = notFound(err); err == ErrNotFound {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}

func (s *productService) SeedDefaults(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	seeded := 0
	for _, p := range defaultProducts() {
		p := p
		if err := s.repo.Save(ctx, &p); err != nil {
			return seeded, err
		}
		seeded++
	}
	log.Info().Int("products", seeded).Msg("default catalog seeded")
	return seeded, nil
}

func (s *productService) MatchByQueueName(ctx context.Context, name string) (*dto.ProductResponse, error) {
	ps, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	p := matchProduct(ps, name)
	if p == nil {
		return nil, ErrProductNotFound
	}
	resp := toProductResponse(*p)
	return &resp, nil
}

// matchProduct returns the first catalog entry whose upper-cased name contains,
// or is contained in, the queue item's product name.
func matchProduct(catalog []model.Product, queueName string) *model.Product {
	target := strings.ToUpper(strings.TrimSpace(queueName))
	if target == "" {
		return nil
	}
	for i := range catalog {
		name := strings.ToUpper(strings.TrimSpace(catalog[i].Name))
		if name == "" {
			continue
		}
		if strings.Contains(target, name) || strings.Contains(name, target) {
			return &catalog[i]
		}
	}
	return nil
}

func toProductResponses(ps []model.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, len(ps))
	for i, p := range ps {
		out[i] = toProductResponse(p)
	}
	return out
}

func upperOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToUpper(strings.TrimSpace(*s))
	if v == "" {
		return nil
	}
	return &v
}
