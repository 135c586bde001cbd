package catalog

import (
	"context"
	"fmt"

	"github.com/malchincamp/campbooking/internal/domain"
	"github.com/malchincamp/campbooking/internal/repository"
	"go.uber.org/zap"
)

type CatalogUseCase interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, actor *domain.User, product *domain.Product) error
	Update(ctx context.Context, actor *domain.User, product *domain.Product) error
	Delete(ctx context.Context, actor *domain.User, id int64) error
}

type Cache interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	InvalidateProducts(ctx context.Context) error
}

type CatalogService struct {
	repo  repository.ProductRepository
	cache Cache
	log   *zap.Logger
}

func NewCatalogService(log *zap.Logger, repo repository.ProductRepository, cache Cache) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{repo: repo, cache: cache, log: log}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetProducts(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, products); err != nil {
			s.log.Warn("cache products", zap.Error(err))
		}
	}
	return products, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, actor *domain.User, product *domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	product.HerderID = actor.ID
	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) Update(ctx context.Context, actor *domain.User, product *domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}
	if err := checkOwner(actor, existing.HerderID); err != nil {
		return err
	}
	product.HerderID = existing.HerderID
	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner(actor, existing.HerderID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProducts(ctx); err != nil {
		s.log.Warn("invalidate products cache", zap.Error(err))
	}
}

func validateProduct(product *domain.Product) error {
	if product.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if product.PriceTugrik <= 0 {
		return fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	}
	if product.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidInput)
	}
	return nil
}

func checkOwner(actor *domain.User, herderID int64) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}
	if actor.Role == domain.RoleHerder && actor.ID == herderID {
		return nil
	}
	return domain.ErrForbidden
}

var _ CatalogUseCase = (*CatalogService)(nil)
