package camps

import (
	"context"
	"fmt"
	"strings"

	"github.com/malchincamp/campbooking/internal/domain"
	"github.com/malchincamp/campbooking/internal/repository"
	"go.uber.org/zap"
)

type CampUseCase interface {
	List(ctx context.Context, filter repository.CampFilter) ([]domain.Camp, error)
	GetByID(ctx context.Context, id int64) (*domain.Camp, error)
	Create(ctx context.Context, actor *domain.User, camp *domain.Camp) error
	Update(ctx context.Context, actor *domain.User, camp *domain.Camp) error
	Delete(ctx context.Context, actor *domain.User, id int64) error
}

type Cache interface {
	GetCamps(ctx context.Context) ([]domain.Camp, error)
	SetCamps(ctx context.Context, camps []domain.Camp) error
	InvalidateCamps(ctx context.Context) error
}

const defaultPageSize = 20

type CampService struct {
	repo     repository.CampRepository
	bookings repository.BookingRepository
	cache    Cache
	log      *zap.Logger
}

func NewCampService(log *zap.Logger, repo repository.CampRepository, bookings repository.BookingRepository, cache Cache) *CampService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CampService{repo: repo, bookings: bookings, cache: cache, log: log}
}

// List serves the unfiltered first page from cache when possible; filtered or
// paged requests always go to the database.
func (s *CampService) List(ctx context.Context, filter repository.CampFilter) ([]domain.Camp, error) {
	if filter.First <= 0 || filter.First > 100 {
		filter.First = defaultPageSize
	}

	firstPage := filter.AfterID == 0 && filter.Province == "" && filter.MinCapacity == 0
	if s.cache != nil && firstPage {
		if cached, err := s.cache.GetCamps(ctx); err == nil && cached != nil {
			if len(cached) > filter.First {
				cached = cached[:filter.First]
			}
			return cached, nil
		}
	}

	camps, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && firstPage {
		if err := s.cache.SetCamps(ctx, camps); err != nil {
			s.log.Warn("cache camps", zap.Error(err))
		}
	}
	return camps, nil
}

func (s *CampService) GetByID(ctx context.Context, id int64) (*domain.Camp, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CampService) Create(ctx context.Context, actor *domain.User, camp *domain.Camp) error {
	if err := validateCamp(camp); err != nil {
		return err
	}
	camp.HerderID = actor.ID
	if camp.Slug == "" {
		camp.Slug = slugify(camp.Name)
	}
	if err := s.repo.Create(ctx, camp); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CampService) Update(ctx context.Context, actor *domain.User, camp *domain.Camp) error {
	if err := validateCamp(camp); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, camp.ID)
	if err != nil {
		return err
	}
	if err := checkOwner(actor, existing.HerderID); err != nil {
		return err
	}
	camp.HerderID = existing.HerderID
	if err := s.repo.Update(ctx, camp); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete refuses while the camp still holds pending or confirmed bookings.
func (s *CampService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner(actor, existing.HerderID); err != nil {
		return err
	}
	active, err := s.bookings.HasActiveForCamp(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return domain.ErrHasBookings
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CampService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCamps(ctx); err != nil {
		s.log.Warn("invalidate camps cache", zap.Error(err))
	}
}

func validateCamp(camp *domain.Camp) error {
	if camp.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if camp.PricePerNight <= 0 {
		return fmt.Errorf("%w: price per night must be positive", domain.ErrInvalidInput)
	}
	if camp.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
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

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}

var _ CampUseCase = (*CampService)(nil)
