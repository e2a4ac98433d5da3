package services

import (
	"context"
	"strings"
	"time"

	"campgo/internal/apperr"
	"campgo/internal/domain"
	"campgo/internal/media"
	"campgo/internal/repos"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CampsiteService struct {
	Store  *repos.Store
	Media  media.Store
	Logger *zap.Logger
	Clock  func() time.Time
}

func NewCampsiteService(store *repos.Store, ms media.Store, logger *zap.Logger) *CampsiteService {
	return &CampsiteService{Store: store, Media: ms, Logger: logger, Clock: time.Now}
}

type CampsiteInput struct {
	Name          string        `json:"name" validate:"required,max=120"`
	Location      string        `json:"location" validate:"required,max=200"`
	Description   string        `json:"description" validate:"max=2000"`
	PricePerNight float64       `json:"price_per_night" validate:"gte=0"`
	Capacity      int           `json:"capacity" validate:"gte=1"`
	Images        domain.Images `json:"images"`
}

func (s *CampsiteService) Search(ctx context.Context, q string) ([]domain.Campsite, error) {
	out, err := s.Store.Campsites.Search(ctx, q)
	return out, storeErr(err, "campsites")
}

func (s *CampsiteService) Get(ctx context.Context, id string) (*domain.Campsite, error) {
	c, err := s.Store.Campsites.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "campsite")
	}
	if !c.Active {
		return nil, apperr.NotFound("campsite not found")
	}
	return c, nil
}

func (s *CampsiteService) Create(ctx context.Context, ownerID string, in CampsiteInput) (*domain.Campsite, error) {
	c := &domain.Campsite{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Name:          strings.TrimSpace(in.Name),
		Location:      strings.TrimSpace(in.Location),
		Description:   in.Description,
		PricePerNight: in.PricePerNight,
		Capacity:      in.Capacity,
		Images:        in.Images,
		Active:        true,
		CreatedAt:     stamp(s.Clock),
	}
	if c.Images == nil {
		c.Images = domain.Images{}
	}
	if err := s.Store.Campsites.Create(ctx, c); err != nil {
		return nil, storeErr(err, "campsite")
	}
	return c, nil
}

func (s *CampsiteService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Campsite, error) {
	out, err := s.Store.Campsites.ListByOwner(ctx, ownerID)
	return out, storeErr(err, "campsites")
}

func (s *CampsiteService) Delete(ctx context.Context, id string) error {
	c, err := s.Store.Campsites.Get(ctx, id)
	if err != nil {
		return storeErr(err, "campsite")
	}
	if err := s.Store.Campsites.Delete(ctx, id); err != nil {
		return storeErr(err, "campsite")
	}
	if s.Media != nil {
		deleteImages(s.Media.Delete, func(pid string, err error) {
			s.Logger.Warn("media.delete", zap.String("public_id", pid), zap.Error(err))
		}, c.Images)
	}
	return nil
}
