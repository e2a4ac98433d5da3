package services

import (
	"context"
	"math"
	"strings"
	"time"

	"campgo/internal/apperr"
	"campgo/internal/domain"
	"campgo/internal/repos"

	"github.com/google/uuid"
)

type ReviewService struct {
	Store *repos.Store
	Clock func() time.Time
}

func NewReviewService(store *repos.Store) *ReviewService {
	return &ReviewService{Store: store, Clock: time.Now}
}

type ReviewInput struct {
	ProductID string   `json:"product_id" validate:"required"`
	Rating    int      `json:"rating" validate:"gte=1,lte=5"`
	Comment   string   `json:"comment" validate:"required,max=2000"`
	Images    []string `json:"images" validate:"max=5"`
}

func (s *ReviewService) Create(ctx context.Context, userID string, in ReviewInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, apperr.Validation("comment is required")
	}
	if _, err := s.Store.Products.Get(ctx, in.ProductID); err != nil {
		return nil, storeErr(err, "product")
	}
	rv := &domain.Review{
		ID:        uuid.NewString(),
		ProductID: in.ProductID,
		UserID:    userID,
		Rating:    in.Rating,
		Comment:   comment,
		Images:    domain.StringList(in.Images),
		CreatedAt: stamp(s.Clock),
	}
	if rv.Images == nil {
		rv.Images = domain.StringList{}
	}
	if err := s.Store.Reviews.Create(ctx, rv); err != nil {
		return nil, storeErr(err, "review")
	}
	return rv, nil
}

// ForProduct lists reviews with the average rating rounded to one decimal.
func (s *ReviewService) ForProduct(ctx context.Context, productID string) (domain.ReviewSummary, error) {
	if _, err := s.Store.Products.Get(ctx, productID); err != nil {
		return domain.ReviewSummary{}, storeErr(err, "product")
	}
	reviews, err := s.Store.Reviews.ListByProduct(ctx, productID)
	if err != nil {
		return domain.ReviewSummary{}, storeErr(err, "reviews")
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := 0.0
	if len(reviews) > 0 {
		avg = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}
	return domain.ReviewSummary{AverageRating: avg, TotalReviews: len(reviews), Reviews: reviews}, nil
}
