package services

import (
	"context"
	"math"
	"strings"
	"time"

	"campgo/internal/apperr"
	"campgo/internal/cache"
	"campgo/internal/domain"
	"campgo/internal/media"
	"campgo/internal/repos"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogService struct {
	Store  *repos.Store
	Cache  cache.ProductCache
	Media  media.Store
	Logger *zap.Logger
	Clock  func() time.Time
}

func NewCatalogService(store *repos.Store, pc cache.ProductCache, ms media.Store, logger *zap.Logger) *CatalogService {
	if pc == nil {
		pc = cache.Noop{}
	}
	return &CatalogService{Store: store, Cache: pc, Media: ms, Logger: logger, Clock: time.Now}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	out, err := s.Store.Categories.List(ctx)
	return out, storeErr(err, "categories")
}

func pagination(total, page, limit int) domain.Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return domain.Pagination{Total: total, Page: page, Pages: pages, Limit: limit}
}

// Search lists active products matching q and category, one page at a time.
func (s *CatalogService) Search(ctx context.Context, q, categoryID string, page, limit int) ([]domain.ProductView, domain.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 12
	}
	prods, total, err := s.Store.Products.Search(ctx, repos.ProductQuery{
		Q: q, CategoryID: categoryID, Limit: limit, Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, domain.Pagination{}, storeErr(err, "products")
	}
	views := make([]domain.ProductView, len(prods))
	for i := range prods {
		views[i] = prods[i].View()
	}
	return views, pagination(total, page, limit), nil
}

// GetProduct serves the catalog detail page from cache when possible.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.ProductView, error) {
	if p, ok := s.Cache.Get(ctx, id); ok {
		return p.View(), nil
	}
	p, err := s.Store.Products.Get(ctx, id)
	if err != nil {
		return domain.ProductView{}, storeErr(err, "product")
	}
	if !p.Active {
		return domain.ProductView{}, apperr.NotFound("product not found")
	}
	s.Cache.Set(ctx, p)
	return p.View(), nil
}

type ProductInput struct {
	CategoryID  string        `json:"category_id" validate:"required"`
	Name        string        `json:"name" validate:"required,max=120"`
	Description string        `json:"description" validate:"max=2000"`
	Brand       string        `json:"brand" validate:"max=60"`
	Price       float64       `json:"price" validate:"gte=0"`
	Discount    float64       `json:"discount" validate:"gte=0,lte=100"`
	Stock       int           `json:"stock_quantity" validate:"gte=0"`
	Images      domain.Images `json:"images"`
	Active      *bool         `json:"active"`
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if _, err := s.Store.Categories.Get(ctx, in.CategoryID); err != nil {
		return nil, storeErr(err, "category")
	}
	p := &domain.Product{
		ID:          uuid.NewString(),
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Brand:       in.Brand,
		Price:       in.Price,
		Discount:    in.Discount,
		Stock:       in.Stock,
		Images:      in.Images,
		Active:      in.Active == nil || *in.Active,
		CreatedAt:   stamp(s.Clock),
	}
	if p.Images == nil {
		p.Images = domain.Images{}
	}
	if err := s.Store.Products.Create(ctx, p); err != nil {
		return nil, storeErr(err, "product")
	}
	return p, nil
}

// UpdateProduct replaces the editable fields. Images dropped by the update are
// removed from media storage in the background.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	p, err := s.Store.Products.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "product")
	}
	if in.CategoryID != p.CategoryID {
		if _, err := s.Store.Categories.Get(ctx, in.CategoryID); err != nil {
			return nil, storeErr(err, "category")
		}
	}
	var dropped domain.Images
	if in.Images != nil {
		keep := map[string]bool{}
		for _, im := range in.Images {
			keep[im.PublicID] = true
		}
		for _, im := range p.Images {
			if !keep[im.PublicID] {
				dropped = append(dropped, im)
			}
		}
		p.Images = in.Images
	}
	p.CategoryID = in.CategoryID
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Brand = in.Brand
	p.Price = in.Price
	p.Discount = in.Discount
	p.Stock = in.Stock
	if in.Active != nil {
		p.Active = *in.Active
	}
	p.UpdatedAt = stamp(s.Clock)

	if err := s.Store.Products.Update(ctx, p); err != nil {
		return nil, storeErr(err, "product")
	}
	s.Cache.Invalidate(ctx, p.ID)
	s.dropImages(dropped)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.Store.Products.Get(ctx, id)
	if err != nil {
		return storeErr(err, "product")
	}
	if err := s.Store.Products.Delete(ctx, id); err != nil {
		return storeErr(err, "product")
	}
	s.Cache.Invalidate(ctx, id)
	s.dropImages(p.Images)
	return nil
}

func (s *CatalogService) dropImages(images domain.Images) {
	if s.Media == nil {
		return
	}
	deleteImages(s.Media.Delete, func(id string, err error) {
		s.Logger.Warn("media.delete", zap.String("public_id", id), zap.Error(err))
	}, images)
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=60"`
	Description string `json:"description" validate:"max=500"`
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if taken, err := s.Store.Categories.NameTaken(ctx, name, ""); err != nil {
		return nil, storeErr(err, "category")
	} else if taken {
		return nil, apperr.Conflict("category %q already exists", name)
	}
	c := &domain.Category{ID: uuid.NewString(), Name: name, Description: in.Description, CreatedAt: stamp(s.Clock)}
	if err := s.Store.Categories.Create(ctx, c); err != nil {
		return nil, storeErr(err, "category")
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	c, err := s.Store.Categories.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "category")
	}
	name := strings.TrimSpace(in.Name)
	if taken, err := s.Store.Categories.NameTaken(ctx, name, id); err != nil {
		return nil, storeErr(err, "category")
	} else if taken {
		return nil, apperr.Conflict("category %q already exists", name)
	}
	c.Name, c.Description, c.UpdatedAt = name, in.Description, stamp(s.Clock)
	if err := s.Store.Categories.Update(ctx, c); err != nil {
		return nil, storeErr(err, "category")
	}
	return c, nil
}

// DeleteCategory refuses while any product still references the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	n, err := s.Store.Categories.ProductCount(ctx, id)
	if err != nil {
		return storeErr(err, "category")
	}
	if n > 0 {
		return apperr.Conflict("category still has %d products", n)
	}
	return storeErr(s.Store.Categories.Delete(ctx, id), "category")
}
