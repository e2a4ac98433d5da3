package handlers

import (
	"campgo/internal/cache"
	"campgo/internal/config"
	"campgo/internal/events"
	"campgo/internal/media"
	"campgo/internal/repos"
	"campgo/internal/services"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Infra carries the optional collaborators built in main. Nil fields fall
// back to no-op implementations.
type Infra struct {
	Cache  cache.ProductCache
	Media  media.Store
	Events events.Publisher
	Notify services.Notifier
	Logger *zap.Logger
}

type Deps struct {
	Auth *services.AuthService

	AuthHandler     *AuthHandler
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	WishlistHandler *WishlistHandler
	AddressHandler  *AddressHandler
	CardHandler     *CardHandler
	OrderHandler    *OrderHandler
	CampsiteHandler *CampsiteHandler
	UploadHandler   *UploadHandler
	AdminHandler    *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, in Infra) *Deps {
	if in.Cache == nil {
		in.Cache = cache.Noop{}
	}
	if in.Media == nil {
		in.Media = media.NewDisk(cfg.MediaDir, cfg.MediaBaseURL)
	}
	if in.Logger == nil {
		in.Logger = zap.NewNop()
	}
	store := repos.NewStore(db)

	authSvc := services.NewAuthService(store, cfg.JWTSecret, cfg.JWTTTL, in.Notify)
	catalogSvc := services.NewCatalogService(store, in.Cache, in.Media, in.Logger)
	orderSvc := services.NewOrderService(store, in.Events, in.Notify, in.Cache, cfg.ShippingFee, in.Logger)
	campSvc := services.NewCampsiteService(store, in.Media, in.Logger)

	return &Deps{
		Auth:            authSvc,
		AuthHandler:     &AuthHandler{Auth: authSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc, Reviews: services.NewReviewService(store)},
		CartHandler:     &CartHandler{Cart: services.NewCartService(store)},
		WishlistHandler: &WishlistHandler{Wish: services.NewWishlistService(store)},
		AddressHandler:  &AddressHandler{Addresses: services.NewAddressService(store)},
		CardHandler:     &CardHandler{Cards: services.NewCardService(store)},
		OrderHandler:    &OrderHandler{Order: orderSvc},
		CampsiteHandler: &CampsiteHandler{Campsites: campSvc},
		UploadHandler:   &UploadHandler{Media: in.Media},
		AdminHandler: &AdminHandler{
			Orders:    orderSvc,
			Dashboard: services.NewDashboardService(store),
			Catalog:   catalogSvc,
			Users:     services.NewUserService(store),
			Campsites: campSvc,
		},
	}
}
