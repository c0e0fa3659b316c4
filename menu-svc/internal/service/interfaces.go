package service

import (
	"context"

	"qr-menu/menu-svc/internal/domain"
	"qr-menu/menu-svc/internal/menu"
)

type RestaurantStore interface {
	Get(ctx context.Context, id string) (*domain.Restaurant, error)
	Create(ctx context.Context, rest *domain.Restaurant) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Query(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, error)
	Delete(ctx context.Context, id string) error
}

type PublicMenuCache interface {
	GetPublicMenu(ctx context.Context, restaurantID string) (*menu.PublicMenu, bool, error)
	SetPublicMenu(ctx context.Context, restaurantID string, pm *menu.PublicMenu) error
	Invalidate(ctx context.Context, restaurantID string) error
}

type DraftStore interface {
	Load(ctx context.Context, restaurantID string) (*menu.Builder, error)
	Store(ctx context.Context, restaurantID string, b *menu.Builder) error
	Drop(ctx context.Context, restaurantID string) error
}

type ScanPublisher interface {
	PublishScan(ctx context.Context, event domain.ScanEvent) error
}

type RestaurantServiceInterface interface {
	Register(ctx context.Context, ownerID, email string, in RestaurantInput) (*domain.Restaurant, error)
	Get(ctx context.Context, id string) (*domain.Restaurant, error)
	UpdateProfile(ctx context.Context, id string, in RestaurantInput) (*domain.Restaurant, error)
	SetPublic(ctx context.Context, id string, public bool) (*domain.Restaurant, error)
	UpdateTheme(ctx context.Context, id string, t domain.Theme) (*domain.Restaurant, error)
	PublicMenu(ctx context.Context, id string, req PublicMenuRequest) (*menu.PublicMenu, error)
	QRCode(ctx context.Context, id string) ([]byte, error)
	List(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, error)
	SetBlocked(ctx context.Context, id string, blocked bool) (*domain.Restaurant, error)
	Delete(ctx context.Context, id string) error
}

// BuilderServiceInterface exposes the menu builder as a per-restaurant
// session. Each call returns the session after the change.
type BuilderServiceInterface interface {
	Session(ctx context.Context, id string) (*menu.Builder, error)
	Reload(ctx context.Context, id string) (*menu.Builder, error)
	SaveSection(ctx context.Context, id, sectionID, name string) (*menu.Builder, error)
	DeleteSection(ctx context.Context, id, sectionID string, confirmed bool) (*menu.Builder, error)
	SetSectionDisabled(ctx context.Context, id, sectionID string, disabled bool) (*menu.Builder, error)
	ReorderSection(ctx context.Context, id, sectionID string, index int) (*menu.Builder, error)
	SaveItem(ctx context.Context, id string, draft menu.ItemDraft) (*menu.Builder, error)
	DeleteItem(ctx context.Context, id, sectionID, itemID string, confirmed bool) (*menu.Builder, error)
	ChangeItemStatus(ctx context.Context, id, sectionID, itemID string, status domain.ItemStatus) (*menu.Builder, error)
	ReorderItem(ctx context.Context, id, sectionID, itemID string, index int) (*menu.Builder, error)
	OpenItemDialog(ctx context.Context, id, sectionID, itemID string) (*menu.Builder, error)
	UpdateDraft(ctx context.Context, id string, fields menu.ItemDraft) (*menu.Builder, error)
	CloseDialog(ctx context.Context, id string) (*menu.Builder, error)
	AddVariation(ctx context.Context, id string) (*menu.Builder, error)
	UpdateVariation(ctx context.Context, id string, index int, field, value string) (*menu.Builder, error)
	RemoveVariation(ctx context.Context, id string, index int) (*menu.Builder, error)
	CommitDraft(ctx context.Context, id string) (*menu.Builder, error)
	SaveMenu(ctx context.Context, id string) (*menu.Builder, error)
}

var (
	_ RestaurantServiceInterface = (*RestaurantService)(nil)
	_ BuilderServiceInterface    = (*BuilderService)(nil)
)
