package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"qr-menu/menu-svc/internal/domain"
	"qr-menu/menu-svc/internal/menu"
	"qr-menu/menu-svc/internal/theme"
)

// RestaurantInput is the owner-editable profile of a restaurant.
type RestaurantInput struct {
	Name           string `json:"name" validate:"required,max=120"`
	Location       string `json:"location" validate:"max=200"`
	Contact        string `json:"contact" validate:"max=60"`
	Description    string `json:"description" validate:"max=1000"`
	CurrencySymbol string `json:"currencySymbol" validate:"max=4"`
}

func (in *RestaurantInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Description = strings.TrimSpace(in.Description)
	in.CurrencySymbol = strings.TrimSpace(in.CurrencySymbol)
}

// PublicMenuRequest describes who is looking at a public menu and how they
// got there.
type PublicMenuRequest struct {
	ViewerID string
	Preview  bool
	Source   string
}

type RestaurantService struct {
	store     RestaurantStore
	cache     PublicMenuCache
	drafts    DraftStore
	publisher ScanPublisher
	qr        QRGenerator
	log       *slog.Logger
	now       func() time.Time

	scans sync.WaitGroup
}

// scanPublishTimeout bounds a scan event hand-off, which runs after the
// visitor already has the menu.
const scanPublishTimeout = 2 * time.Second

func NewRestaurantService(store RestaurantStore, cache PublicMenuCache, drafts DraftStore, publisher ScanPublisher, qr QRGenerator, log *slog.Logger) *RestaurantService {
	if log == nil {
		log = slog.Default()
	}
	return &RestaurantService{
		store:     store,
		cache:     cache,
		drafts:    drafts,
		publisher: publisher,
		qr:        qr,
		log:       log,
		now:       time.Now,
	}
}

// Register creates the restaurant owned by ownerID. Its id is the owner's id.
func (s *RestaurantService) Register(ctx context.Context, ownerID, email string, in RestaurantInput) (*domain.Restaurant, error) {
	in.trim()
	if err := validateInput(in); err != nil {
		return nil, err
	}

	rest := &domain.Restaurant{
		ID:             ownerID,
		OwnerID:        ownerID,
		Name:           in.Name,
		Location:       in.Location,
		Contact:        in.Contact,
		Description:    in.Description,
		Email:          email,
		CreatedAt:      s.now().UTC(),
		MenuSections:   []domain.MenuSection{},
		CurrencySymbol: in.CurrencySymbol,
		DailyScans:     []domain.DailyScan{},
	}
	err := s.store.Create(ctx, rest)
	if errors.Is(err, domain.ErrRestaurantExists) {
		return nil, err
	}
	if err != nil {
		return nil, unavailable(s.log, "register", err)
	}

	s.log.Info("restaurant registered", "restaurant_id", rest.ID)
	return rest, nil
}

func (s *RestaurantService) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	rest, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, unavailable(s.log, "get restaurant", err)
	}
	return rest, nil
}

func (s *RestaurantService) UpdateProfile(ctx context.Context, id string, in RestaurantInput) (*domain.Restaurant, error) {
	in.trim()
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return s.update(ctx, "update profile", id, map[string]any{
		"name":           in.Name,
		"location":       in.Location,
		"contact":        in.Contact,
		"description":    in.Description,
		"currencySymbol": in.CurrencySymbol,
	})
}

func (s *RestaurantService) SetPublic(ctx context.Context, id string, public bool) (*domain.Restaurant, error) {
	return s.update(ctx, "set visibility", id, map[string]any{"isPublic": public})
}

func (s *RestaurantService) UpdateTheme(ctx context.Context, id string, t domain.Theme) (*domain.Restaurant, error) {
	if err := theme.Validate(t); err != nil {
		return nil, &menu.ValidationError{Field: "theme", Message: err.Error()}
	}
	return s.update(ctx, "update theme", id, map[string]any{"theme": t})
}

func (s *RestaurantService) SetBlocked(ctx context.Context, id string, blocked bool) (*domain.Restaurant, error) {
	rest, err := s.update(ctx, "set blocked", id, map[string]any{"isBlocked": blocked})
	if err == nil {
		s.log.Info("restaurant moderation changed", "restaurant_id", id, "blocked", blocked)
	}
	return rest, err
}

// update merges fields, drops the cached public menu and returns the result.
func (s *RestaurantService) update(ctx context.Context, op, id string, fields map[string]any) (*domain.Restaurant, error) {
	if err := s.store.Update(ctx, id, fields); err != nil {
		return nil, unavailable(s.log, op, err)
	}
	s.invalidate(ctx, id)
	return s.Get(ctx, id)
}

func (s *RestaurantService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn("failed to invalidate public menu cache", "restaurant_id", id, "error", err)
	}
}

func (s *RestaurantService) List(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, error) {
	list, err := s.store.Query(ctx, filter)
	if err != nil {
		return nil, unavailable(s.log, "list restaurants", err)
	}
	return list, nil
}

func (s *RestaurantService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return unavailable(s.log, "delete restaurant", err)
	}
	s.invalidate(ctx, id)
	if s.drafts != nil {
		if err := s.drafts.Drop(ctx, id); err != nil {
			s.log.Warn("failed to drop builder session", "restaurant_id", id, "error", err)
		}
	}
	s.log.Info("restaurant deleted", "restaurant_id", id)
	return nil
}

// PublicMenu returns the visitor view of a restaurant's menu. Unpublished or
// blocked menus are only shown to their owner in preview mode.
func (s *RestaurantService) PublicMenu(ctx context.Context, id string, req PublicMenuRequest) (*menu.PublicMenu, error) {
	if !req.Preview && s.cache != nil {
		if pm, ok, err := s.cache.GetPublicMenu(ctx, id); err != nil {
			s.log.Warn("public menu cache read failed", "restaurant_id", id, "error", err)
		} else if ok {
			s.recordScan(ctx, id, req.Source)
			return pm, nil
		}
	}

	rest, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, unavailable(s.log, "public menu", err)
	}

	ownerPreview := req.Preview && req.ViewerID != "" && req.ViewerID == rest.OwnerID
	if !ownerPreview {
		if rest.IsBlocked {
			return nil, ErrRestaurantBlocked
		}
		if !rest.IsPublic {
			return nil, ErrMenuPrivate
		}
	}

	pm := menu.RenderPublic(rest)
	if ownerPreview {
		return &pm, nil
	}

	if s.cache != nil {
		if err := s.cache.SetPublicMenu(ctx, id, &pm); err != nil {
			s.log.Warn("public menu cache write failed", "restaurant_id", id, "error", err)
		}
	}
	s.recordScan(ctx, id, req.Source)
	return &pm, nil
}

// recordScan is best-effort. The event is published in the background on a
// context detached from the request, and failures are logged at debug level.
func (s *RestaurantService) recordScan(ctx context.Context, id, source string) {
	if s.publisher == nil {
		return
	}
	if source == "" {
		source = "link"
	}
	event := domain.ScanEvent{
		Type:         domain.ScanEventType,
		RestaurantID: id,
		Source:       source,
		Timestamp:    s.now().UTC(),
	}

	s.scans.Add(1)
	go func() {
		defer s.scans.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), scanPublishTimeout)
		defer cancel()
		if err := s.publisher.PublishScan(ctx, event); err != nil {
			s.log.Debug("scan event dropped", "restaurant_id", id, "error", err)
		}
	}()
}

// Wait blocks until scan events already handed to the background are done.
func (s *RestaurantService) Wait() {
	s.scans.Wait()
}

func (s *RestaurantService) QRCode(ctx context.Context, id string) ([]byte, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, unavailable(s.log, "qr code", err)
	}
	png, err := s.qr.Generate(id)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}
	return png, nil
}
