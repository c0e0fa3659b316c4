package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"qr-menu/menu-svc/internal/domain"
	"qr-menu/menu-svc/internal/menu"
)

const defaultSaveTimeout = time.Minute

type BuilderService struct {
	store       RestaurantStore
	drafts      DraftStore
	cache       PublicMenuCache
	log         *slog.Logger
	saveTimeout time.Duration
	now         func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewBuilderService(store RestaurantStore, drafts DraftStore, cache PublicMenuCache, log *slog.Logger) *BuilderService {
	if log == nil {
		log = slog.Default()
	}
	return &BuilderService{
		store:       store,
		drafts:      drafts,
		cache:       cache,
		log:         log,
		saveTimeout: defaultSaveTimeout,
		now:         time.Now,
		locks:       make(map[string]*sync.Mutex),
	}
}

// lock serialises session changes for one restaurant within this process.
func (s *BuilderService) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// load returns the stored session, or a clean one built from the saved menu.
func (s *BuilderService) load(ctx context.Context, id string) (*menu.Builder, error) {
	b, err := s.drafts.Load(ctx, id)
	if err != nil {
		return nil, unavailable(s.log, "load session", err)
	}
	if b != nil {
		return b, nil
	}

	rest, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, unavailable(s.log, "load menu", err)
	}
	return menu.NewBuilder(rest.MenuSections), nil
}

func (s *BuilderService) persistSession(ctx context.Context, id string, b *menu.Builder) error {
	if err := s.drafts.Store(ctx, id, b); err != nil {
		return unavailable(s.log, "store session", err)
	}
	return nil
}

// apply runs one builder operation. A rejected operation is not stored, so
// the session stays exactly as it was.
func (s *BuilderService) apply(ctx context.Context, id string, op func(b *menu.Builder) error) (*menu.Builder, error) {
	unlock := s.lock(id)
	defer unlock()

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(b); err != nil {
		return nil, err
	}
	if err := s.persistSession(ctx, id, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BuilderService) Session(ctx context.Context, id string) (*menu.Builder, error) {
	unlock := s.lock(id)
	defer unlock()
	return s.load(ctx, id)
}

// Reload discards the session, unsaved edits included, and starts over from
// the saved menu. It is refused while a save is in flight.
func (s *BuilderService) Reload(ctx context.Context, id string) (*menu.Builder, error) {
	unlock := s.lock(id)
	defer unlock()

	current, err := s.drafts.Load(ctx, id)
	if err != nil {
		return nil, unavailable(s.log, "load session", err)
	}
	if current != nil && current.Saving && !current.SaveExpired(s.now(), s.saveTimeout) {
		return nil, menu.ErrSaveInFlight
	}

	if err := s.drafts.Drop(ctx, id); err != nil {
		return nil, unavailable(s.log, "drop session", err)
	}
	return s.load(ctx, id)
}

func (s *BuilderService) SaveSection(ctx context.Context, id, sectionID, name string) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		_, err := b.SaveSection(sectionID, name)
		return err
	})
}

func (s *BuilderService) DeleteSection(ctx context.Context, id, sectionID string, confirmed bool) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		return b.DeleteSection(sectionID, confirmed)
	})
}

func (s *BuilderService) SetSectionDisabled(ctx context.Context, id, sectionID string, disabled bool) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		return b.SetSectionDisabled(sectionID, disabled)
	})
}

func (s *BuilderService) ReorderSection(ctx context.Context, id, sectionID string, index int) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		return b.ReorderSections(sectionID, index)
	})
}

func (s *BuilderService) SaveItem(ctx context.Context, id string, draft menu.ItemDraft) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		_, err := b.SaveItem(draft)
		return err
	})
}

func (s *BuilderService) DeleteItem(ctx context.Context, id, sectionID, itemID string, confirmed bool) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		return b.DeleteItem(sectionID, itemID, confirmed)
	})
}

func (s *BuilderService) ChangeItemStatus(ctx context.Context, id, sectionID, itemID string, status domain.ItemStatus) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		_, err := b.ChangeItemStatus(sectionID, itemID, status)
		return err
	})
}

func (s *BuilderService) ReorderItem(ctx context.Context, id, sectionID, itemID string, index int) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		return b.ReorderItems(sectionID, itemID, index)
	})
}

func (s *BuilderService) OpenItemDialog(ctx context.Context, id, sectionID, itemID string) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		_, err := b.OpenItemDialog(sectionID, itemID)
		return err
	})
}

func (s *BuilderService) UpdateDraft(ctx context.Context, id string, fields menu.ItemDraft) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		_, err := b.UpdateDraft(fields)
		return err
	})
}

func (s *BuilderService) CloseDialog(ctx context.Context, id string) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		b.CloseDialog()
		return nil
	})
}

func (s *BuilderService) AddVariation(ctx context.Context, id string) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		_, err := b.AddVariation()
		return err
	})
}

func (s *BuilderService) UpdateVariation(ctx context.Context, id string, index int, field, value string) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		_, err := b.UpdateVariation(index, field, value)
		return err
	})
}

func (s *BuilderService) RemoveVariation(ctx context.Context, id string, index int) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		_, err := b.RemoveVariation(index)
		return err
	})
}

func (s *BuilderService) CommitDraft(ctx context.Context, id string) (*menu.Builder, error) {
	return s.apply(ctx, id, func(b *menu.Builder) error {
		_, err := b.CommitDraft()
		return err
	})
}

// SaveMenu writes the assembled sections to the restaurant document. The
// session lock is released while the store call runs, so edits may continue;
// those edits stay dirty after the save completes. On failure the session
// keeps every change and the save can be retried.
func (s *BuilderService) SaveMenu(ctx context.Context, id string) (*menu.Builder, error) {
	unlock := s.lock(id)
	b, err := s.load(ctx, id)
	if err != nil {
		unlock()
		return nil, err
	}
	if b.SaveExpired(s.now(), s.saveTimeout) {
		s.log.Warn("abandoning stale menu save", "restaurant_id", id, "started", b.SaveStarted)
		b.AbortSave()
	}
	doc, ticket, err := b.BeginSave()
	if err != nil {
		unlock()
		return nil, err
	}
	if err := s.persistSession(ctx, id, b); err != nil {
		unlock()
		return nil, err
	}
	unlock()

	saveErr := s.store.Update(ctx, id, map[string]any{"menuSections": doc})

	unlock = s.lock(id)
	defer unlock()

	b, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if saveErr != nil {
		if b.Owns(ticket) {
			b.AbortSave()
		}
		if err := s.persistSession(ctx, id, b); err != nil {
			s.log.Warn("failed to clear saving flag", "restaurant_id", id, "error", err)
		}
		return nil, unavailable(s.log, "save menu", saveErr)
	}

	b.MarkSaved(ticket)
	if err := s.persistSession(ctx, id, b); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.log.Warn("failed to invalidate public menu cache", "restaurant_id", id, "error", err)
		}
	}

	s.log.Info("menu saved", "restaurant_id", id, "sections", len(doc), "revision", ticket.Revision)
	return b, nil
}
