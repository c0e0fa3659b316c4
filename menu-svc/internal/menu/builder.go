package menu

import (
	"time"

	"qr-menu/menu-svc/internal/domain"

	"github.com/google/uuid"
)

// Builder is the editing state behind the menu builder: the working copy of
// the section sequence, the unsaved-changes flag and the item form currently
// open, if any. It is plain data so a session can be stored between requests.
//
// Every method either applies a change completely and marks the builder
// dirty, or returns an error and leaves the state untouched.
type Builder struct {
	Session  string               `json:"session"`
	Sections []domain.MenuSection `json:"sections"`
	Dirty    bool                 `json:"dirty"`
	Saving   bool                 `json:"saving"`
	Revision int                  `json:"revision"`
	Draft    *ItemDraft           `json:"draft,omitempty"`

	SaveStarted time.Time `json:"saveStarted,omitempty"`
}

// NewBuilder starts a session from the saved sections. Every session gets
// its own id, so a save begun by an earlier session never settles this one.
func NewBuilder(saved []domain.MenuSection) *Builder {
	return &Builder{Session: uuid.NewString(), Sections: Assemble(saved)}
}

// SaveTicket identifies the state a save persisted: the session and its
// revision when the save began.
type SaveTicket struct {
	Session  string
	Revision int
}

func (b *Builder) touch(sections []domain.MenuSection) {
	b.Sections = sections
	b.Dirty = true
	b.Revision++
}

func (b *Builder) section(id string) (int, domain.MenuSection, error) {
	i := IndexOf(b.Sections, id)
	if i < 0 {
		return -1, domain.MenuSection{}, ErrSectionNotFound
	}
	return i, b.Sections[i], nil
}

func (b *Builder) item(sectionID, itemID string) (domain.MenuSection, domain.MenuItem, error) {
	_, sec, err := b.section(sectionID)
	if err != nil {
		return sec, domain.MenuItem{}, err
	}
	item, ok := Find(sec.Items, itemID)
	if !ok {
		return sec, domain.MenuItem{}, ErrItemNotFound
	}
	return sec, item, nil
}

// SaveSection creates a section when id is empty and renames it otherwise.
func (b *Builder) SaveSection(id, name string) (domain.MenuSection, error) {
	name, err := ValidateSectionName(name)
	if err != nil {
		return domain.MenuSection{}, err
	}

	var sec domain.MenuSection
	if id == "" {
		sec = domain.MenuSection{ID: NewSectionID(), Name: name, Items: []domain.MenuItem{}}
	} else {
		_, existing, err := b.section(id)
		if err != nil {
			return domain.MenuSection{}, err
		}
		sec = cloneSection(existing)
		sec.Name = name
	}

	b.touch(Upsert(b.Sections, sec))
	return sec, nil
}

// DeleteSection removes a section together with all of its items.
func (b *Builder) DeleteSection(id string, confirmed bool) error {
	if _, _, err := b.section(id); err != nil {
		return err
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	if b.Draft != nil && b.Draft.SectionID == id {
		b.Draft = nil
	}
	b.touch(Remove(b.Sections, id))
	return nil
}

func (b *Builder) SetSectionDisabled(id string, disabled bool) error {
	i, sec, err := b.section(id)
	if err != nil {
		return err
	}
	sec = cloneSection(sec)
	sec.IsDisabled = disabled
	b.replaceSection(i, sec)
	return nil
}

func (b *Builder) ReorderSections(id string, targetIndex int) error {
	sections, err := Reorder(b.Sections, id, targetIndex)
	if err != nil {
		return ErrSectionNotFound
	}
	b.touch(sections)
	return nil
}

func (b *Builder) ReorderItems(sectionID, itemID string, targetIndex int) error {
	i, sec, err := b.section(sectionID)
	if err != nil {
		return err
	}
	items, err := Reorder(sec.Items, itemID, targetIndex)
	if err != nil {
		return ErrItemNotFound
	}
	b.replaceItems(i, sec, items)
	return nil
}

func (b *Builder) replaceItems(i int, sec domain.MenuSection, items []domain.MenuItem) {
	sec = cloneSection(sec)
	sec.Items = items
	b.replaceSection(i, sec)
}

func (b *Builder) replaceSection(i int, sec domain.MenuSection) {
	sections := make([]domain.MenuSection, len(b.Sections))
	copy(sections, b.Sections)
	sections[i] = sec
	b.touch(sections)
}

// OpenItemDialog starts editing an item. An empty itemID opens a blank form
// for a new item in the section.
func (b *Builder) OpenItemDialog(sectionID, itemID string) (*ItemDraft, error) {
	if itemID == "" {
		if _, _, err := b.section(sectionID); err != nil {
			return nil, err
		}
		b.Draft = &ItemDraft{SectionID: sectionID, PriceVariations: []VariationDraft{}}
		return b.Draft, nil
	}

	_, item, err := b.item(sectionID, itemID)
	if err != nil {
		return nil, err
	}
	draft := &ItemDraft{
		SectionID:       sectionID,
		ItemID:          item.ID,
		Name:            item.Name,
		Description:     item.Description,
		Price:           PriceTextOf(item.Price),
		ImageURL:        item.ImageURL,
		PriceVariations: make([]VariationDraft, 0, len(item.PriceVariations)),
	}
	for _, v := range item.PriceVariations {
		draft.PriceVariations = append(draft.PriceVariations, VariationDraft{Name: v.Name, Price: PriceTextOf(&v.Price)})
	}
	b.Draft = draft
	return draft, nil
}

// CloseDialog discards the open form only; applied changes stay.
func (b *Builder) CloseDialog() {
	b.Draft = nil
}

// UpdateDraft replaces the form fields of the open draft, keeping its target.
func (b *Builder) UpdateDraft(fields ItemDraft) (*ItemDraft, error) {
	if b.Draft == nil {
		return nil, ErrNoOpenDraft
	}
	fields.SectionID = b.Draft.SectionID
	fields.ItemID = b.Draft.ItemID
	if fields.PriceVariations == nil {
		fields.PriceVariations = b.Draft.PriceVariations
	}
	b.Draft = &fields
	return b.Draft, nil
}

func (b *Builder) AddVariation() (*ItemDraft, error) {
	if b.Draft == nil {
		return nil, ErrNoOpenDraft
	}
	b.Draft.PriceVariations = append(b.Draft.PriceVariations, VariationDraft{})
	return b.Draft, nil
}

func (b *Builder) UpdateVariation(index int, field, value string) (*ItemDraft, error) {
	if b.Draft == nil {
		return nil, ErrNoOpenDraft
	}
	if index < 0 || index >= len(b.Draft.PriceVariations) {
		return nil, ErrVariationIndex
	}
	switch field {
	case "name":
		b.Draft.PriceVariations[index].Name = value
	case "price":
		b.Draft.PriceVariations[index].Price = PriceText(value)
	default:
		return nil, invalid("field", "field must be name or price")
	}
	return b.Draft, nil
}

// RemoveVariation refuses to drop the last variation of a draft that has no
// usable base price, so the item always resolves to a displayable price.
func (b *Builder) RemoveVariation(index int) (*ItemDraft, error) {
	if b.Draft == nil {
		return nil, ErrNoOpenDraft
	}
	vars := b.Draft.PriceVariations
	if index < 0 || index >= len(vars) {
		return nil, ErrVariationIndex
	}
	if len(vars) == 1 {
		if _, ok := b.Draft.Price.Parse(); !ok {
			return nil, ErrLastPriceVariation
		}
	}
	out := make([]VariationDraft, 0, len(vars)-1)
	out = append(out, vars[:index]...)
	b.Draft.PriceVariations = append(out, vars[index+1:]...)
	return b.Draft, nil
}

// CommitDraft validates the open form and applies it to its section.
func (b *Builder) CommitDraft() (domain.MenuItem, error) {
	if b.Draft == nil {
		return domain.MenuItem{}, ErrNoOpenDraft
	}
	return b.SaveItem(*b.Draft)
}

// SaveItem creates (empty ItemID) or updates an item in the draft's section.
// Status flags of an existing item are kept.
func (b *Builder) SaveItem(d ItemDraft) (domain.MenuItem, error) {
	i, sec, err := b.section(d.SectionID)
	if err != nil {
		return domain.MenuItem{}, err
	}

	item, err := ValidateItem(d)
	if err != nil {
		return domain.MenuItem{}, err
	}

	if d.ItemID == "" {
		item.ID = NewItemID()
	} else {
		existing, ok := Find(sec.Items, d.ItemID)
		if !ok {
			return domain.MenuItem{}, ErrItemNotFound
		}
		item.IsDisabled = existing.IsDisabled
		item.OutOfStock = existing.OutOfStock
	}

	b.replaceItems(i, sec, Upsert(sec.Items, item))
	if b.Draft != nil && b.Draft.SectionID == d.SectionID && b.Draft.ItemID == d.ItemID {
		b.Draft = nil
	}
	return item, nil
}

func (b *Builder) DeleteItem(sectionID, itemID string, confirmed bool) error {
	i, sec, err := b.section(sectionID)
	if err != nil {
		return err
	}
	if IndexOf(sec.Items, itemID) < 0 {
		return ErrItemNotFound
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	if b.Draft != nil && b.Draft.ItemID == itemID {
		b.Draft = nil
	}
	b.replaceItems(i, sec, Remove(sec.Items, itemID))
	return nil
}

// ChangeItemStatus sets the two storage flags so that at most one is true.
func (b *Builder) ChangeItemStatus(sectionID, itemID string, status domain.ItemStatus) (domain.MenuItem, error) {
	if !status.Valid() {
		return domain.MenuItem{}, ErrInvalidStatus
	}
	i, sec, err := b.section(sectionID)
	if err != nil {
		return domain.MenuItem{}, err
	}
	item, ok := Find(sec.Items, itemID)
	if !ok {
		return domain.MenuItem{}, ErrItemNotFound
	}

	item = cloneItem(item)
	item.IsDisabled = status == domain.StatusDisabled
	item.OutOfStock = status == domain.StatusOutOfStock

	b.replaceItems(i, sec, Upsert(sec.Items, item))
	return item, nil
}

// BeginSave hands out the document to persist and the ticket of the state it
// reflects. Only one save may be in flight.
func (b *Builder) BeginSave() ([]domain.MenuSection, SaveTicket, error) {
	if b.Saving {
		return nil, SaveTicket{}, ErrSaveInFlight
	}
	b.Saving = true
	b.SaveStarted = time.Now()
	return Assemble(b.Sections), SaveTicket{Session: b.Session, Revision: b.Revision}, nil
}

// SaveExpired reports a save that began longer than timeout ago and never
// finished, which happens when the process persisting it died.
func (b *Builder) SaveExpired(now time.Time, timeout time.Duration) bool {
	return b.Saving && now.Sub(b.SaveStarted) > timeout
}

// Owns reports whether t was handed out by this session.
func (b *Builder) Owns(t SaveTicket) bool {
	return b.Session == t.Session
}

// MarkSaved settles the save behind t. The dirty flag is cleared only when
// no edits landed after the save began. A ticket from another session is
// ignored.
func (b *Builder) MarkSaved(t SaveTicket) {
	if !b.Owns(t) {
		return
	}
	b.Saving = false
	b.SaveStarted = time.Time{}
	if b.Revision == t.Revision {
		b.Dirty = false
	}
}

// AbortSave is called when persisting failed. The edits stay dirty.
func (b *Builder) AbortSave() {
	b.Saving = false
	b.SaveStarted = time.Time{}
}
