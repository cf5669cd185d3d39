package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/kiosk/internal/storeapi"
)

// Manager is the sole mutator of session state. Remote calls run without
// holding the lock; each call's result is applied on completion based only on
// its own outcome. Overlapping calls are not fenced: the last response wins.
type Manager struct {
	api    storeapi.ProductService
	logger *slog.Logger

	mu    sync.RWMutex
	state State
	// reservedID is the highest id handed to an in-flight create. It keeps
	// overlapping creates from allocating the same id before either lands.
	reservedID int
	// lastFormSeq numbers every form opened so a late submit result only
	// touches the form it was submitted from.
	lastFormSeq uint64
}

// NewManager creates an empty session backed by api.
func NewManager(api storeapi.ProductService, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{api: api, logger: logger}
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone()
}

// Items returns a copy of the current item list.
func (m *Manager) Items() []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneItems(m.state.Items)
}

// Selected returns the selected item when the selection resolves.
func (m *Manager) Selected() (Item, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.state.Selected()
	return it.clone(), ok
}

// FetchAll replaces the item list with the remote collection. On failure the
// list is left as it was and the error is recorded.
func (m *Manager) FetchAll(ctx context.Context) error {
	m.mu.Lock()
	if m.state.Form == nil {
		m.state.Phase = PhaseLoading
	}
	m.state.InFlight++
	m.mu.Unlock()

	products, err := m.api.ListProducts(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.InFlight--
	if err != nil {
		m.state.LastError = err
		if m.state.Form == nil {
			m.state.Phase = PhaseFailed
		}
		m.logger.Warn("catalog fetch failed", "error", err)
		return fmt.Errorf("fetch catalog: %w", err)
	}

	items := make([]Item, 0, len(products))
	for _, p := range products {
		items = append(items, itemFromProduct(p))
	}
	items = dedupe(items)
	if dropped := len(products) - len(items); dropped > 0 {
		m.logger.Warn("catalog fetch returned duplicate ids", "dropped", dropped)
	}

	m.state.Items = items
	m.state.HighestSeenID = max(m.state.HighestSeenID, maxID(items))
	if m.state.HasSelection && indexOf(items, m.state.SelectedID) < 0 {
		m.state.forgetSelection(m.state.SelectedID)
	}
	if m.state.prevHasSelection && indexOf(items, m.state.prevSelectedID) < 0 {
		m.state.forgetSelection(m.state.prevSelectedID)
	}
	m.state.LastError = nil
	m.state.LastUpdated = time.Now()
	m.state.Phase = m.state.settledPhase()
	m.logger.Info("catalog fetched", "items", len(items), "highest_id", m.state.HighestSeenID)
	return nil
}

// Select toggles the selection of id. Toggling off the selected id restores
// whatever was selected before it, so Select(id) twice is a no-op. Ids absent
// from the list are accepted; constraining them is up to the caller.
func (m *Manager) Select(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &m.state
	if st.HasSelection && st.SelectedID == id {
		st.SelectedID, st.HasSelection = st.prevSelectedID, st.prevHasSelection
		st.prevSelectedID, st.prevHasSelection = 0, false
		return
	}
	st.prevSelectedID, st.prevHasSelection = st.SelectedID, st.HasSelection
	st.SelectedID, st.HasSelection = id, true
}

// BeginCreate opens a blank create form. Calling it with a create form
// already open keeps that form.
func (m *Manager) BeginCreate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireLoaded(); err != nil {
		return err
	}
	if m.state.Form != nil && m.state.Form.IsCreate() {
		return nil
	}
	m.state.Form = &Form{seq: m.nextFormSeq()}
	m.state.Phase = PhaseEditing
	return nil
}

// BeginEdit opens an edit form pre-populated from item id.
func (m *Manager) BeginEdit(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := indexOf(m.state.Items, id)
	if idx < 0 {
		return &NotFoundError{ID: id}
	}
	if err := m.requireLoaded(); err != nil {
		return err
	}
	m.state.Form = &Form{
		Editing:  true,
		TargetID: id,
		Draft:    DraftFromItem(m.state.Items[idx]),
		seq:      m.nextFormSeq(),
	}
	m.state.Phase = PhaseEditing
	return nil
}

// CancelForm discards any open form.
func (m *Manager) CancelForm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Form = nil
	if m.state.Phase == PhaseEditing {
		m.state.Phase = PhaseLoaded
	}
}

// UpdateDraft stores in-progress form text without submitting it.
func (m *Manager) UpdateDraft(d Draft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Form != nil {
		m.state.Form.Draft = d
	}
}

// SubmitCreate validates d, allocates the next id and creates the item
// remotely. On success the reconciled item is prepended to the list and the
// create form is closed. On failure the list is untouched and the form keeps
// the draft.
func (m *Manager) SubmitCreate(ctx context.Context, d Draft) (Item, error) {
	parsed, err := d.parse()
	if err != nil {
		m.fail(false, 0, d, err)
		return Item{}, err
	}

	m.mu.Lock()
	newID := max(m.state.HighestSeenID, m.reservedID) + 1
	m.reservedID = newID
	seq := m.state.formSeq(false, 0)
	m.state.InFlight++
	m.mu.Unlock()

	submitted := parsed.item(newID, 0)
	echoed, err := m.api.CreateProduct(ctx, submitted.product())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.InFlight--
	if err != nil {
		m.state.LastError = err
		m.state.annotateForm(seq, d, err)
		m.logger.Warn("create failed", "id", newID, "error", err)
		return Item{}, fmt.Errorf("create item: %w", err)
	}
	if echoed.ID != 0 && echoed.ID != newID {
		m.logger.Debug("create echo id ignored", "echoed_id", echoed.ID, "id", newID)
	}

	item := reconcile(submitted, echoed)
	m.state.Items = prepend(m.state.Items, item)
	m.state.HighestSeenID = max(m.state.HighestSeenID, newID)
	m.state.LastError = nil
	m.state.closeForm(seq)
	m.logger.Info("item created", "id", item.ID, "title", item.Title)
	return item.clone(), nil
}

// SubmitUpdate validates d and replaces targetID remotely. On success the
// entry is replaced in place. If targetID vanished from the list meanwhile the
// remote call still happens and the local merge is skipped.
func (m *Manager) SubmitUpdate(ctx context.Context, targetID int, d Draft) (Item, error) {
	parsed, err := d.parse()
	if err != nil {
		m.fail(true, targetID, d, err)
		return Item{}, err
	}

	m.mu.Lock()
	count := 0
	if idx := indexOf(m.state.Items, targetID); idx >= 0 && m.state.Items[idx].Rating != nil {
		count = m.state.Items[idx].Rating.Count
	}
	seq := m.state.formSeq(true, targetID)
	m.state.InFlight++
	m.mu.Unlock()

	submitted := parsed.item(targetID, count)
	echoed, err := m.api.UpdateProduct(ctx, targetID, submitted.product())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.InFlight--
	if err != nil {
		m.state.LastError = err
		m.state.annotateForm(seq, d, err)
		m.logger.Warn("update failed", "id", targetID, "error", err)
		return Item{}, fmt.Errorf("update item %d: %w", targetID, err)
	}

	item := reconcile(submitted, echoed)
	items, merged := replace(m.state.Items, item)
	if merged {
		m.state.Items = items
	} else {
		m.logger.Info("updated item no longer listed", "id", targetID)
	}
	m.state.LastError = nil
	m.state.closeForm(seq)
	m.logger.Info("item updated", "id", item.ID, "title", item.Title)
	return item.clone(), nil
}

// Remove deletes id remotely and then locally. There is no undo.
func (m *Manager) Remove(ctx context.Context, id int) error {
	m.mu.Lock()
	m.state.InFlight++
	m.mu.Unlock()

	err := m.api.DeleteProduct(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.InFlight--
	if err != nil {
		m.state.LastError = err
		m.logger.Warn("delete failed", "id", id, "error", err)
		return fmt.Errorf("delete item %d: %w", id, err)
	}

	items, removed := without(m.state.Items, id)
	m.state.Items = items
	m.state.forgetSelection(id)
	m.state.LastError = nil
	m.logger.Info("item deleted", "id", id, "was_listed", removed)
	return nil
}

func (m *Manager) fail(editing bool, targetID int, d Draft, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.annotateForm(m.state.formSeq(editing, targetID), d, err)
}

func (m *Manager) nextFormSeq() uint64 {
	m.lastFormSeq++
	return m.lastFormSeq
}

func (m *Manager) requireLoaded() error {
	switch m.state.Phase {
	case PhaseLoaded, PhaseEditing:
		return nil
	default:
		return fmt.Errorf("%w (phase %s)", ErrNotLoaded, m.state.Phase)
	}
}
