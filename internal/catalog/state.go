package catalog

import (
	"fmt"
	"time"
)

// Phase is the session lifecycle position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
	PhaseEditing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	case PhaseEditing:
		return "editing"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Form is the open create/edit draft. Editing is false in create mode.
type Form struct {
	Editing  bool
	TargetID int
	Draft    Draft
	Err      error // last submit failure, kept so the user can retry

	seq uint64 // identifies this opening of the form
}

// IsCreate reports whether the form creates a new item.
func (f Form) IsCreate() bool { return !f.Editing }

// State is the whole session as seen by the presentation layer.
type State struct {
	Phase         Phase
	Items         []Item
	SelectedID    int
	HasSelection  bool
	Form          *Form
	HighestSeenID int
	LastError     error
	InFlight      int
	LastUpdated   time.Time

	// selection in place before the current one, restored when the current
	// one is toggled off
	prevSelectedID   int
	prevHasSelection bool
}

// Selected returns the selected item when the selection resolves.
func (s State) Selected() (Item, bool) {
	if !s.HasSelection {
		return Item{}, false
	}
	if idx := indexOf(s.Items, s.SelectedID); idx >= 0 {
		return s.Items[idx], true
	}
	return Item{}, false
}

// Busy reports whether any remote call is in flight.
func (s State) Busy() bool { return s.InFlight > 0 }

func (s State) clone() State {
	dup := s
	dup.Items = cloneItems(s.Items)
	if s.Form != nil {
		f := *s.Form
		dup.Form = &f
	}
	return dup
}

// settledPhase is the phase to return to once a remote call completes.
func (s State) settledPhase() Phase {
	if s.Form != nil {
		return PhaseEditing
	}
	return PhaseLoaded
}

// forgetSelection drops id from both the current and the remembered
// selection.
func (s *State) forgetSelection(id int) {
	if s.prevHasSelection && s.prevSelectedID == id {
		s.prevSelectedID = 0
		s.prevHasSelection = false
	}
	if s.HasSelection && s.SelectedID == id {
		s.SelectedID = 0
		s.HasSelection = false
	}
}

// formSeq returns the sequence of the open form when it is the one a submit
// for (editing, targetID) belongs to, or 0.
func (s State) formSeq(editing bool, targetID int) uint64 {
	if s.Form == nil || s.Form.Editing != editing || (editing && s.Form.TargetID != targetID) {
		return 0
	}
	return s.Form.seq
}

func (s State) formIs(seq uint64) bool {
	return seq != 0 && s.Form != nil && s.Form.seq == seq
}

// annotateForm records a failed submit on the form it came from, keeping the
// draft so nothing has to be re-entered.
func (s *State) annotateForm(seq uint64, draft Draft, err error) {
	if !s.formIs(seq) {
		return
	}
	s.Form.Draft = draft
	s.Form.Err = err
}

// closeForm clears the form a successful submit came from. A form opened
// after that submit started stays open.
func (s *State) closeForm(seq uint64) {
	if !s.formIs(seq) {
		return
	}
	s.Form = nil
	if s.Phase == PhaseEditing {
		s.Phase = PhaseLoaded
	}
}
