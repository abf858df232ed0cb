package controller

import "github.com/five82/subdeck/internal/subscriber"

// DocumentAction is the purpose of the create/edit panel.
type DocumentAction int

const (
	ActionNone DocumentAction = iota
	ActionCreate
	ActionUpdate
)

func (a DocumentAction) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	default:
		return "none"
	}
}

// DocumentMode governs the create/edit panel. IMSI is set only for updates.
type DocumentMode struct {
	Action  DocumentAction
	Visible bool
	Dimmed  bool
	IMSI    string
}

// ViewMode governs the read-only detail panel.
type ViewMode struct {
	Visible    bool
	Subscriber *subscriber.Subscriber
}

// ConfirmMode governs the delete confirmation dialog.
type ConfirmMode struct {
	Visible bool
	IMSI    string
}

// State is the controller-owned UI state. The zero value is the mounted,
// everything-hidden state. ConsumedStatus is the Seq of the last terminal
// action status turned into a notification. FetchedGen is the last
// Snapshot.StaleGen a fetch was emitted for.
type State struct {
	Search   string
	Document DocumentMode
	View     ViewMode
	Confirm  ConfirmMode

	ConsumedStatus uint64
	FetchedGen     uint64
}

// ShowDocument opens the document panel, replacing whatever it held before.
func (s State) ShowDocument(action DocumentAction, imsi string) State {
	doc := DocumentMode{Action: action, Visible: true, Dimmed: true}
	if action == ActionUpdate {
		doc.IMSI = imsi
	}
	s.Document = doc
	return s
}

// HideDocument closes the document panel and lifts the dim overlay. Action
// and IMSI are kept.
func (s State) HideDocument() State {
	s.Document.Visible = false
	s.Document.Dimmed = false
	return s
}

// CreateDocument opens the panel for a new subscriber.
func (s State) CreateDocument() State {
	return s.ShowDocument(ActionCreate, "")
}

// UpdateDocument opens the panel to edit imsi.
func (s State) UpdateDocument(imsi string) State {
	return s.ShowDocument(ActionUpdate, imsi)
}

// ShowView opens the detail panel for sub.
func (s State) ShowView(sub subscriber.Subscriber) State {
	s.View = ViewMode{Visible: true, Subscriber: &sub}
	return s
}

// HideView closes the detail panel, keeping the last subscriber.
func (s State) HideView() State {
	s.View.Visible = false
	return s
}

// ShowConfirm opens the delete confirmation for imsi.
func (s State) ShowConfirm(imsi string) State {
	s.Confirm = ConfirmMode{Visible: true, IMSI: imsi}
	return s
}

// HideConfirm closes the confirmation dialog, keeping the IMSI.
func (s State) HideConfirm() State {
	s.Confirm.Visible = false
	return s
}

// ConfirmDelete hides the dialog and emits a delete for its IMSI. It does
// nothing unless the dialog is visible, so a repeated trigger after the dialog
// closed cannot issue a second delete.
func (s State) ConfirmDelete() (State, []Command) {
	if !s.Confirm.Visible {
		return s, nil
	}
	imsi := s.Confirm.IMSI
	s = s.HideConfirm()
	return s, []Command{DeleteCommand{IMSI: imsi}}
}

// ChangeSearch replaces the filter text verbatim.
func (s State) ChangeSearch(text string) State {
	s.Search = text
	return s
}

// ClearSearch resets the filter text.
func (s State) ClearSearch() State {
	s.Search = ""
	return s
}
