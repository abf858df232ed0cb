package controller

import "github.com/five82/subdeck/internal/subscriber"

// Copy shown in place of the list when there is nothing to show.
const (
	BlankTitle = "ADD A SUBSCRIBER"
	BlankBody  = "You have no subscribers... yet!"
)

// ConfirmMessage is the delete dialog prompt.
const ConfirmMessage = "Delete this subscriber?"

// ButtonKind styles a dialog button.
type ButtonKind int

const (
	ButtonInfo ButtonKind = iota
	ButtonDanger
)

// ButtonAction is what a dialog button does when pressed.
type ButtonAction int

const (
	ButtonCancel ButtonAction = iota
	ButtonConfirm
)

// Button is one dialog button.
type Button struct {
	Text   string
	Action ButtonAction
	Kind   ButtonKind
}

// ConfirmButtons lists the delete dialog buttons in display order.
var ConfirmButtons = []Button{
	{Text: "CANCEL", Action: ButtonCancel, Kind: ButtonInfo},
	{Text: "DELETE", Action: ButtonConfirm, Kind: ButtonDanger},
}

// Render holds every flag the presentation layer needs for one frame.
type Render struct {
	HasData         bool
	ShowSearch      bool
	ShowSpinner     bool
	ShowPlaceholder bool
	DeletedID       string
	Dimmed          bool

	Search   string
	Document DocumentMode
	View     ViewMode
	Confirm  ConfirmMode
}

// Derive computes the render flags from local state and the latest props. It
// has no side effects.
func Derive(s State, props Props) Render {
	hasData := props.Subscribers.Len() > 0
	loading := props.Subscribers.IsLoading
	return Render{
		HasData:         hasData,
		ShowSearch:      hasData,
		ShowSpinner:     loading,
		ShowPlaceholder: !loading && !hasData,
		DeletedID:       props.Status.ID,
		Dimmed:          s.Document.Dimmed,

		Search:   s.Search,
		Document: s.Document,
		View:     s.View,
		Confirm:  s.Confirm,
	}
}

// Visible applies the search filter and hides the recently deleted row.
func (r Render) Visible(snap subscriber.Snapshot) []subscriber.Subscriber {
	return subscriber.Filter(snap.Sorted(), r.Search, r.DeletedID)
}
