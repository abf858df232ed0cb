package controller

import (
	"fmt"

	"github.com/five82/subdeck/internal/notify"
	"github.com/five82/subdeck/internal/subscriber"
)

const (
	notificationTitle = "Subscriber"
	fallbackTitle     = "Server Error"
	fallbackMessage   = "Unknown Error"
	dismissLabel      = "Dismiss"
)

// Props are the external inputs of one reconciliation pass.
type Props struct {
	Subscribers subscriber.Snapshot
	Status      subscriber.ActionStatus
}

// Command is an outbound request produced by the controller. The adapter
// layer executes commands; the controller never touches shared state itself.
type Command interface {
	command()
}

// FetchCommand asks the collection cache to load Request.
type FetchCommand struct {
	Request subscriber.Request
}

// DeleteCommand asks the backend to delete a subscriber.
type DeleteCommand struct {
	IMSI string
}

// NotifyCommand surfaces a toast.
type NotifyCommand struct {
	Notification notify.Notification
}

// ClearStatusCommand resets the action status for (Entity, Operation).
type ClearStatusCommand struct {
	Entity    subscriber.EntityType
	Operation subscriber.Operation
}

func (FetchCommand) command()       {}
func (DeleteCommand) command()      {}
func (NotifyCommand) command()      {}
func (ClearStatusCommand) command() {}

// Mount runs the first reconciliation pass.
func Mount(s State, props Props) (State, []Command) {
	var cmds []Command
	if shouldFetch(s, Props{}, props) {
		s.FetchedGen = props.Subscribers.StaleGen
		cmds = append(cmds, fetchFor(props.Subscribers))
	}
	s, statusCmds := consumeStatus(s, props.Status)
	return s, append(cmds, statusCmds...)
}

// Receive reconciles a new props delivery against the previous one. A fetch
// is emitted once per stale generation; the status is inspected on every
// delivery because it can turn terminal at any time.
func Receive(s State, prev, next Props) (State, []Command) {
	var cmds []Command
	if shouldFetch(s, prev, next) {
		s.FetchedGen = next.Subscribers.StaleGen
		cmds = append(cmds, fetchFor(next.Subscribers))
	}
	s, statusCmds := consumeStatus(s, next.Status)
	return s, append(cmds, statusCmds...)
}

// shouldFetch reports whether next carries staleness not yet fetched for.
// Snapshots without a generation are compared by their NeedsFetch edge.
func shouldFetch(s State, prev, next Props) bool {
	snap := next.Subscribers
	if !snap.NeedsFetch {
		return false
	}
	if snap.StaleGen == 0 {
		return !prev.Subscribers.NeedsFetch
	}
	return snap.StaleGen > s.FetchedGen
}

func fetchFor(snap subscriber.Snapshot) Command {
	req := snap.FetchRequest
	if req == (subscriber.Request{}) {
		req = subscriber.FetchAll
	}
	return FetchCommand{Request: req}
}

func consumeStatus(s State, status subscriber.ActionStatus) (State, []Command) {
	if !status.Terminal() {
		return s, nil
	}
	if status.Seq != 0 && status.Seq <= s.ConsumedStatus {
		return s, nil
	}

	var n notify.Notification
	if status.Response != nil {
		n = notify.Success(notificationTitle, fmt.Sprintf("%s has been deleted", status.ID))
	} else {
		msg := ExtractError(status.Error)
		n = notify.Error(msg.Title, msg.Message, 0, dismissLabel)
	}
	if status.Seq > s.ConsumedStatus {
		s.ConsumedStatus = status.Seq
	}
	return s, []Command{
		NotifyCommand{Notification: n},
		ClearStatusCommand{Entity: subscriber.Entity, Operation: subscriber.OpDelete},
	}
}

// ErrorMessage is the human-readable form of a failed action.
type ErrorMessage struct {
	Title   string
	Message string
}

// ExtractError reads the backend error name and message, falling back to
// "Server Error" and "Unknown Error" for each missing field.
func ExtractError(info *subscriber.ErrorInfo) ErrorMessage {
	msg := ErrorMessage{Title: fallbackTitle, Message: fallbackMessage}
	if info == nil || info.Response == nil || info.Response.Data == nil {
		return msg
	}
	data := info.Response.Data
	if data.Name != "" {
		msg.Title = data.Name
	}
	if data.Message != "" {
		msg.Message = data.Message
	}
	return msg
}
