// Package subscriber defines the subscriber records and the collection/status
// snapshots shared between the store, the view controller and the UI.
package subscriber

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// EntityType names a kind of record held by the remote store.
type EntityType string

// Operation names an action performed against the remote store.
type Operation string

const (
	// Entity is the entity type for subscriber records.
	Entity EntityType = "subscriber"

	OpFetch  Operation = "fetch"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Subscriber mirrors the backend subscriber document. Only IMSI carries meaning
// for the view controller; the rest is payload for presentation.
type Subscriber struct {
	IMSI     string   `json:"imsi"`
	MSISDN   []string `json:"msisdn,omitempty"`
	Security Security `json:"security"`
	AMBR     AMBR     `json:"ambr"`
}

// Security holds the authentication material for a subscriber.
type Security struct {
	K   string `json:"k"`
	OPc string `json:"opc"`
	AMF string `json:"amf"`
}

// AMBR is the aggregate maximum bit rate.
type AMBR struct {
	Downlink Bitrate `json:"downlink"`
	Uplink   Bitrate `json:"uplink"`
}

// Bitrate is a value with a backend unit index (0=bps .. 4=Tbps).
type Bitrate struct {
	Value int `json:"value"`
	Unit  int `json:"unit"`
}

var bitrateUnits = []string{"bps", "Kbps", "Mbps", "Gbps", "Tbps"}

// String renders the bitrate as "1 Gbps".
func (b Bitrate) String() string {
	unit := "bps"
	if b.Unit >= 0 && b.Unit < len(bitrateUnits) {
		unit = bitrateUnits[b.Unit]
	}
	return fmt.Sprintf("%d %s", b.Value, unit)
}

// Request describes the fetch the controller should emit for a stale snapshot.
type Request struct {
	Entity    EntityType
	Operation Operation
}

// FetchAll is the request used to load the full subscriber collection.
var FetchAll = Request{Entity: Entity, Operation: OpFetch}

// Snapshot is an immutable view of the remote collection cache.
type Snapshot struct {
	IsLoading    bool
	NeedsFetch   bool
	FetchRequest Request
	Data         map[string]Subscriber

	// StaleGen increases every time the collection is marked stale. Zero
	// means the producer does not track generations.
	StaleGen uint64

	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// Len returns the number of cached subscribers.
func (s Snapshot) Len() int {
	return len(s.Data)
}

// Get returns the cached subscriber for imsi.
func (s Snapshot) Get(imsi string) (Subscriber, bool) {
	sub, ok := s.Data[imsi]
	return sub, ok
}

// Sorted returns the cached subscribers ordered by IMSI.
func (s Snapshot) Sorted() []Subscriber {
	if len(s.Data) == 0 {
		return nil
	}
	out := make([]Subscriber, 0, len(s.Data))
	for _, sub := range s.Data {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IMSI < out[j].IMSI })
	return out
}

// IsOffline returns true when the backend has been unreachable for multiple fetches.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Result is the payload of a successful mutating action.
type Result struct {
	ID string
}

// ErrorData is the decoded error body returned by the backend.
type ErrorData struct {
	Name    string
	Message string
}

// ErrorResponse is the HTTP side of a failed action.
type ErrorResponse struct {
	Status int
	Data   *ErrorData
}

// ErrorInfo describes a failed action. Response is nil for transport failures.
type ErrorInfo struct {
	Err      error
	Response *ErrorResponse
}

// ActionStatus is the outcome of the most recent mutating action for one
// (entity, operation) key. Seq increases on every terminal transition.
type ActionStatus struct {
	Seq      uint64
	Pending  bool
	Response *Result
	Error    *ErrorInfo
	ID       string
}

// Terminal reports whether the status holds a response or an error.
func (s ActionStatus) Terminal() bool {
	return s.Response != nil || s.Error != nil
}

// Match reports whether sub matches the free-text query. Matching is a
// case-insensitive substring test over the IMSI and MSISDNs; an empty query
// matches everything.
func Match(sub Subscriber, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(sub.IMSI), q) {
		return true
	}
	for _, msisdn := range sub.MSISDN {
		if strings.Contains(strings.ToLower(msisdn), q) {
			return true
		}
	}
	return false
}

// Filter returns the subscribers matching query, skipping hiddenID.
func Filter(subs []Subscriber, query, hiddenID string) []Subscriber {
	out := make([]Subscriber, 0, len(subs))
	for _, sub := range subs {
		if hiddenID != "" && sub.IMSI == hiddenID {
			continue
		}
		if Match(sub, query) {
			out = append(out, sub)
		}
	}
	return out
}
