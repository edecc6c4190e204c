package entity

import "time"

// ClientActivity summarizes the state writes observed for one client namespace.
type ClientActivity struct {
	Namespace      string         `json:"namespace"`
	LastEventID    string         `json:"lastEventId"`
	LastCollection string         `json:"lastCollection"`
	LastChangedAt  time.Time      `json:"lastChangedAt"`
	Changes        map[string]int `json:"changes"`
}

// Record counts one change. Replayed events (same ID as the last one) are ignored
// and reported as false.
func (a *ClientActivity) Record(eventID, collection string, at time.Time) bool {
	if eventID != "" && eventID == a.LastEventID {
		return false
	}
	if a.Changes == nil {
		a.Changes = map[string]int{}
	}

	a.Changes[collection]++
	a.LastEventID = eventID
	a.LastCollection = collection
	if at.After(a.LastChangedAt) {
		a.LastChangedAt = at
	}

	return true
}
