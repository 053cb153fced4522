// Package services contains the per-screen orchestration the UI talks to.
// Every read renders from the local cache first; whether and when the network
// is consulted depends on the freshness policy of the screen. Marker-gated
// lists (classes, wall posts) check a cheap version endpoint behind a
// cooldown; snapshot screens (dashboard, schedule, activity groups) refresh
// only on explicit user request.
package services

// Connectivity reports whether network calls may be attempted right now.
// netwatch.Monitor satisfies it.
type Connectivity interface {
	IsOnline() bool
}

// refreshStamp is the small payload stored beside a list's freshness marker.
// The rows themselves live in the entity table; this entry only carries the
// marker and the refresh time.
type refreshStamp struct {
	Count int `json:"count"`
}

// alwaysOffline is the zero-value connectivity used when none is injected.
type alwaysOffline struct{}

func (alwaysOffline) IsOnline() bool { return false }

func orOffline(c Connectivity) Connectivity {
	if c == nil {
		return alwaysOffline{}
	}
	return c
}
