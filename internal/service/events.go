package service

// Broadcaster pushes realtime events to connected panels. *ws.Hub implements it.
type Broadcaster interface {
	BroadcastJSON(payload interface{})
	SendToUsers(userIDs []string, payload interface{})
}

// Actor identifies who triggered a change, for audit fields and event messages.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SystemActor is used for changes made outside a request (seeding, CLI).
var SystemActor = Actor{ID: "system", Name: "system"}
