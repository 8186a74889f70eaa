// Package marketplace implements the sellable-items pipeline: the three
// collection fetchers layered on the resilient fetcher, the degrade-don't-
// abort guard around each of them, and the orchestrator that flattens
// their output into one ordered result.
package marketplace

// Sellable item types. Gamepasses are per-game entitlements; the clothing
// types come from the user's created catalog items.
const (
	TypeGamePass = "GamePass"
	TypeShirt    = "Shirt"
	TypePants    = "Pants"
	TypeTShirt   = "TShirt"

	// typeUnknown marks created records whose asset type is absent
	// upstream. Such records are never sellable.
	typeUnknown = "Unknown"
)

// Item is one normalized sellable item. Immutable once constructed.
// GameID is serialized only for gamepasses.
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Type        string `json:"type"`
	GameID      int64  `json:"gameId,omitempty"`
}

// GameRef identifies one game owned by the user. It only drives the
// per-game gamepass fetches and is not part of the final output.
type GameRef struct {
	ID   int64
	Name string
}

// Result is the externally observed aggregation outcome. Count is always
// derived from Items and Items serializes as [], never null.
type Result struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId,omitempty"`
	Error   string `json:"error,omitempty"`
	Items   []Item `json:"items"`
	Count   int    `json:"count"`
}
