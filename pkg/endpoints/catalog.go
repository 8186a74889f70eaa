// Package endpoints holds the catalog of upstream Roblox endpoint
// templates. The catalog is pure data: built once at startup, never
// mutated. Each endpoint has a typed builder that accepts exactly the
// parameters it needs, so a placeholder can never be left unsubstituted.
// No validation of the substituted values happens here; the upstream is
// the source of truth for what is valid.
package endpoints

import (
	"fmt"
	"strings"
)

// Default upstream hosts.
const (
	DefaultGamesBaseURL   = "https://games.roblox.com"
	DefaultCatalogBaseURL = "https://catalog.roblox.com"
)

// pageLimit caps every listing at its first page; pagination beyond the
// first 50 records is not followed.
const pageLimit = 50

// Catalog resolves logical endpoint names to fully-formed upstream URLs.
type Catalog struct {
	gamesBaseURL   string
	catalogBaseURL string
}

// New returns a catalog rooted at the given base URLs. Empty values fall
// back to the public Roblox hosts. Tests point both at a mock server.
func New(gamesBaseURL, catalogBaseURL string) *Catalog {
	if gamesBaseURL == "" {
		gamesBaseURL = DefaultGamesBaseURL
	}
	if catalogBaseURL == "" {
		catalogBaseURL = DefaultCatalogBaseURL
	}
	return &Catalog{
		gamesBaseURL:   strings.TrimRight(gamesBaseURL, "/"),
		catalogBaseURL: strings.TrimRight(catalogBaseURL, "/"),
	}
}

// GamesByUser lists the public games owned by a user, ascending.
func (c *Catalog) GamesByUser(userID string) string {
	return fmt.Sprintf("%s/v2/users/%s/games?accessFilter=2&limit=%d&sortOrder=Asc",
		c.gamesBaseURL, userID, pageLimit)
}

// GamePassesByGame lists the gamepasses of a game, ascending.
func (c *Catalog) GamePassesByGame(gameID int64) string {
	return fmt.Sprintf("%s/v1/games/%d/game-passes?limit=%d&sortOrder=Asc",
		c.gamesBaseURL, gameID, pageLimit)
}

// CreatedItemsByUser lists the catalog items created by a user, most
// recently updated first, restricted to the given asset types.
func (c *Catalog) CreatedItemsByUser(userID string, assetTypes []string) string {
	return fmt.Sprintf("%s/v1/search/items/details?CreatorTargetId=%s&CreatorType=User&assetTypes=%s&limit=%d&sortOrder=Desc&sortType=Updated",
		c.catalogBaseURL, userID, strings.Join(assetTypes, ","), pageLimit)
}
