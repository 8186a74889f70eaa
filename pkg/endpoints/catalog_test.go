package endpoints

import (
	"strings"
	"testing"
)

func TestGamesByUser(t *testing.T) {
	catalog := New("", "")

	got := catalog.GamesByUser("100")
	want := "https://games.roblox.com/v2/users/100/games?accessFilter=2&limit=50&sortOrder=Asc"
	if got != want {
		t.Errorf("GamesByUser = %q, want %q", got, want)
	}
}

func TestGamePassesByGame(t *testing.T) {
	catalog := New("", "")

	got := catalog.GamePassesByGame(12345)
	want := "https://games.roblox.com/v1/games/12345/game-passes?limit=50&sortOrder=Asc"
	if got != want {
		t.Errorf("GamePassesByGame = %q, want %q", got, want)
	}
}

func TestCreatedItemsByUser(t *testing.T) {
	catalog := New("", "")

	got := catalog.CreatedItemsByUser("100", []string{"Shirt", "Pants", "TShirt"})
	want := "https://catalog.roblox.com/v1/search/items/details?CreatorTargetId=100&CreatorType=User&assetTypes=Shirt,Pants,TShirt&limit=50&sortOrder=Desc&sortType=Updated"
	if got != want {
		t.Errorf("CreatedItemsByUser = %q, want %q", got, want)
	}
}

func TestNew_BaseURLOverrides(t *testing.T) {
	catalog := New("http://127.0.0.1:9999/", "http://127.0.0.1:9998")

	if got := catalog.GamesByUser("1"); !strings.HasPrefix(got, "http://127.0.0.1:9999/v2/") {
		t.Errorf("Games base URL not applied: %q", got)
	}
	if got := catalog.CreatedItemsByUser("1", []string{"Shirt"}); !strings.HasPrefix(got, "http://127.0.0.1:9998/v1/") {
		t.Errorf("Catalog base URL not applied: %q", got)
	}
}
