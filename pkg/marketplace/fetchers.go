package marketplace

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// Upstream payload shapes. Each listing wraps its records in a "data"
// array; an absent "data" decodes to a nil slice and is treated as an
// empty listing, not an error. Records are kept raw here and decoded
// one by one, so a single odd record cannot take its siblings with it.
type listPayload struct {
	Data []json.RawMessage `json:"data"`
}

type gameRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type gamePassRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       *int64 `json:"price"`
	Description string `json:"description"`
	IsForSale   bool   `json:"isForSale"`
}

type createdItemRecord struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Price       *int64        `json:"price"`
	Description string        `json:"description"`
	IsForSale   bool          `json:"isForSale"`
	AssetType   *assetTypeRef `json:"assetType"`
}

type assetTypeRef struct {
	Name string `json:"name"`
}

// decodeRecords decodes each raw element of a "data" array individually.
// A record that does not match the expected shape (a string or fractional
// price, for example) is skipped and logged; its siblings survive. A price
// that is not an integer is therefore never sellable, while the rest of
// the listing still is.
func decodeRecords[T any](logger zerolog.Logger, collection string, raw []json.RawMessage) []T {
	records := make([]T, 0, len(raw))
	for i, r := range raw {
		var rec T
		if err := json.Unmarshal(r, &rec); err != nil {
			logger.Debug().
				Err(err).
				Str("collection", collection).
				Int("index", i).
				Msg("Skipping undecodable record")
			continue
		}
		records = append(records, rec)
	}
	return records
}

// fetchOwnedGames lists the games owned by the user. All records are kept.
func (a *Aggregator) fetchOwnedGames(ctx context.Context, userID string) ([]GameRef, error) {
	payload, err := a.fetcher.FetchJSON(ctx, a.catalog.GamesByUser(userID))
	if err != nil {
		return nil, err
	}

	var body listPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("decode games payload: %w", err)
	}

	records := decodeRecords[gameRecord](a.logger, "games", body.Data)
	games := make([]GameRef, 0, len(records))
	for _, rec := range records {
		games = append(games, GameRef{ID: rec.ID, Name: rec.Name})
	}
	return games, nil
}

// fetchGamePasses lists the gamepasses of one game in upstream order,
// keeping those that are for sale at a positive price.
func (a *Aggregator) fetchGamePasses(ctx context.Context, game GameRef) ([]Item, error) {
	payload, err := a.fetcher.FetchJSON(ctx, a.catalog.GamePassesByGame(game.ID))
	if err != nil {
		return nil, err
	}

	var body listPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("decode gamepasses payload: %w", err)
	}

	records := decodeRecords[gamePassRecord](a.logger, "gamepasses", body.Data)
	items := make([]Item, 0, len(records))
	for _, rec := range records {
		if !rec.IsForSale || rec.Price == nil || *rec.Price <= 0 {
			continue
		}
		items = append(items, Item{
			ID:          rec.ID,
			Name:        rec.Name,
			Price:       *rec.Price,
			Description: rec.Description,
			Type:        TypeGamePass,
			GameID:      game.ID,
		})
	}
	return items, nil
}

// fetchCreatedItems lists the catalog items created by the user in upstream
// order, keeping those that are for sale at a positive numeric price and of
// a sellable asset type. A record without an asset type is treated as type
// "Unknown" and excluded.
func (a *Aggregator) fetchCreatedItems(ctx context.Context, userID string) ([]Item, error) {
	payload, err := a.fetcher.FetchJSON(ctx, a.catalog.CreatedItemsByUser(userID, a.config.AssetTypes))
	if err != nil {
		return nil, err
	}

	var body listPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("decode created items payload: %w", err)
	}

	records := decodeRecords[createdItemRecord](a.logger, "created-items", body.Data)
	items := make([]Item, 0, len(records))
	for _, rec := range records {
		typeName := typeUnknown
		if rec.AssetType != nil {
			typeName = rec.AssetType.Name
		}
		if !rec.IsForSale || rec.Price == nil || *rec.Price <= 0 {
			continue
		}
		if !a.sellableTypes[typeName] {
			continue
		}
		items = append(items, Item{
			ID:          rec.ID,
			Name:        rec.Name,
			Price:       *rec.Price,
			Description: rec.Description,
			Type:        typeName,
		})
	}
	return items, nil
}

// guarded runs one collection fetch and absorbs any failure into an empty
// result, logging the cause. The degrade policy for the whole pipeline
// lives here once: a failing branch reduces the output, it never blanks or
// aborts the aggregation.
func guarded[T any](logger zerolog.Logger, collection string, fn func() ([]T, error)) []T {
	out, err := fn()
	if err != nil {
		collectionFailuresTotal.WithLabelValues(collection).Inc()
		logger.Warn().
			Err(err).
			Str("collection", collection).
			Msg("Collection fetch failed, degrading to empty")
		return nil
	}
	return out
}
