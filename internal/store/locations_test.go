package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
)

func TestLocationCRUD(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loc, err := CreateLocation(ctx, database, "Freezer")
	if err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}
	CreateLocation(ctx, database, "Cellar")

	if err := UpdateLocation(ctx, database, loc.ID, "Big freezer"); err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}

	locations, err := ListLocations(ctx, database)
	if err != nil {
		t.Fatalf("ListLocations: %v", err)
	}
	if len(locations) != 2 || locations[0].Name != "Big freezer" {
		t.Errorf("unexpected locations: %+v", locations)
	}

	if err := DeleteLocation(ctx, database, loc.ID); err != nil {
		t.Fatalf("DeleteLocation: %v", err)
	}
	locations, _ = ListLocations(ctx, database)
	if len(locations) != 1 {
		t.Errorf("expected 1 location after delete, got %d", len(locations))
	}

	// Soft-deleted locations stay fetchable for item history.
	got, _ := GetLocation(ctx, database, loc.ID)
	if got == nil || got.DeletedAt == nil {
		t.Error("expected soft-deleted location to remain fetchable")
	}
}

func TestDeleteLocationInUse(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	pantry, _ := CreateLocation(ctx, database, "Pantry")
	flour := newItem("Flour", 1, date(2025, 1, 1))
	flour.LocationID = &pantry.ID
	item, _ := CreateItem(ctx, database, flour)

	if err := DeleteLocation(ctx, database, pantry.ID); !errors.Is(err, ErrLocationInUse) {
		t.Errorf("expected ErrLocationInUse, got %v", err)
	}

	// Once the item is used up the location can go.
	ConsumeItem(ctx, database, ConsumeParams{ItemID: item.ID, Outcome: model.ItemStatusUsed, Today: date(2024, 1, 1)})
	if err := DeleteLocation(ctx, database, pantry.ID); err != nil {
		t.Errorf("DeleteLocation after consumption: %v", err)
	}
}
