package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
)

func TestRestoreReplacesHouseholdData(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	today := date(2024, 1, 10)

	fridge, _ := CreateLocation(ctx, database, "Fridge")
	cheeseIn := newItem("Cheese", 1, date(2024, 1, 20))
	cheeseIn.LocationID = &fridge.ID
	cheese, _ := CreateItem(ctx, database, cheeseIn)
	SetItemImage(ctx, database, cheese.ID, []byte("jpeg"), "image/jpeg")
	apples, _ := CreateItem(ctx, database, newItem("Apples", 6, date(2024, 1, 15)))
	ConsumeItem(ctx, database, ConsumeParams{ItemID: apples.ID, Outcome: model.ItemStatusUsed, Quantity: 2, Today: today})
	CreateShoppingItem(ctx, database, "Bread", 1, "", nil)

	cellar := int64(50)
	missingUser := int64(77)
	missingItem := int64(999)
	restored := cheese.ID
	d := Dataset{
		Preferences: model.Preferences{DateFormat: "month_first", Language: "sl"},
		Locations: []model.Location{
			{ID: fridge.ID, Name: "Hladilnik"},
			{ID: cellar, Name: "Klet"},
		},
		Items: []model.Item{
			{ID: cheese.ID, Name: "Cheese", Category: model.CategoryFood, Quantity: 5,
				ExpiryDate: date(2024, 1, 22), LocationID: &fridge.ID, Status: model.ItemStatusActive},
			{ID: 40, Name: "Rice", Category: model.CategoryFood, Quantity: 1,
				ExpiryDate: date(2025, 6, 1), LocationID: &cellar, Status: model.ItemStatusActive},
		},
		History: []model.HistoryEntry{
			{ItemID: &restored, ItemName: "Cheese", Category: model.CategoryFood, Outcome: model.ItemStatusWasted,
				Quantity: 1, DaysRemaining: -1, RecordedAt: today, RecordedBy: &missingUser},
		},
		Shopping: []model.ShoppingItem{{Name: "Milk", Quantity: 2, ItemID: &missingItem}},
	}

	if err := Restore(ctx, database, d); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if got, _ := GetItem(ctx, database, apples.ID); got != nil {
		t.Errorf("expected apples to be removed, got %+v", got)
	}
	got, _ := GetItem(ctx, database, cheese.ID)
	if got == nil || got.Quantity != 5 || !got.ExpiryDate.Equal(date(2024, 1, 22)) || got.LocationName != "Hladilnik" {
		t.Errorf("unexpected restored cheese: %+v", got)
	}
	if data, _, _ := GetItemImage(ctx, database, cheese.ID); string(data) != "jpeg" {
		t.Errorf("expected the cheese photo to survive, got %q", data)
	}
	rice, _ := GetItem(ctx, database, 40)
	if rice == nil || rice.LocationName != "Klet" {
		t.Errorf("unexpected restored rice: %+v", rice)
	}

	locations, _ := ListLocations(ctx, database)
	if len(locations) != 2 {
		t.Errorf("expected 2 locations, got %+v", locations)
	}

	history, _ := ListHistory(ctx, database, HistoryFilter{})
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	if history[0].ItemID == nil || *history[0].ItemID != cheese.ID || history[0].RecordedBy != nil {
		t.Errorf("unexpected restored history: %+v", history[0])
	}

	list, _ := ListShoppingItems(ctx, database)
	if len(list) != 1 || list[0].Name != "Milk" || list[0].ItemID != nil {
		t.Errorf("unexpected restored shopping list: %+v", list)
	}

	prefs, _ := GetPreferences(ctx, database)
	if prefs.Language != "sl" || prefs.DateFormat != "month_first" {
		t.Errorf("unexpected restored preferences: %+v", prefs)
	}
}

func TestRestoreRejectsInvalidDataset(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	milk, _ := CreateItem(ctx, database, newItem("Milk", 1, date(2024, 1, 12)))

	prefs := model.Preferences{DateFormat: "day_first", Language: "en"}
	tests := map[string]Dataset{
		"bad category": {Preferences: prefs, Items: []model.Item{
			{ID: 1, Name: "X", Category: "garden", Quantity: 1, ExpiryDate: date(2024, 1, 1), Status: model.ItemStatusActive},
		}},
		"no expiry": {Preferences: prefs, Items: []model.Item{
			{ID: 1, Name: "X", Category: model.CategoryFood, Quantity: 1, Status: model.ItemStatusActive},
		}},
		"bad outcome": {Preferences: prefs, History: []model.HistoryEntry{
			{ItemName: "X", Category: model.CategoryFood, Outcome: "lost", Quantity: 1},
		}},
		"bad preferences": {Preferences: model.Preferences{DateFormat: "year_first", Language: "en"}},
	}
	for name, d := range tests {
		if err := Restore(ctx, database, d); !errors.Is(err, ErrInvalidDataset) {
			t.Errorf("%s: expected ErrInvalidDataset, got %v", name, err)
		}
	}

	if got, _ := GetItem(ctx, database, milk.ID); got == nil {
		t.Error("expected existing data to be untouched")
	}
}
