package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func newItem(name string, qty int, expiry time.Time) model.Item {
	return model.Item{Name: name, Category: model.CategoryFood, Quantity: qty, ExpiryDate: expiry}
}

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	notify := 2
	in := newItem("Milk", 2, date(2024, 1, 12))
	in.Subcategory = "dairy"
	in.NotifyDaysBefore = &notify

	item, err := CreateItem(ctx, database, in)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Name != "Milk" {
		t.Errorf("expected name 'Milk', got %q", item.Name)
	}
	if item.Status != model.ItemStatusActive {
		t.Errorf("expected status 'active', got %q", item.Status)
	}
	if !item.ExpiryDate.Equal(date(2024, 1, 12)) {
		t.Errorf("expected expiry 2024-01-12, got %v", item.ExpiryDate)
	}
	if item.NotifyDaysBefore == nil || *item.NotifyDaysBefore != 2 {
		t.Errorf("expected notify_days_before 2, got %v", item.NotifyDaysBefore)
	}
	if item.Subcategory != "dairy" {
		t.Errorf("expected subcategory 'dairy', got %q", item.Subcategory)
	}

	missing, err := GetItem(ctx, database, 999)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing item")
	}
}

func TestCreateItemRejectsZeroQuantity(t *testing.T) {
	database := db.NewTestDB(t)

	if _, err := CreateItem(context.Background(), database, newItem("Air", 0, date(2024, 1, 1))); err == nil {
		t.Error("expected error for zero quantity")
	}
}

func TestCreateItemLearnsProduct(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	in := newItem("Dish soap", 1, date(2025, 6, 1))
	in.Category = model.CategoryHousehold
	in.Barcode = "3830000000001"
	if _, err := CreateItem(ctx, database, in); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	p, err := GetProduct(ctx, database, "3830000000001")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p == nil || p.Name != "Dish soap" || p.Category != model.CategoryHousehold {
		t.Errorf("expected learned product, got %+v", p)
	}

	// A later entry with the same code renames the product.
	in.Name = "Dish soap lemon"
	CreateItem(ctx, database, in)
	p, _ = GetProduct(ctx, database, "3830000000001")
	if p.Name != "Dish soap lemon" {
		t.Errorf("expected product name to be updated, got %q", p.Name)
	}

	unknown, _ := GetProduct(ctx, database, "0000")
	if unknown != nil {
		t.Error("expected nil for unknown barcode")
	}
}

func TestListItemsOrderedByExpiry(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateItem(ctx, database, newItem("Bread", 1, date(2024, 1, 15)))
	CreateItem(ctx, database, newItem("Milk", 1, date(2024, 1, 11)))
	soap := newItem("Soap", 3, date(2025, 1, 1))
	soap.Category = model.CategoryHousehold
	CreateItem(ctx, database, soap)

	items, err := ListItems(ctx, database, ItemFilter{})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Name != "Milk" || items[1].Name != "Bread" || items[2].Name != "Soap" {
		t.Errorf("unexpected order: %s, %s, %s", items[0].Name, items[1].Name, items[2].Name)
	}

	food, _ := ListItems(ctx, database, ItemFilter{Category: model.CategoryFood})
	if len(food) != 2 {
		t.Errorf("expected 2 food items, got %d", len(food))
	}
}

func TestListItemsByLocation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	fridge, _ := CreateLocation(ctx, database, "Fridge")
	milk := newItem("Milk", 1, date(2024, 1, 11))
	milk.LocationID = &fridge.ID
	CreateItem(ctx, database, milk)
	CreateItem(ctx, database, newItem("Rice", 1, date(2026, 1, 1)))

	items, err := ListItems(ctx, database, ItemFilter{LocationID: fridge.ID})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item in fridge, got %d", len(items))
	}
	if items[0].LocationName != "Fridge" {
		t.Errorf("expected joined location name, got %q", items[0].LocationName)
	}
}

func TestUpdateItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Cheese", 1, date(2024, 1, 20)))
	item.Quantity = 4
	item.ExpiryDate = date(2024, 2, 1)
	item.NotifyDaysBefore = nil
	if err := UpdateItem(ctx, database, *item); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", got.Quantity)
	}
	if !got.ExpiryDate.Equal(date(2024, 2, 1)) {
		t.Errorf("expected expiry 2024-02-01, got %v", got.ExpiryDate)
	}

	item.ID = 999
	if err := UpdateItem(ctx, database, *item); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Delete Me", 1, date(2024, 1, 1)))
	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got != nil {
		t.Error("expected item to be gone")
	}
	if err := DeleteItem(ctx, database, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteConsumedItemKeepsHistory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	today := date(2024, 1, 10)

	item, err := CreateItem(ctx, database, newItem("Yogurt", 2, date(2024, 1, 9)))
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if _, err := ConsumeItem(ctx, database, ConsumeParams{ItemID: item.ID, Outcome: model.ItemStatusWasted, Today: today}); err != nil {
		t.Fatalf("ConsumeItem: %v", err)
	}
	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	stats, err := Stats(ctx, database, time.Time{})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.WastedQuantity != 2 {
		t.Errorf("expected 2 wasted after deleting the item, got %d", stats.WastedQuantity)
	}

	history, err := ListHistory(ctx, database, HistoryFilter{})
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	if history[0].ItemID != nil || history[0].ItemName != "Yogurt" {
		t.Errorf("expected an unlinked Yogurt entry, got %+v", history[0])
	}
}

func TestItemImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Photo Item", 1, date(2024, 1, 1)))
	SetItemImage(ctx, database, item.ID, []byte("fake image data"), "image/jpeg")

	data, mime, err := GetItemImage(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected image data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}
}
