package catalog

import (
	"context"
	"testing"

	"github.com/arshoplabs/arshop-backend/pkg/db/models"
)

func TestListActiveFiltersInactive(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Aurora Lamp", "lighting", "39.99", true)
	seedProduct(t, db, "Retired Lamp", "lighting", "19.99", false)

	rows, err := repo.ListActive(ctx, ListFilters{})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 active product, got %d", len(rows))
	}
	if rows[0].Name != "Aurora Lamp" {
		t.Fatalf("unexpected product %q", rows[0].Name)
	}
}

func TestListActiveCategoryExactMatch(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Aurora Lamp", "lighting", "39.99", true)
	seedProduct(t, db, "Oak Desk", "furniture", "120.00", true)

	rows, err := repo.ListActive(ctx, ListFilters{Category: "lighting"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(rows) != 1 || rows[0].Category != "lighting" {
		t.Fatalf("expected only lighting products, got %d rows", len(rows))
	}

	rows, err = repo.ListActive(ctx, ListFilters{Category: "light"})
	if err != nil {
		t.Fatalf("list by partial category: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("category filter must be exact, got %d rows", len(rows))
	}
}

func TestListActiveSearchCaseInsensitiveSubstring(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Aurora Lamp", "lighting", "39.99", true)
	seedProduct(t, db, "Oak Desk", "furniture", "120.00", true)

	rows, err := repo.ListActive(ctx, ListFilters{Search: "AURORA"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Aurora Lamp" {
		t.Fatalf("expected case-insensitive match, got %d rows", len(rows))
	}

	rows, err = repo.ListActive(ctx, ListFilters{Search: "lam"})
	if err != nil {
		t.Fatalf("substring search: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected substring match, got %d rows", len(rows))
	}
}

func TestFeaturedReturnsFirstActive(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for _, name := range []string{"One", "Two", "Three", "Four", "Five"} {
		seedProduct(t, db, name, "misc", "1.00", true)
	}
	seedProduct(t, db, "Hidden", "misc", "1.00", false)

	rows, err := repo.Featured(ctx, 4)
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 featured products, got %d", len(rows))
	}
	for _, row := range rows {
		if !row.IsActive {
			t.Fatalf("inactive product %q in featured set", row.Name)
		}
	}
}

func TestFindByIDPreloadsImages(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, "Aurora Lamp", "lighting", "39.99", true)
	images := []models.ProductImage{
		{ProductID: product.ID, ImageURL: "/img/lamp-front.png"},
		{ProductID: product.ID, ImageURL: "/img/lamp-qr.png", IsSecondary: true},
	}
	if err := db.Create(&images).Error; err != nil {
		t.Fatalf("seed images: %v", err)
	}

	got, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if len(got.Images) != 2 {
		t.Fatalf("expected 2 images preloaded, got %d", len(got.Images))
	}
}

func TestCategoriesDistinctActiveOnly(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Aurora Lamp", "lighting", "39.99", true)
	seedProduct(t, db, "Nebula Lamp", "lighting", "44.99", true)
	seedProduct(t, db, "Oak Desk", "furniture", "120.00", true)
	seedProduct(t, db, "Ghost Chair", "furniture", "60.00", false)
	seedProduct(t, db, "Old Stock", "clearance", "5.00", false)

	categories, err := repo.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	want := []string{"furniture", "lighting"}
	if len(categories) != len(want) {
		t.Fatalf("expected %v, got %v", want, categories)
	}
	for i, category := range want {
		if categories[i] != category {
			t.Fatalf("expected %v, got %v", want, categories)
		}
	}
}

func TestListAllIncludesInactive(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, "Aurora Lamp", "lighting", "39.99", true)
	seedProduct(t, db, "Retired Lamp", "lighting", "19.99", false)

	rows, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 products, got %d", len(rows))
	}
}
