package repo

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"cafeteria-reservations/internal/domain"
	"cafeteria-reservations/internal/testutil"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.OpenDB(t)
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func dishes(types ...domain.DietaryType) []domain.DishInput {
	out := make([]domain.DishInput, 0, len(types))
	for _, ty := range types {
		out = append(out, domain.DishInput{DietaryType: ty, Name: "Plato " + string(ty)})
	}
	return out
}

func mustSaveMenu(t *testing.T, r *MenuRepo, date domain.Date, types ...domain.DietaryType) *domain.Menu {
	t.Helper()
	m, err := r.Save(context.Background(), date, domain.StatusConfirmed, dishes(types...))
	if err != nil {
		t.Fatalf("save menu: %v", err)
	}
	return m
}
