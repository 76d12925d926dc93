package repo

import (
	"context"
	"errors"
	"testing"

	"cafeteria-reservations/internal/domain"
)

func TestMenuRepoUpsertKeepsOneRowPerDate(t *testing.T) {
	ctx := context.Background()
	r := NewMenuRepo(openDB(t))

	id1, err := r.Upsert(ctx, "2025-03-07", domain.StatusPending)
	if err != nil {
		t.Fatal(err)
	}
	id2, err := r.Upsert(ctx, "2025-03-07", domain.StatusConfirmed)
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Fatalf("upsert created a second menu: %s != %s", id1, id2)
	}
	m, err := r.FindByDate(ctx, "2025-03-07")
	if err != nil || m == nil {
		t.Fatalf("find: %v %v", m, err)
	}
	if m.Status != domain.StatusConfirmed {
		t.Fatalf("status not overwritten: %s", m.Status)
	}
	_, total, err := r.List(ctx, 0, 10)
	if err != nil || total != 1 {
		t.Fatalf("list total=%d err=%v", total, err)
	}
}

func TestMenuRepoFindByDateMissing(t *testing.T) {
	r := NewMenuRepo(openDB(t))
	m, err := r.FindByDate(context.Background(), "2030-01-01")
	if err != nil || m != nil {
		t.Fatalf("want (nil, nil), got (%v, %v)", m, err)
	}
}

func TestMenuRepoSaveOrdersDishes(t *testing.T) {
	r := NewMenuRepo(openDB(t))
	m := mustSaveMenu(t, r, "2025-03-07", domain.DietCeliacSafe, domain.DietGeneral, domain.DietVegetarian)
	if len(m.Dishes) != 3 {
		t.Fatalf("dishes = %d", len(m.Dishes))
	}
	for i, want := range domain.DietaryTypes {
		if m.Dishes[i].DietaryType != want {
			t.Fatalf("dish %d type = %s, want %s", i, m.Dishes[i].DietaryType, want)
		}
	}
}

func TestMenuRepoReplaceDishesCascadesReservations(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	menus := NewMenuRepo(db)
	res := NewReservationRepo(db)

	m := mustSaveMenu(t, menus, "2025-03-07", domain.DietGeneral, domain.DietVegetarian)
	if err := res.Create(ctx, &domain.Reservation{UserID: "u1", DishID: m.Dishes[0].ID, Date: m.Date, Slot: 1}); err != nil {
		t.Fatal(err)
	}

	out, err := menus.ReplaceDishes(ctx, m.ID, dishes(domain.DietCeliacSafe))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].DietaryType != domain.DietCeliacSafe {
		t.Fatalf("replaced = %+v", out)
	}
	held, err := res.ListForDay(ctx, "u1", m.Date)
	if err != nil {
		t.Fatal(err)
	}
	if len(held) != 0 {
		t.Fatalf("reservation on deleted dish survived: %+v", held)
	}

	if _, err := menus.ReplaceDishes(ctx, "nope", dishes(domain.DietGeneral)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown menu: want ErrNotFound, got %v", err)
	}
}

// 存储层的唯一索引拦住重复类型，并且整个替换回滚
func TestMenuRepoReplaceDishesRollsBack(t *testing.T) {
	ctx := context.Background()
	r := NewMenuRepo(openDB(t))
	m := mustSaveMenu(t, r, "2025-03-07", domain.DietVegetarian)

	_, err := r.ReplaceDishes(ctx, m.ID, dishes(domain.DietGeneral, domain.DietGeneral))
	if !errors.Is(err, domain.ErrDuplicateDietaryType) {
		t.Fatalf("want ErrDuplicateDietaryType, got %v", err)
	}
	got, err := r.FindByID(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Dishes) != 1 || got.Dishes[0].ID != m.Dishes[0].ID {
		t.Fatalf("dishes changed after failed replace: %+v", got.Dishes)
	}
}

func TestMenuRepoDeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	menus := NewMenuRepo(db)
	res := NewReservationRepo(db)
	m := mustSaveMenu(t, menus, "2025-03-07", domain.DietGeneral)
	if err := res.Create(ctx, &domain.Reservation{UserID: "u1", DishID: m.Dishes[0].ID, Date: m.Date, Slot: 1}); err != nil {
		t.Fatal(err)
	}

	if err := menus.Delete(ctx, m.ID); err != nil {
		t.Fatal(err)
	}
	if got, _ := menus.FindByID(ctx, m.ID); got != nil {
		t.Fatal("menu still present")
	}
	if d, _ := menus.FindDish(ctx, m.Dishes[0].ID); d != nil {
		t.Fatal("dish still present")
	}
	if held, _ := res.ListForDay(ctx, "u1", m.Date); len(held) != 0 {
		t.Fatal("reservation still present")
	}
	// 再删一次不报错
	if err := menus.Delete(ctx, m.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestMenuRepoSetStatus(t *testing.T) {
	ctx := context.Background()
	r := NewMenuRepo(openDB(t))
	m := mustSaveMenu(t, r, "2025-03-07", domain.DietGeneral)
	if err := r.SetStatus(ctx, m.ID, domain.StatusPending); err != nil {
		t.Fatal(err)
	}
	got, _ := r.FindByID(ctx, m.ID)
	if got.Status != domain.StatusPending {
		t.Fatalf("status = %s", got.Status)
	}
	if err := r.SetStatus(ctx, "nope", domain.StatusPending); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMenuRepoUpdateDish(t *testing.T) {
	ctx := context.Background()
	r := NewMenuRepo(openDB(t))
	m := mustSaveMenu(t, r, "2025-03-07", domain.DietGeneral, domain.DietVegetarian)
	gen := m.Dishes[0]

	d, err := r.UpdateDish(ctx, gen.ID, domain.DishInput{DietaryType: domain.DietCeliacSafe, Name: "Polenta", Description: "con salsa"})
	if err != nil {
		t.Fatal(err)
	}
	if d.DietaryType != domain.DietCeliacSafe || d.Name != "Polenta" || d.Description != "con salsa" {
		t.Fatalf("updated = %+v", d)
	}

	_, err = r.UpdateDish(ctx, gen.ID, domain.DishInput{DietaryType: domain.DietVegetarian, Name: "Choque"})
	if !errors.Is(err, domain.ErrDuplicateDietaryType) {
		t.Fatalf("want ErrDuplicateDietaryType, got %v", err)
	}
	if _, err := r.UpdateDish(ctx, "nope", domain.DishInput{DietaryType: domain.DietGeneral, Name: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMenuRepoCreateDishDuplicateType(t *testing.T) {
	ctx := context.Background()
	r := NewMenuRepo(openDB(t))
	m := mustSaveMenu(t, r, "2025-03-07", domain.DietGeneral)
	if _, err := r.CreateDish(ctx, m.ID, dishes(domain.DietGeneral)[0]); !errors.Is(err, domain.ErrDuplicateDietaryType) {
		t.Fatalf("want ErrDuplicateDietaryType, got %v", err)
	}
	d, err := r.CreateDish(ctx, m.ID, dishes(domain.DietVegetarian)[0])
	if err != nil || d.MenuID != m.ID {
		t.Fatalf("create dish: %v, %v", d, err)
	}
}
