package service

import (
	"context"
	"testing"

	"cafeteria-reservations/internal/domain"
	"cafeteria-reservations/internal/repo"
	"cafeteria-reservations/internal/testutil"
)

type fixture struct {
	users        *repo.UserRepo
	menus        *repo.MenuRepo
	reservations *repo.ReservationRepo
	dir          *MenuDirectory
	engine       *ReservationEngine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	f := &fixture{
		users:        repo.NewUserRepo(db),
		menus:        repo.NewMenuRepo(db),
		reservations: repo.NewReservationRepo(db),
	}
	f.dir = NewMenuDirectory(f.menus, f.reservations, nil, nil)
	f.engine = NewReservationEngine(f.reservations, f.dir, nil)
	return f
}

func (f *fixture) user(t *testing.T, nid string, role domain.Role, veg, celiac bool) *domain.User {
	t.Helper()
	u := &domain.User{NationalID: nid, FullName: "User " + nid, Role: role, IsVegetarian: veg, IsCeliac: celiac}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) menu(t *testing.T, date domain.Date, types ...domain.DietaryType) *domain.Menu {
	t.Helper()
	in := make([]domain.DishInput, 0, len(types))
	for _, ty := range types {
		in = append(in, domain.DishInput{DietaryType: ty, Name: "Plato " + string(ty)})
	}
	m, err := f.dir.SaveMenu(context.Background(), date, domain.StatusConfirmed, in)
	if err != nil {
		t.Fatalf("save menu: %v", err)
	}
	return m
}

func dishOf(t *testing.T, m *domain.Menu, ty domain.DietaryType) domain.Dish {
	t.Helper()
	for _, d := range m.Dishes {
		if d.DietaryType == ty {
			return d
		}
	}
	t.Fatalf("menu has no %s dish", ty)
	return domain.Dish{}
}
