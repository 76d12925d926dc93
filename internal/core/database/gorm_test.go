package database

import (
	"errors"
	"testing"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	cases := []struct {
		in, user, pass string
		want           string
	}{
		{"user:pw@tcp(db:3306)/app?parseTime=true", "", "", "user:pw@tcp(db:3306)/app?parseTime=true"},
		{"mysql://user:pw@db:3306/app", "", "", "user:pw@tcp(db:3306)/app?charset=utf8mb4&parseTime=true"},
		{"jdbc:mysql://db:3306/app?charset=latin1", "root", "x", "root:x@tcp(db:3306)/app?charset=latin1&parseTime=true"},
	}
	for _, tc := range cases {
		if got := normalizeMySQLDSN(tc.in, tc.user, tc.pass); got != tc.want {
			t.Errorf("normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskDSN(t *testing.T) {
	cases := map[string]string{
		"user:pw@tcp(db:3306)/app":            "user:****@tcp(db:3306)/app",
		"postgres://user:pw@db:5432/app":      "postgres://user:****@db:5432/app",
		"postgres://user@db:5432/app":         "postgres://user@db:5432/app",
		"file:cafeteria.db?_pragma=foo(5000)": "file:cafeteria.db?_pragma=foo(5000)",
	}
	for in, want := range cases {
		if got := MaskDSN(in); got != want {
			t.Errorf("MaskDSN(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewGormUnsupportedDriver(t *testing.T) {
	if _, err := NewGorm(Opts{Driver: "oracle"}); !errors.Is(err, ErrUnsupportedDriver) {
		t.Fatalf("want ErrUnsupportedDriver, got %v", err)
	}
}

func TestNewGormSQLite(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: "file:TestNewGormSQLite?mode=memory&cache=shared", LogLevel: "silent"})
	if err != nil {
		t.Fatal(err)
	}
	var n int
	if err := db.Raw("SELECT 1").Scan(&n).Error; err != nil || n != 1 {
		t.Fatalf("select 1: %d, %v", n, err)
	}
	sqlDB, _ := db.DB()
	_ = sqlDB.Close()
}
