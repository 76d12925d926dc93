package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidateDishSet(t *testing.T) {
	gen := DishInput{DietaryType: DietGeneral, Name: "Milanesa"}
	veg := DishInput{DietaryType: DietVegetarian, Name: "Tarta"}
	cel := DishInput{DietaryType: DietCeliacSafe, Name: "Arroz"}

	cases := []struct {
		name    string
		in      []DishInput
		wantErr error // nil + wantVal=false 表示通过
		wantVal bool
	}{
		{"empty", nil, nil, true},
		{"four", []DishInput{gen, veg, cel, gen}, nil, true},
		{"duplicate type", []DishInput{gen, gen}, ErrDuplicateDietaryType, false},
		{"unknown type", []DishInput{{DietaryType: "vegan", Name: "x"}}, nil, true},
		{"blank name", []DishInput{{DietaryType: DietGeneral, Name: "  "}}, nil, true},
		{"ok one", []DishInput{veg}, nil, false},
		{"ok three", []DishInput{cel, gen, veg}, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateDishSet(tc.in)
			switch {
			case tc.wantErr != nil:
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
			case tc.wantVal:
				if !IsValidation(err) {
					t.Fatalf("want validation error, got %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestValidateDishSetTrims(t *testing.T) {
	out, err := ValidateDishSet([]DishInput{{DietaryType: DietGeneral, Name: "  Guiso ", Description: " caliente "}})
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Name != "Guiso" || out[0].Description != "caliente" {
		t.Fatalf("not trimmed: %+v", out[0])
	}
}

func TestMissingTypes(t *testing.T) {
	m := &Menu{Dishes: []Dish{{DietaryType: DietVegetarian}}}
	want := []DietaryType{DietGeneral, DietCeliacSafe}
	if got := m.MissingTypes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("MissingTypes = %v, want %v", got, want)
	}

	full := &Menu{Dishes: []Dish{{DietaryType: DietCeliacSafe}, {DietaryType: DietGeneral}, {DietaryType: DietVegetarian}}}
	if got := full.MissingTypes(); len(got) != 0 {
		t.Fatalf("full menu MissingTypes = %v", got)
	}
}

func TestDefaultDish(t *testing.T) {
	d := DefaultDish(DietCeliacSafe)
	if d.Name != "New celiac-safe dish" || d.Description != "Dish description" || d.DietaryType != DietCeliacSafe {
		t.Fatalf("unexpected placeholder: %+v", d)
	}
	if _, err := d.Normalize(); err != nil {
		t.Fatalf("placeholder must be valid: %v", err)
	}
}
