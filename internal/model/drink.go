package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// View selects how a drink is serialized.
type View int

const (
	// ViewShort omits ingredient names.
	ViewShort View = iota
	// ViewLong includes every ingredient field.
	ViewLong
)

var (
	ErrEmptyTitle        = errors.New("title must not be empty")
	ErrEmptyRecipe       = errors.New("recipe must contain at least one ingredient")
	ErrInvalidIngredient = errors.New("invalid ingredient")
)

// Ingredient is one component of a drink recipe.
type Ingredient struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// Validate checks that the ingredient can be rendered in both views.
func (i Ingredient) Validate() error {
	switch {
	case strings.TrimSpace(i.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidIngredient)
	case strings.TrimSpace(i.Color) == "":
		return fmt.Errorf("%w: color is required", ErrInvalidIngredient)
	case i.Parts < 1:
		return fmt.Errorf("%w: parts must be at least 1", ErrInvalidIngredient)
	}
	return nil
}

// Recipe is the ingredient list of a drink, stored as JSON text.
type Recipe []Ingredient

// Value implements the driver.Valuer interface
func (r Recipe) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Ingredient(r))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (r *Recipe) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*r = Recipe{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported recipe column type %T", value)
	}

	var ingredients []Ingredient
	if err := json.Unmarshal(raw, &ingredients); err != nil {
		return fmt.Errorf("decode recipe: %w", err)
	}
	*r = ingredients
	return nil
}

// Validate checks every ingredient of the recipe.
func (r Recipe) Validate() error {
	if len(r) == 0 {
		return ErrEmptyRecipe
	}
	for i, ing := range r {
		if err := ing.Validate(); err != nil {
			return fmt.Errorf("ingredient %d: %w", i, err)
		}
	}
	return nil
}

// ParseRecipe decodes a request recipe into its canonical form. A single
// ingredient object is accepted and wrapped into a one-element list.
func ParseRecipe(raw json.RawMessage) (Recipe, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrEmptyRecipe
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var recipe Recipe
	if raw[0] == '{' {
		var ing Ingredient
		if err := dec.Decode(&ing); err != nil {
			return nil, fmt.Errorf("decode recipe: %w", err)
		}
		recipe = Recipe{ing}
	} else if err := dec.Decode(&recipe); err != nil {
		return nil, fmt.Errorf("decode recipe: %w", err)
	}

	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Drink is a menu entry of the coffee shop.
type Drink struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Title  string `gorm:"size:80;uniqueIndex;not null" json:"title"`
	Recipe Recipe `gorm:"type:text;not null" json:"recipe"`
}

// TableName overrides the table name used by Drink
func (Drink) TableName() string {
	return "drinks"
}

// Validate checks the fields required before a drink is stored.
func (d *Drink) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	return d.Recipe.Validate()
}

// ShortIngredient is an ingredient without its name.
type ShortIngredient struct {
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// ShortDrink is the public representation of a drink.
type ShortDrink struct {
	ID     uint              `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

// LongDrink is the full representation of a drink.
type LongDrink struct {
	ID     uint         `json:"id"`
	Title  string       `json:"title"`
	Recipe []Ingredient `json:"recipe"`
}

func (d *Drink) Short() ShortDrink {
	recipe := make([]ShortIngredient, 0, len(d.Recipe))
	for _, ing := range d.Recipe {
		recipe = append(recipe, ShortIngredient{Color: ing.Color, Parts: ing.Parts})
	}
	return ShortDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

func (d *Drink) Long() LongDrink {
	recipe := make([]Ingredient, len(d.Recipe))
	copy(recipe, d.Recipe)
	return LongDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Render returns the drink serialized in the given view.
func (d *Drink) Render(view View) any {
	if view == ViewLong {
		return d.Long()
	}
	return d.Short()
}
