package types

import "encoding/json"

// CreateDrinkRequest represents the request body for creating a drink
type CreateDrinkRequest struct {
	Title  string          `json:"title"`
	Recipe json.RawMessage `json:"recipe"`
}

// UpdateDrinkRequest represents the request body for updating a drink.
// Omitted fields are left untouched.
type UpdateDrinkRequest struct {
	Title  *string         `json:"title"`
	Recipe json.RawMessage `json:"recipe"`
}
