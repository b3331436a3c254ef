package models

// Tag is a recipe label such as "breakfast"
type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,hexcolor6"`
	Slug  string `json:"slug" validate:"required,max=200"`
}

// Ingredient is a catalog entry with its measurement unit
type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}
