package entities

// Category is an entry of the fixed directory taxonomy
type Category struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Icon        string  `json:"icon" db:"icon"`
	Description *string `json:"description" db:"description"`
}

// CategoryWithCount carries the number of approved publications in the category
type CategoryWithCount struct {
	Category
	Count int `json:"count" db:"count"`
}
