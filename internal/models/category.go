package models

// Category is the closed set of merchant categories every provider
// type string is normalized into. Unknown types map to CategoryGeneral.
type Category string

const (
	CategoryDining        Category = "dining"
	CategoryGroceries     Category = "groceries"
	CategoryGas           Category = "gas"
	CategoryTravel        Category = "travel"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryGeneral       Category = "general"
)

// Categories lists every valid category value.
func Categories() []Category {
	return []Category{
		CategoryDining,
		CategoryGroceries,
		CategoryGas,
		CategoryTravel,
		CategoryShopping,
		CategoryEntertainment,
		CategoryGeneral,
	}
}

// Valid reports whether c is one of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryDining, CategoryGroceries, CategoryGas, CategoryTravel,
		CategoryShopping, CategoryEntertainment, CategoryGeneral:
		return true
	}
	return false
}
