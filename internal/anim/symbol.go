package anim

// Symbol is one catalog entry.
type Symbol struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var catalog = [...]Symbol{
	{ID: 0, Name: "person.fill", Description: "Person"},
	{ID: 1, Name: "airplane", Description: "Airplane"},
	{ID: 2, Name: "house.fill", Description: "House"},
	{ID: 3, Name: "car.fill", Description: "Car"},
	{ID: 4, Name: "flame.fill", Description: "Flame"},
	{ID: 5, Name: "pencil", Description: "Pencil"},
}

// CatalogSize is the number of symbols in the display cycle.
const CatalogSize = len(catalog)

// Catalog returns a copy of the symbols in display order.
func Catalog() []Symbol {
	out := make([]Symbol, CatalogSize)
	copy(out, catalog[:])
	return out
}
