package models

// All lists every persisted model in dependency order. Tests use it to
// auto-migrate sqlite databases; production schema comes from goose migrations.
func All() []any {
	return []any{
		&User{},
		&Profile{},
		&Address{},
		&Category{},
		&Brand{},
		&Product{},
		&ProductImage{},
		&Cart{},
		&CartItem{},
		&WishlistItem{},
		&Payment{},
		&Order{},
		&OrderItem{},
		&Shipment{},
		&Review{},
	}
}
