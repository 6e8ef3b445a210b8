package devserver

import (
	"context"

	"inventory-console/internal/models"
)

// Seed inserts sample data when the products table is empty, so a fresh
// devserver has something to show.
func (s *Store) Seed(ctx context.Context) error {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return nil
	}

	sampleProducts := []models.ProductInput{
		{Name: "Widget", Quantity: 40, Price: 5.00, ReorderThreshold: 10},
		{Name: "Gadget", Quantity: 8, Price: 24.50, ReorderThreshold: 12},
		{Name: "Gizmo", Quantity: 0, Price: 199.99, ReorderThreshold: 5},
		{Name: "Doohickey", Quantity: 150, Price: 1.25, ReorderThreshold: 25},
	}
	for _, p := range sampleProducts {
		if _, err := s.CreateProduct(ctx, p); err != nil {
			return err
		}
	}

	sampleCustomers := []models.ContactInput{
		{Name: "Acme Traders", Contact: "orders@acme.example", Address: "12 Market Street"},
		{Name: "Bright Retail", Contact: "+1 555 0134", Address: "87 Commerce Avenue"},
	}
	for _, c := range sampleCustomers {
		if _, err := s.CreateCustomer(ctx, c); err != nil {
			return err
		}
	}

	sampleSuppliers := []models.ContactInput{
		{Name: "Global Components", Contact: "sales@globalcomponents.example", Address: "4 Industrial Park"},
	}
	for _, sup := range sampleSuppliers {
		if _, err := s.CreateSupplier(ctx, sup); err != nil {
			return err
		}
	}

	return nil
}
