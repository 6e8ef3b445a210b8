package screen

import (
	"strings"

	"inventory-console/internal/apiclient"
	"inventory-console/internal/models"
	"inventory-console/internal/notify"
)

// ProductScreen is the products list with CRUD and the low-stock flag.
type ProductScreen = CRUDScreen[models.ProductInput, models.Product]

// NewProductScreen builds the products screen.
func NewProductScreen(client *apiclient.Client, notifier *notify.Notifier) *ProductScreen {
	return NewCRUDScreen[models.ProductInput, models.Product](client, notifier,
		EntityConfig[models.ProductInput]{
			Name:     "product",
			Path:     "/api/products",
			Validate: validateProduct,
		},
		Messages{
			LoadError:   "Error loading products",
			Added:       "Product added successfully",
			Updated:     "Product updated successfully",
			Deleted:     "Product deleted successfully",
			SaveError:   "Error saving product",
			DeleteError: "Error deleting product",
		})
}

// CustomerScreen is the customers list.
type CustomerScreen = CRUDScreen[models.ContactInput, models.Customer]

// NewCustomerScreen builds the customers screen.
func NewCustomerScreen(client *apiclient.Client, notifier *notify.Notifier) *CustomerScreen {
	return NewCRUDScreen[models.ContactInput, models.Customer](client, notifier,
		EntityConfig[models.ContactInput]{
			Name:     "customer",
			Path:     "/api/customers",
			Validate: validateContact,
		},
		Messages{
			LoadError:   "Error loading customers",
			Added:       "Customer added successfully",
			Updated:     "Customer updated successfully",
			Deleted:     "Customer deleted successfully",
			SaveError:   "Error saving customer",
			DeleteError: "Error deleting customer",
		})
}

// SupplierScreen is the suppliers list.
type SupplierScreen = CRUDScreen[models.ContactInput, models.Supplier]

// NewSupplierScreen builds the suppliers screen.
func NewSupplierScreen(client *apiclient.Client, notifier *notify.Notifier) *SupplierScreen {
	return NewCRUDScreen[models.ContactInput, models.Supplier](client, notifier,
		EntityConfig[models.ContactInput]{
			Name:     "supplier",
			Path:     "/api/suppliers",
			Validate: validateContact,
		},
		Messages{
			LoadError:   "Error loading suppliers",
			Added:       "Supplier added successfully",
			Updated:     "Supplier updated successfully",
			Deleted:     "Supplier deleted successfully",
			SaveError:   "Error saving supplier",
			DeleteError: "Error deleting supplier",
		})
}

func validateProduct(in models.ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Message: "product name is required"}
	}
	if in.Quantity < 0 {
		return &ValidationError{Message: "quantity cannot be negative"}
	}
	if in.Price < 0 {
		return &ValidationError{Message: "price cannot be negative"}
	}
	if in.ReorderThreshold < 0 {
		return &ValidationError{Message: "reorder threshold cannot be negative"}
	}
	return nil
}

func validateContact(in models.ContactInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Message: "name is required"}
	}
	return nil
}
