package customerRepo

import "servihub/models"

// CustomerRepository exposes the customer lookups the booking core needs,
// plus the one write it owns: clearing the pending-review flag when a
// booking is created.
type CustomerRepository interface {
	GetCustomerByID(customerID string) (*models.Customer, error)
	SetPendingReview(customerID string, pending bool) error
}
