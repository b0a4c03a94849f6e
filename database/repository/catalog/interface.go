package catalogRepo

import "servihub/models"

// CatalogRepository is the read-only view of the service catalog the
// pricing calculator consumes.
type CatalogRepository interface {
	GetServiceByID(serviceID string) (*models.Service, error)
	ListServices() ([]models.Service, error)
}
