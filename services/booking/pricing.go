package booking

import (
	"fmt"
	"math"
	"strconv"

	catalogRepo "servihub/database/repository/catalog"
	"servihub/models"
)

// PricingCalculator computes a price breakdown for selected catalog items.
// Pure aside from catalog lookups; safe to call repeatedly and concurrently.
// TaxRate and VisitingFee come from configuration, not literals.
type PricingCalculator struct {
	Catalog     catalogRepo.CatalogRepository
	TaxRate     float64
	VisitingFee float64
}

// ComputeBreakup sums the selected sub-service prices, then applies the
// configured tax rate and fixed visiting fee.
func (pc *PricingCalculator) ComputeBreakup(selections []models.ServiceSelection) (*models.PriceBreakup, error) {
	if len(selections) == 0 {
		return nil, &ValidationError{Message: "no services selected"}
	}

	subTotal := 0.0
	for _, sel := range selections {
		svc, err := pc.Catalog.GetServiceByID(sel.ServiceID)
		if err != nil {
			return nil, &InternalError{Op: "pricing: fetch service", Err: err}
		}
		if svc == nil {
			return nil, &ValidationError{Message: fmt.Sprintf("unknown service %s", sel.ServiceID)}
		}

		byID := make(map[string]models.SubService, len(svc.SubServices))
		for _, sub := range svc.SubServices {
			byID[sub.ID] = sub
		}

		for _, subID := range sel.SubServiceIDs {
			sub, ok := byID[subID]
			if !ok {
				return nil, &ValidationError{Message: fmt.Sprintf("unknown sub-service %s for service %s", subID, sel.ServiceID)}
			}
			price, err := strconv.ParseFloat(sub.Price, 64)
			if err != nil {
				return nil, &ValidationError{Message: fmt.Sprintf("non-numeric price %q for sub-service %s", sub.Price, subID)}
			}
			subTotal += price
		}
	}

	tax := round2(subTotal * pc.TaxRate)
	total := round2(subTotal + pc.VisitingFee + tax)

	return &models.PriceBreakup{
		SubTotal:    round2(subTotal),
		Tax:         tax,
		VisitingFee: pc.VisitingFee,
		Total:       total,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
