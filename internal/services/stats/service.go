// Package stats computes salesperson dashboard counters by querying the
// QR and bundle tables directly instead of trusting the running
// counters, so drift in the latter is visible rather than compounding.
package stats

import (
	"context"
	"log"

	"digipehchan/internal/repositories"
	"digipehchan/internal/repositories/cache"
)

// SalespersonStats are the dashboard counters for one salesperson.
type SalespersonStats struct {
	SalespersonID uint  `json:"salesperson_id"`
	AvailableQRs  int64 `json:"available_qrs"`
	SoldQRs       int64 `json:"sold_qrs"`
	TotalBundles  int64 `json:"total_bundles"`
}

// Service computes reconciled salesperson statistics.
type Service interface {
	ComputeSalespersonStats(ctx context.Context, salespersonID uint) (*SalespersonStats, error)
}

type service struct {
	qrs     repositories.QRRepository
	bundles repositories.BundleRepository
	cache   repositories.CacheRepository
}

func NewService(qrs repositories.QRRepository, bundles repositories.BundleRepository, cacheRepo repositories.CacheRepository) Service {
	if qrs == nil || bundles == nil {
		panic("stats service: repositories are required")
	}
	return &service{qrs: qrs, bundles: bundles, cache: cacheRepo}
}

// ComputeSalespersonStats returns cached counters when fresh, otherwise
// recomputes them from live queries.
//
// "Sold" deliberately spans two disjoint status combinations: QRs a
// customer has activated (ACTIVE with an owner) and QRs whose offline
// payment was approved but which still await self-activation (INACTIVE
// with is_sold). Collapsing the two breaks the dashboard counts.
func (s *service) ComputeSalespersonStats(ctx context.Context, salespersonID uint) (*SalespersonStats, error) {
	key := cache.StatsKey(salespersonID)
	if s.cache != nil {
		var cached SalespersonStats
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	available, err := s.qrs.CountAvailable(ctx, salespersonID)
	if err != nil {
		return nil, err
	}
	sold, err := s.qrs.CountSold(ctx, salespersonID)
	if err != nil {
		return nil, err
	}
	bundles, err := s.bundles.CountBySalesperson(ctx, salespersonID)
	if err != nil {
		return nil, err
	}

	result := &SalespersonStats{
		SalespersonID: salespersonID,
		AvailableQRs:  available,
		SoldQRs:       sold,
		TotalBundles:  bundles,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, result); err != nil {
			log.Printf("failed to cache stats for salesperson %d: %v", salespersonID, err)
		}
	}
	return result, nil
}
