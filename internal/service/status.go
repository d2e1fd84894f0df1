package service

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"time"

	"nacospay/internal/catalog"
	"nacospay/internal/domain"
)

// Project derives a member's paid/pending view from the catalog and their
// ledger entries. Pure and total: empty inputs yield zero totals with every
// item pending. An item counts as completed when at least one successful
// record carries its name.
func Project(items []domain.FeeItem, records []domain.TransactionRecord) domain.DerivedStatus {
	status := domain.DerivedStatus{
		CompletedItems: []domain.FeeItem{},
		PendingItems:   []domain.FeeItem{},
	}

	for _, rec := range records {
		if rec.Status == domain.StatusSuccess {
			status.TotalPaid += rec.Amount
		}
	}

	for _, item := range items {
		completed := false
		for _, rec := range records {
			if rec.PaymentType == item.Name && rec.Status == domain.StatusSuccess {
				completed = true
				break
			}
		}
		if completed {
			status.CompletedItems = append(status.CompletedItems, item)
		} else {
			status.PendingItems = append(status.PendingItems, item)
		}
	}

	return status
}

type StatusService struct {
	ledger   LedgerRepository
	kv       KeyValueStore
	cacheTTL time.Duration
}

func NewStatusService(ledger LedgerRepository, kv KeyValueStore, cacheTTL time.Duration) *StatusService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &StatusService{
		ledger:   ledger,
		kv:       kv,
		cacheTTL: cacheTTL,
	}
}

// Dashboard assembles the read model for one member: derived status plus the
// transaction history sorted newest-first. A ledger read failure degrades to
// an empty history with a visible notice instead of an error; that result is
// never cached.
func (s *StatusService) Dashboard(ctx context.Context, member *domain.Member) (*domain.Dashboard, error) {
	if member == nil {
		return nil, validationErrorf("member is required")
	}

	items := catalog.List()

	if s.kv != nil {
		if data, err := s.kv.Get(ctx, dashboardKey(member.ID)); err == nil {
			var cached domain.Dashboard
			if err := json.Unmarshal([]byte(data), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	records, err := s.ledger.ListByMember(ctx, member.ID)
	if err != nil {
		log.Printf("ledger read for member %s: %v", member.ID, err)
		status := Project(items, nil)
		return &domain.Dashboard{
			TotalPaid:         status.TotalPaid,
			CompletedPayments: status.CompletedItems,
			PendingPayments:   status.PendingItems,
			Transactions:      []domain.TransactionRecord{},
			Notice:            "failed to load transaction history",
		}, nil
	}

	// the store promises no ordering; newest-first is established here
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if records == nil {
		records = []domain.TransactionRecord{}
	}

	status := Project(items, records)
	dashboard := &domain.Dashboard{
		TotalPaid:         status.TotalPaid,
		CompletedPayments: status.CompletedItems,
		PendingPayments:   status.PendingItems,
		Transactions:      records,
	}

	if s.kv != nil {
		if data, err := json.Marshal(dashboard); err == nil {
			if err := s.kv.Set(ctx, dashboardKey(member.ID), string(data), s.cacheTTL); err != nil {
				log.Printf("dashboard cache write for %s: %v", member.ID, err)
			}
		}
	}

	return dashboard, nil
}
