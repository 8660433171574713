package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/enserhq/enserv/internal/clock"
	"github.com/enserhq/enserv/internal/repository"
)

// Service manages billing schedules: regeneration when contract parameters
// change, reads with fresh overdue counts, and payment status flips.
type Service struct {
	entries Repository
	clock   clock.Clock
	logger  *slog.Logger
}

// NewService creates a new billing service.
func NewService(entries Repository, clk clock.Clock, logger *slog.Logger) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{entries: entries, clock: clk, logger: logger}
}

// Regenerate rebuilds the full schedule for a contract type from its start
// date, end date, and cycle length. The prior entry set is discarded
// entirely, payment history included: changed contract parameters mean a
// renegotiated schedule. Delete and insert happen in one transaction.
func (s *Service) Regenerate(ctx context.Context, contractTypeID string, start, end time.Time, cycleDays int) ([]Entry, error) {
	entries := GenerateSchedule(contractTypeID, start, end, cycleDays, s.clock.Now())

	if err := s.entries.Replace(ctx, contractTypeID, entries); err != nil {
		return nil, fmt.Errorf("replacing schedule: %w", err)
	}

	s.logger.Info("billing schedule regenerated",
		"contract_type_id", contractTypeID, "entries", len(entries), "cycle_days", cycleDays)
	return entries, nil
}

// Schedule returns a contract type's entries with overdue counts recomputed
// against the current time. Stored counts are advisory only: "today"
// advances independently of writes.
func (s *Service) Schedule(ctx context.Context, contractTypeID string) ([]Entry, error) {
	entries, err := s.entries.ListByContractType(ctx, contractTypeID)
	if err != nil {
		return nil, fmt.Errorf("listing schedule: %w", err)
	}

	now := s.clock.Now()
	for i := range entries {
		entries[i].OverdueDays = OverdueDays(entries[i].DueDate, entries[i].Status, now)
	}
	return entries, nil
}

// SetEntryStatus flips an entry between Paid and Unpaid. Paid forces the
// overdue count to zero atomically with the status change; Unpaid recomputes
// it from the due date.
func (s *Service) SetEntryStatus(ctx context.Context, entryID string, status PaymentStatus) (*Entry, error) {
	if !status.Valid() {
		return nil, ErrUnknownStatus
	}

	e, err := s.entries.Get(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("loading entry: %w", err)
	}

	e.Status = status
	e.OverdueDays = OverdueDays(e.DueDate, status, s.clock.Now())

	if err := s.entries.Update(ctx, e); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("updating entry: %w", err)
	}
	return e, nil
}
