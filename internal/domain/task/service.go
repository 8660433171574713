package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/enserhq/enserv/internal/clock"
	"github.com/enserhq/enserv/internal/repository"
)

// Options control the stricter variants of the transition policy. The
// defaults preserve the source behavior: internal actors may set any status,
// and illegal customer requests are absorbed rather than rejected.
type Options struct {
	// StrictInternalTransitions enforces the transition table on the
	// internal path as well.
	StrictInternalTransitions bool
	// RejectCustomerTransitions surfaces ErrInvalidTransition for customer
	// requests that would otherwise be silently absorbed.
	RejectCustomerTransitions bool
	// NotifyTimeout bounds each notification send.
	NotifyTimeout time.Duration
}

const defaultNotifyTimeout = 10 * time.Second

// Service handles the task lifecycle: creation, the remark-driven status
// state machine, and the notification side effect.
type Service struct {
	tasks    TaskRepository
	remarks  RemarkRepository
	resolver RecipientResolver
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger
	opts     Options
}

// NewService creates a new task service.
func NewService(
	tasks TaskRepository,
	remarks RemarkRepository,
	resolver RecipientResolver,
	notifier Notifier,
	clk clock.Clock,
	logger *slog.Logger,
	opts Options,
) *Service {
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaultNotifyTimeout
	}
	return &Service{
		tasks:    tasks,
		remarks:  remarks,
		resolver: resolver,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
		opts:     opts,
	}
}

// CreateRequest describes a task creation request. ActorUserID is set when a
// staff user raises the task; otherwise CustomerLabel names the external
// creator.
type CreateRequest struct {
	DepartmentID   string
	CustomerID     string
	SiteID         string
	AssignedUserID *string
	Title          string
	Description    string
	ActorUserID    *string
	CustomerLabel  string
}

// Create generates the task ID, persists the task with its seed remark, and
// sends the creation notification.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Task, error) {
	if strings.TrimSpace(req.DepartmentID) == "" ||
		strings.TrimSpace(req.CustomerID) == "" ||
		strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalidInput
	}

	createdBy := InternalCreatorLabel
	if req.ActorUserID == nil {
		createdBy = strings.TrimSpace(req.CustomerLabel)
		if createdBy == "" {
			return nil, ErrInvalidInput
		}
	}

	now := s.clock.Now()
	t := &Task{
		ID:             NewTaskID(now),
		DepartmentID:   req.DepartmentID,
		CustomerID:     req.CustomerID,
		SiteID:         req.SiteID,
		AssignedUserID: req.AssignedUserID,
		Title:          req.Title,
		Description:    req.Description,
		CreatedBy:      createdBy,
		CreatedAt:      now,
	}

	// The initial description seeds the remark log as the first Open remark.
	// Task and seed are inserted together so a failed seed never leaves a
	// task without its log.
	var seed *Remark
	if strings.TrimSpace(req.Description) != "" {
		seed = &Remark{
			TaskID:    t.ID,
			Body:      req.Description,
			Status:    StatusOpen,
			CreatedBy: createdBy,
			CreatedAt: now,
		}
	}

	if err := s.tasks.Create(ctx, t, seed); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	if seed != nil {
		t.Remarks = []Remark{*seed}
	}

	s.notify(ctx, t, latestRemarkText(t), req.ActorUserID)

	return t, nil
}

// Get returns the task with its full remark log.
func (s *Service) Get(ctx context.Context, taskID string) (*Task, error) {
	t, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("loading task: %w", err)
	}
	remarks, err := s.remarks.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("loading remarks: %w", err)
	}
	t.Remarks = remarks
	return t, nil
}

// List returns all tasks without their remark logs.
func (s *Service) List(ctx context.Context) ([]Task, error) {
	return s.tasks.List(ctx)
}

// Delete removes a task; remarks and other owned rows cascade.
func (s *Service) Delete(ctx context.Context, taskID string) error {
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// CurrentStatus derives the task's status from its remark log.
func (s *Service) CurrentStatus(ctx context.Context, taskID string) (Status, error) {
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrTaskNotFound
		}
		return "", fmt.Errorf("loading task: %w", err)
	}
	remarks, err := s.remarks.ListByTask(ctx, taskID)
	if err != nil {
		return "", fmt.Errorf("loading remarks: %w", err)
	}
	return EffectiveStatus(remarks), nil
}

// internalStatus validates an internal actor's requested status against the
// current one under the configured policy.
func (s *Service) internalStatus(current, requested Status) (Status, error) {
	if s.opts.StrictInternalTransitions && requested != current && !CanTransition(current, requested) {
		return "", ErrInvalidTransition
	}
	return requested, nil
}

// customerStatus applies the customer policy: requests are absorbed to the
// current status except Completed -> Reopen.
func (s *Service) customerStatus(current, requested Status) (Status, error) {
	if current == StatusCompleted && requested == StatusReopen {
		return StatusReopen, nil
	}
	if requested != current && s.opts.RejectCustomerTransitions {
		return "", ErrInvalidTransition
	}
	return current, nil
}

// AppendInternalRemark appends a remark on behalf of a staff user. Internal
// actors may set any status directly unless StrictInternalTransitions is on,
// in which case the transition table is enforced. The policy is applied once
// against the pre-read for fast failure and again against the log as read
// inside the append transaction, so a concurrent writer cannot slip between
// the status read and the insert.
func (s *Service) AppendInternalRemark(ctx context.Context, taskID, body string, status Status, actorUserID string) (*Remark, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyRemark
	}
	if !status.Valid() {
		return nil, ErrUnknownStatus
	}

	t, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.internalStatus(EffectiveStatus(t.Remarks), status); err != nil {
		return nil, err
	}

	rm := &Remark{
		TaskID:    taskID,
		Body:      body,
		Status:    status,
		CreatedBy: InternalCreatorLabel,
		CreatedAt: s.clock.Now(),
	}
	err = s.remarks.Append(ctx, rm, func(current []Remark) (Status, error) {
		return s.internalStatus(EffectiveStatus(current), status)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("appending remark: %w", err)
	}

	s.notify(ctx, t, rm.Body, &actorUserID)

	return rm, nil
}

// AppendCustomerRemark appends a remark on behalf of the task's customer.
// The requested status is overridden to the current status unless the task
// is Completed and the customer asks for Reopen. With
// RejectCustomerTransitions, an absorbed request errors instead. As on the
// internal path, the absorption is re-derived inside the append transaction.
func (s *Service) AppendCustomerRemark(ctx context.Context, taskID, body string, requested Status, customerLabel string) (*Remark, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyRemark
	}

	t, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	applied, err := s.customerStatus(EffectiveStatus(t.Remarks), requested)
	if err != nil {
		return nil, err
	}

	rm := &Remark{
		TaskID:    taskID,
		Body:      body,
		Status:    applied,
		CreatedBy: customerLabel,
		CreatedAt: s.clock.Now(),
	}
	err = s.remarks.Append(ctx, rm, func(current []Remark) (Status, error) {
		return s.customerStatus(EffectiveStatus(current), requested)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("appending remark: %w", err)
	}

	s.notify(ctx, t, rm.Body, nil)

	return rm, nil
}

// UpdateLatestRemark edits the most recent remark in place. Its timestamp is
// not refreshed, so its position as latest is unchanged.
func (s *Service) UpdateLatestRemark(ctx context.Context, taskID string, body *string, status *Status) (*Remark, error) {
	t, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if len(t.Remarks) == 0 {
		return nil, ErrRemarkNotFound
	}

	latest := t.Remarks[len(t.Remarks)-1]
	if body != nil {
		if strings.TrimSpace(*body) == "" {
			return nil, ErrEmptyRemark
		}
		latest.Body = *body
	}
	if status != nil {
		if !status.Valid() {
			return nil, ErrUnknownStatus
		}
		latest.Status = *status
	}

	if err := s.remarks.Update(ctx, &latest); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRemarkNotFound
		}
		return nil, fmt.Errorf("updating remark: %w", err)
	}
	return &latest, nil
}
