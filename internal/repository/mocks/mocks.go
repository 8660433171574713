package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/enserhq/enserv/internal/domain/billing"
	"github.com/enserhq/enserv/internal/domain/task"
)

// TaskRepository is a mock for task.TaskRepository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, t *task.Task, seed *task.Remark) error {
	args := m.Called(ctx, t, seed)
	return args.Error(0)
}

func (m *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) List(ctx context.Context) ([]task.Task, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]task.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// RemarkRepository is a mock for task.RemarkRepository.
type RemarkRepository struct {
	mock.Mock
}

func (m *RemarkRepository) Append(ctx context.Context, rm *task.Remark, decide task.DecideStatus) error {
	args := m.Called(ctx, rm, decide)
	return args.Error(0)
}

func (m *RemarkRepository) ListByTask(ctx context.Context, taskID string) ([]task.Remark, error) {
	args := m.Called(ctx, taskID)
	if list, ok := args.Get(0).([]task.Remark); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RemarkRepository) Update(ctx context.Context, rm *task.Remark) error {
	args := m.Called(ctx, rm)
	return args.Error(0)
}

// RecipientResolver is a mock for task.RecipientResolver.
type RecipientResolver struct {
	mock.Mock
}

func (m *RecipientResolver) DepartmentEmails(ctx context.Context, departmentID string) ([]string, error) {
	args := m.Called(ctx, departmentID)
	if addrs, ok := args.Get(0).([]string); ok {
		return addrs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecipientResolver) CustomerContactEmails(ctx context.Context, customerID string) ([]string, error) {
	args := m.Called(ctx, customerID)
	if addrs, ok := args.Get(0).([]string); ok {
		return addrs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecipientResolver) InternalUserEmail(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// Notifier is a mock for task.Notifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) Send(ctx context.Context, recipients []string, subject, body string) error {
	args := m.Called(ctx, recipients, subject, body)
	return args.Error(0)
}

// BillingRepository is a mock for billing.Repository.
type BillingRepository struct {
	mock.Mock
}

func (m *BillingRepository) Replace(ctx context.Context, contractTypeID string, entries []billing.Entry) error {
	args := m.Called(ctx, contractTypeID, entries)
	return args.Error(0)
}

func (m *BillingRepository) ListByContractType(ctx context.Context, contractTypeID string) ([]billing.Entry, error) {
	args := m.Called(ctx, contractTypeID)
	if list, ok := args.Get(0).([]billing.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BillingRepository) Get(ctx context.Context, entryID string) (*billing.Entry, error) {
	args := m.Called(ctx, entryID)
	if e, ok := args.Get(0).(*billing.Entry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BillingRepository) Update(ctx context.Context, e *billing.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
