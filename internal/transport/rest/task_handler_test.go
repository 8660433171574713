package rest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/enserhq/enserv/internal/clock"
	"github.com/enserhq/enserv/internal/domain/billing"
	"github.com/enserhq/enserv/internal/domain/task"
	"github.com/enserhq/enserv/internal/repository"
	"github.com/enserhq/enserv/internal/repository/mocks"
	"github.com/enserhq/enserv/internal/transport/rest"
)

var testNow = time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC)

type fixture struct {
	router   *gin.Engine
	tasks    *mocks.TaskRepository
	remarks  *mocks.RemarkRepository
	resolver *mocks.RecipientResolver
	notifier *mocks.Notifier
	entries  *mocks.BillingRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		tasks:    &mocks.TaskRepository{},
		remarks:  &mocks.RemarkRepository{},
		resolver: &mocks.RecipientResolver{},
		notifier: &mocks.Notifier{},
		entries:  &mocks.BillingRepository{},
	}
	clk := clock.Fixed(testNow)
	taskSvc := task.NewService(f.tasks, f.remarks, f.resolver, f.notifier, clk, nil, task.Options{})
	billingSvc := billing.NewService(f.entries, clk, nil)
	f.router = rest.NewRouter(taskSvc, billingSvc, nil)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) quietNotify() {
	f.resolver.On("DepartmentEmails", mock.Anything, mock.Anything).Return([]string{}, nil)
	f.resolver.On("InternalUserEmail", mock.Anything, mock.Anything).Return("", repository.ErrNotFound)
	f.resolver.On("CustomerContactEmails", mock.Anything, mock.Anything).Return([]string{}, nil)
}

// expectAppend emulates the repository: the decision callback runs against
// the given log and its result becomes the stored status.
func expectAppend(remarks *mocks.RemarkRepository, current []task.Remark, seq int64) {
	remarks.On("Append", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		rm := args.Get(1).(*task.Remark)
		if status, err := args.Get(2).(task.DecideStatus)(current); err == nil {
			rm.Status = status
		}
		rm.Seq = seq
	}).Return(nil)
}

func TestCreateTask(t *testing.T) {
	f := newFixture(t)
	f.tasks.On("Create", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		if seed, ok := args.Get(2).(*task.Remark); ok && seed != nil {
			seed.Seq = 1
		}
	}).Return(nil)
	f.quietNotify()

	w := f.do(t, http.MethodPost, "/tasks", `{
		"department_id": "d1",
		"customer_id": "c1",
		"site_id": "s1",
		"title": "Printer down",
		"description": "The site printer does not respond.",
		"actor_user_id": "u1"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created task.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "ENSR250307140509", created.ID)
	require.Len(t, created.Remarks, 1)
}

func TestCreateTask_MissingFields(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/tasks", `{"title": "no refs"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTask_NotFound(t *testing.T) {
	f := newFixture(t)
	f.tasks.On("Get", mock.Anything, "ENSR000000000000").Return(nil, repository.ErrNotFound)

	w := f.do(t, http.MethodGet, "/tasks/ENSR000000000000", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAppendInternalRemark_NormalizesStatus(t *testing.T) {
	f := newFixture(t)
	f.tasks.On("Get", mock.Anything, "t1").Return(&task.Task{ID: "t1", DepartmentID: "d1", CustomerID: "c1"}, nil)
	log := []task.Remark{
		{Seq: 1, Status: task.StatusScheduled, CreatedAt: testNow.Add(-time.Hour)},
	}
	f.remarks.On("ListByTask", mock.Anything, "t1").Return(log, nil)
	expectAppend(f.remarks, log, 2)
	f.quietNotify()

	w := f.do(t, http.MethodPost, "/tasks/t1/remarks", `{
		"body": "technician dispatched",
		"status": "wip",
		"actor_user_id": "u1"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var rm task.Remark
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rm))
	require.Equal(t, task.StatusInProgress, rm.Status)
}

func TestAppendInternalRemark_UnknownStatus(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/tasks/t1/remarks", `{
		"body": "x", "status": "banana", "actor_user_id": "u1"
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppendCustomerRemark_AbsorbsIllegalStatus(t *testing.T) {
	f := newFixture(t)
	f.tasks.On("Get", mock.Anything, "t1").Return(&task.Task{ID: "t1", DepartmentID: "d1", CustomerID: "c1"}, nil)
	log := []task.Remark{
		{Seq: 1, Status: task.StatusInProgress, CreatedAt: testNow.Add(-time.Hour)},
	}
	f.remarks.On("ListByTask", mock.Anything, "t1").Return(log, nil)
	expectAppend(f.remarks, log, 2)
	f.quietNotify()

	w := f.do(t, http.MethodPost, "/tasks/t1/customer-remarks", `{
		"body": "please close this",
		"status": "Completed",
		"customer_label": "Globex Corp"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var rm task.Remark
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rm))
	require.Equal(t, task.StatusInProgress, rm.Status)
}

func TestCurrentStatus(t *testing.T) {
	f := newFixture(t)
	f.tasks.On("Get", mock.Anything, "t1").Return(&task.Task{ID: "t1"}, nil)
	f.remarks.On("ListByTask", mock.Anything, "t1").Return([]task.Remark{}, nil)

	w := f.do(t, http.MethodGet, "/tasks/t1/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	// The response offers the statuses the transition table allows next.
	require.JSONEq(t, `{"status": "Open", "next": ["Scheduled"]}`, w.Body.String())
}

func TestRegenerateSchedule(t *testing.T) {
	f := newFixture(t)
	f.entries.On("Replace", mock.Anything, "ct1", mock.Anything).Return(nil)

	w := f.do(t, http.MethodPut, "/contract-types/ct1/schedule", `{
		"start_date": "2025-01-01",
		"end_date": "2025-12-31",
		"cycle_days": 90
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []billing.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 5)
}

func TestRegenerateSchedule_BadDate(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPut, "/contract-types/ct1/schedule", `{
		"start_date": "01/01/2025", "end_date": "2025-12-31", "cycle_days": 90
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetBillingEntryStatus(t *testing.T) {
	f := newFixture(t)
	f.entries.On("Get", mock.Anything, "e1").Return(&billing.Entry{
		ID: "e1", ContractTypeID: "ct1",
		DueDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:  billing.PaymentUnpaid, OverdueDays: 65,
	}, nil)
	f.entries.On("Update", mock.Anything, mock.Anything).Return(nil)

	w := f.do(t, http.MethodPut, "/billing-entries/e1/status", `{"status": "paid"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var e billing.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	require.Equal(t, billing.PaymentPaid, e.Status)
	require.Equal(t, 0, e.OverdueDays)
}

func TestSetBillingEntryStatus_NotFound(t *testing.T) {
	f := newFixture(t)
	f.entries.On("Get", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	w := f.do(t, http.MethodPut, "/billing-entries/missing/status", `{"status": "paid"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
}
