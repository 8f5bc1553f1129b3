package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resto-backoffice/internal/access"
	"resto-backoffice/internal/middleware"
	"resto-backoffice/internal/model"
	"resto-backoffice/internal/report"
	"resto-backoffice/internal/repository"
	"resto-backoffice/internal/service"
)

type stubAuth struct {
	service.AuthService
	principal access.Principal
}

func (s stubAuth) Authenticate(token string) (access.Principal, error) {
	if token != "valid" {
		return access.Principal{}, errors.New("invalid or expired token")
	}
	return s.principal, nil
}

type MockBillingService struct{ mock.Mock }

func (m *MockBillingService) ListBillings(from, to string) ([]model.Billing, error) {
	args := m.Called(from, to)
	b, _ := args.Get(0).([]model.Billing)
	return b, args.Error(1)
}

func (m *MockBillingService) GetBilling(id uuid.UUID) (*model.Billing, error) {
	args := m.Called(id)
	b, _ := args.Get(0).(*model.Billing)
	return b, args.Error(1)
}

func (m *MockBillingService) CreateBilling(req *service.BillingRequest, actor service.Actor) (*model.Billing, error) {
	args := m.Called(req, actor)
	b, _ := args.Get(0).(*model.Billing)
	return b, args.Error(1)
}

func (m *MockBillingService) UpdateBilling(id uuid.UUID, req *service.BillingRequest, actor service.Actor) (*model.Billing, error) {
	args := m.Called(id, req, actor)
	b, _ := args.Get(0).(*model.Billing)
	return b, args.Error(1)
}

func (m *MockBillingService) DeleteBilling(id uuid.UUID, actor service.Actor) error {
	return m.Called(id, actor).Error(0)
}

func (m *MockBillingService) ImportBillings(rows []map[string]interface{}, actor service.Actor) (*service.ImportResult, error) {
	args := m.Called(rows, actor)
	r, _ := args.Get(0).(*service.ImportResult)
	return r, args.Error(1)
}

func (m *MockBillingService) Report(group, from, to string) (*service.BillingReport, error) {
	args := m.Called(group, from, to)
	r, _ := args.Get(0).(*service.BillingReport)
	return r, args.Error(1)
}

func (m *MockBillingService) ExportCSV(group, from, to string) (*service.CSVExport, error) {
	args := m.Called(group, from, to)
	r, _ := args.Get(0).(*service.CSVExport)
	return r, args.Error(1)
}

var managerID = uuid.New()

func newBillingApp(svc service.BillingService) *fiber.App {
	auth := stubAuth{principal: access.NewPrincipal(managerID, "lea@example.com", "Lea", model.RoleManager,
		[]string{model.PrivBillingRead, model.PrivBillingCreate, model.PrivBillingExport})}
	h := NewBillingHandler(svc)
	authH := NewAuthHandler(auth)

	app := fiber.New()
	api := app.Group("/api/v1", middleware.RequireAuth(auth))
	api.Get("/me/modules", authH.MyModules)
	billings := api.Group("/billings")
	billings.Get("/", middleware.RequirePrivilege(model.PrivBillingRead), h.GetBillings)
	billings.Post("/", middleware.RequirePrivilege(model.PrivBillingCreate), h.CreateBilling)
	billings.Post("/import", middleware.RequirePrivilege(model.PrivBillingCreate), h.ImportBillings)
	billings.Get("/report", middleware.RequirePrivilege(model.PrivBillingRead), h.GetReport)
	billings.Get("/export", middleware.RequirePrivilege(model.PrivBillingExport), h.ExportCSV)
	billings.Delete("/:id", middleware.RequirePrivilege(model.PrivBillingDelete), h.DeleteBilling)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, string, map[string][]string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer valid")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw), resp.Header
}

func TestExportCSV_Attachment(t *testing.T) {
	svc := new(MockBillingService)
	svc.On("ExportCSV", "month", "2024-01-01", "").Return(&service.CSVExport{
		Filename: "billing-month-from-2024-01-01.csv",
		Content:  "Date,Card\n",
	}, nil).Once()

	status, body, header := do(t, newBillingApp(svc), "GET", "/api/v1/billings/export?group=month&from=2024-01-01", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "Date,Card\n", body)
	assert.Contains(t, header["Content-Type"][0], "text/csv")
	assert.Equal(t, `attachment; filename="billing-month-from-2024-01-01.csv"`, header["Content-Disposition"][0])
}

func TestReport_ErrorMapping(t *testing.T) {
	svc := new(MockBillingService)
	svc.On("Report", "fortnight", "", "").Return(nil, service.ErrInvalidGroup).Once()
	svc.On("Report", "day", "", "").Return(nil, errors.New("pq: connection refused")).Once()
	app := newBillingApp(svc)

	status, body, _ := do(t, app, "GET", "/api/v1/billings/report?group=fortnight", "")
	assert.Equal(t, 400, status)
	assert.Contains(t, body, "invalid group")

	status, body, _ = do(t, app, "GET", "/api/v1/billings/report?group=day", "")
	assert.Equal(t, 500, status)
	assert.NotContains(t, body, "pq:")
}

func TestReport_OK(t *testing.T) {
	svc := new(MockBillingService)
	svc.On("Report", "overall", "", "").Return(&service.BillingReport{
		Group:   "overall",
		Buckets: []service.ReportRow{{Bucket: report.Bucket{Key: report.OverallKey}, Label: "overall"}},
	}, nil).Once()

	status, body, _ := do(t, newBillingApp(svc), "GET", "/api/v1/billings/report?group=overall", "")
	require.Equal(t, 200, status)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "overall", got["group"])
	assert.Len(t, got["buckets"], 1)
}

func TestImportBillings_PassesRowsAndActor(t *testing.T) {
	svc := new(MockBillingService)
	svc.On("ImportBillings", mock.MatchedBy(func(rows []map[string]interface{}) bool {
		return len(rows) == 2 && rows[0]["card"] == "12.50" && rows[1]["cash"] == float64(3)
	}), mock.MatchedBy(func(a service.Actor) bool {
		return a.ID == managerID.String() && a.Name == "Lea"
	})).Return(&service.ImportResult{Imported: 2, Rejected: []service.ImportIssue{}}, nil).Once()

	status, body, _ := do(t, newBillingApp(svc), "POST", "/api/v1/billings/import",
		`{"data":[{"date":"2024-03-01","card":"12.50"},{"date":"2024-03-02","cash":3}]}`)
	assert.Equal(t, 200, status)
	assert.Contains(t, body, `"imported":2`)
	svc.AssertExpectations(t)
}

func TestCreateBilling_ValidationIs400(t *testing.T) {
	svc := new(MockBillingService)
	svc.On("CreateBilling", mock.Anything, mock.Anything).
		Return(nil, errors.Join(errors.New("wrapped"), service.ErrInvalidDateRange)).Once()

	status, _, _ := do(t, newBillingApp(svc), "POST", "/api/v1/billings/", `{"date":"2024-03-01","card":10}`)
	assert.Equal(t, 400, status)

	status, _, _ = do(t, newBillingApp(svc), "POST", "/api/v1/billings/", `{"date":`)
	assert.Equal(t, 400, status)
}

func TestDeleteBilling_RequiresPrivilege(t *testing.T) {
	svc := new(MockBillingService)
	status, _, _ := do(t, newBillingApp(svc), "DELETE", "/api/v1/billings/"+uuid.NewString(), "")
	assert.Equal(t, 403, status)
	svc.AssertNotCalled(t, "DeleteBilling", mock.Anything, mock.Anything)
}

func TestMyModules(t *testing.T) {
	status, body, _ := do(t, newBillingApp(new(MockBillingService)), "GET", "/api/v1/me/modules", "")
	require.Equal(t, 200, status)

	var got struct {
		Role    string          `json:"role"`
		Modules map[string]bool `json:"modules"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, model.RoleManager, got.Role)
	assert.True(t, got.Modules[model.ModuleBilling])
	assert.False(t, got.Modules[model.ModuleInventory])
	assert.Len(t, got.Modules, len(model.Modules))
}

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, 404, errorStatus(service.ErrTimeSlotNotFound))
	assert.Equal(t, 409, errorStatus(service.ErrTimeSlotConflict))
	assert.Equal(t, 409, errorStatus(errors.Join(service.ErrRoleInUse, errors.New("(3 users)"))))
	assert.Equal(t, 403, errorStatus(service.ErrRoleProtected))
	assert.Equal(t, 500, errorStatus(errors.New("boom")))
}

func TestFail_LogsHiddenCause(t *testing.T) {
	var buf bytes.Buffer
	svc := new(MockBillingService)
	svc.On("ListBillings", "", "").Return(nil, errors.New("pq: relation \"billings\" does not exist")).Once()

	app := fiber.New()
	app.Use(middleware.RequestLogger(zerolog.New(&buf)))
	app.Get("/billings", NewBillingHandler(svc).GetBillings)

	status, body, _ := do(t, app, "GET", "/billings", "")
	assert.Equal(t, 500, status)
	assert.Contains(t, body, "Failed to fetch billings")
	assert.NotContains(t, body, "relation")
	assert.Contains(t, buf.String(), "does not exist")
}

type stubDashboard struct {
	service.DashboardService
	days []int
}

func (s *stubDashboard) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	s.days = append(s.days, days)
	return []repository.StockMovementData{}, nil
}

func TestGetStockMovement_ClampsDays(t *testing.T) {
	dash := &stubDashboard{}
	app := fiber.New()
	app.Get("/movement", NewDashboardHandler(dash).GetStockMovement)

	for _, q := range []string{"", "?days=abc", "?days=-3", "?days=30", "?days=400"} {
		status, _, _ := do(t, app, "GET", "/movement"+q, "")
		require.Equal(t, 200, status)
	}
	assert.Equal(t, []int{7, 7, 7, 30, maxMovementDays}, dash.days)
}
