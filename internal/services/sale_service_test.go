package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

type saleFixture struct {
	st       *fakeStore
	requests *RequestService
	sales    *SaleService
	notifier *fakeNotifier

	clientUserID   string
	employeeUserID string
	estate         *models.Estate
	service        *models.Service
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	st := newFakeStore()

	clientUser := st.addUser("buyer@test", models.UserRoleClient)
	st.addClient(clientUser.ID)
	empUser := st.addUser("agent@test", models.UserRoleEmployee)
	st.addEmployee(empUser.ID)

	// 100000.00 estate with a 100.00 service fee.
	service := st.addService(10_000)
	estate := st.addEstate(10_000_000, &service.ID)

	reqRepo := &fakeRequestRepo{st: st}
	empRepo := &fakeEmployeeRepo{st: st}
	clientRepo := &fakeClientRepo{st: st}
	estateRepo := &fakeEstateRepo{st: st}
	saleRepo := &fakeSaleRepo{st: st}
	notifier := &fakeNotifier{}

	return &saleFixture{
		st:       st,
		requests: NewRequestService(reqRepo, empRepo, clientRepo, estateRepo, saleRepo),
		sales: NewSaleService(
			saleRepo, reqRepo, estateRepo, &fakeServiceRepo{st: st},
			empRepo, clientRepo, &fakeUserRepo{st: st}, notifier,
		),
		notifier:       notifier,
		clientUserID:   clientUser.ID.String(),
		employeeUserID: empUser.ID.String(),
		estate:         estate,
		service:        service,
	}
}

func (fx *saleFixture) fileRequest(t *testing.T) *models.PurchaseRequest {
	t.Helper()
	pr, err := fx.requests.CreateRequest(context.Background(), fx.clientUserID, fx.estate.ID, "")
	require.NoError(t, err)
	require.NotNil(t, pr)
	return pr
}

func TestFinalizeSaleFreezesCost(t *testing.T) {
	fx := newSaleFixture(t)
	ctx := context.Background()
	pr := fx.fileRequest(t)

	sale, err := fx.sales.FinalizeSale(ctx, fx.employeeUserID, pr.ID)
	require.NoError(t, err)
	require.NotNil(t, sale)
	require.Equal(t, int64(10_010_000), sale.CostCents)

	// Later fee changes must not touch the recorded cost.
	fx.service.FeeCents = 999_999
	stored, err := (&fakeSaleRepo{st: fx.st}).GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10_010_000), stored.CostCents)
}

func TestFinalizeSaleWithoutServiceTier(t *testing.T) {
	fx := newSaleFixture(t)
	ctx := context.Background()

	bare := fx.st.addEstate(7_500_000, nil)
	pr, err := fx.requests.CreateRequest(ctx, fx.clientUserID, bare.ID, "")
	require.NoError(t, err)

	sale, err := fx.sales.FinalizeSale(ctx, fx.employeeUserID, pr.ID)
	require.NoError(t, err)
	require.Equal(t, int64(7_500_000), sale.CostCents)
}

func TestFinalizeSaleIsNotRepeatable(t *testing.T) {
	fx := newSaleFixture(t)
	ctx := context.Background()
	pr := fx.fileRequest(t)

	_, err := fx.sales.FinalizeSale(ctx, fx.employeeUserID, pr.ID)
	require.NoError(t, err)

	_, err = fx.sales.FinalizeSale(ctx, fx.employeeUserID, pr.ID)
	require.ErrorIs(t, err, utils.ErrRequestAlreadyCompleted)
	require.Len(t, fx.st.sales, 1)
}

func TestFinalizeSaleMarksRequestCompletedAndReleasesLoad(t *testing.T) {
	fx := newSaleFixture(t)
	ctx := context.Background()
	pr := fx.fileRequest(t)
	require.Equal(t, 1, fx.st.employees[0].OpenRequestCount)

	_, err := fx.sales.FinalizeSale(ctx, fx.employeeUserID, pr.ID)
	require.NoError(t, err)

	stored := fx.st.requests[pr.ID]
	require.Equal(t, models.RequestStatusCompleted, stored.Status)
	require.Equal(t, 0, fx.st.employees[0].OpenRequestCount)
}

func TestFinalizeSaleRejectsUnassignedEmployee(t *testing.T) {
	fx := newSaleFixture(t)
	ctx := context.Background()
	pr := fx.fileRequest(t)

	otherUser := fx.st.addUser("other-agent@test", models.UserRoleEmployee)
	fx.st.addEmployee(otherUser.ID)

	_, err := fx.sales.FinalizeSale(ctx, otherUser.ID.String(), pr.ID)
	require.ErrorIs(t, err, utils.ErrNotAssignedEmployee)
	require.Empty(t, fx.st.sales)
}

func TestFinalizeSaleUnknownRequest(t *testing.T) {
	fx := newSaleFixture(t)

	sale, err := fx.sales.FinalizeSale(context.Background(), fx.employeeUserID, uuid.New())
	require.NoError(t, err)
	require.Nil(t, sale)
}

func TestFinalizeSaleNotifiesBuyer(t *testing.T) {
	fx := newSaleFixture(t)
	pr := fx.fileRequest(t)

	_, err := fx.sales.FinalizeSale(context.Background(), fx.employeeUserID, pr.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"buyer@test"}, fx.notifier.calls)
}

func TestListEmployeeSales(t *testing.T) {
	fx := newSaleFixture(t)
	ctx := context.Background()
	pr := fx.fileRequest(t)

	_, err := fx.sales.FinalizeSale(ctx, fx.employeeUserID, pr.ID)
	require.NoError(t, err)

	sales, err := fx.sales.ListEmployeeSales(ctx, fx.employeeUserID)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	require.Equal(t, fx.estate.ID, sales[0].EstateID)
}
