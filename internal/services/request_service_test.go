package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

type requestFixture struct {
	st       *fakeStore
	svc      *RequestService
	empRepo  *fakeEmployeeRepo
	reqRepo  *fakeRequestRepo
	client   *models.Client
	userID   string
	estateID uuid.UUID
}

func newRequestFixture(t *testing.T, employeeCount int) *requestFixture {
	t.Helper()
	st := newFakeStore()

	user := st.addUser("client@test", models.UserRoleClient)
	client := st.addClient(user.ID)

	for i := 0; i < employeeCount; i++ {
		eu := st.addUser(fmt.Sprintf("emp%d@test", i), models.UserRoleEmployee)
		st.addEmployee(eu.ID)
	}

	estate := st.addEstate(10_000_000, nil)

	reqRepo := &fakeRequestRepo{st: st}
	empRepo := &fakeEmployeeRepo{st: st}
	svc := NewRequestService(
		reqRepo,
		empRepo,
		&fakeClientRepo{st: st},
		&fakeEstateRepo{st: st},
		&fakeSaleRepo{st: st},
	)

	return &requestFixture{
		st:       st,
		svc:      svc,
		empRepo:  empRepo,
		reqRepo:  reqRepo,
		client:   client,
		userID:   user.ID.String(),
		estateID: estate.ID,
	}
}

func TestCreateRequestAssignsLeastLoaded(t *testing.T) {
	fx := newRequestFixture(t, 3)
	ctx := context.Background()

	// Preload the first two employees so the third is the clear minimum.
	fx.st.employees[0].OpenRequestCount = 2
	fx.st.employees[1].OpenRequestCount = 1

	pr, err := fx.svc.CreateRequest(ctx, fx.userID, fx.estateID, "interested")
	require.NoError(t, err)
	require.NotNil(t, pr)
	require.NotNil(t, pr.EmployeeID)
	require.Equal(t, fx.st.employees[2].ID, *pr.EmployeeID)
	require.Equal(t, models.RequestStatusNew, pr.Status)
	require.Equal(t, 1, fx.st.employees[2].OpenRequestCount)
}

func TestCreateRequestTieBreaksByRosterOrder(t *testing.T) {
	fx := newRequestFixture(t, 3)
	ctx := context.Background()

	// All counts equal: the earliest-registered employee must win.
	pr, err := fx.svc.CreateRequest(ctx, fx.userID, fx.estateID, "")
	require.NoError(t, err)
	require.NotNil(t, pr.EmployeeID)
	require.Equal(t, fx.st.employees[0].ID, *pr.EmployeeID)
}

func TestCreateRequestsSpreadEvenly(t *testing.T) {
	fx := newRequestFixture(t, 3)
	ctx := context.Background()

	// Seven clients, seven requests for distinct estates.
	for i := 0; i < 7; i++ {
		u := fx.st.addUser(fmt.Sprintf("c%d@test", i), models.UserRoleClient)
		fx.st.addClient(u.ID)
		estate := fx.st.addEstate(5_000_000, nil)

		pr, err := fx.svc.CreateRequest(ctx, u.ID.String(), estate.ID, "")
		require.NoError(t, err)
		require.NotNil(t, pr)
	}

	min, max := fx.st.employees[0].OpenRequestCount, fx.st.employees[0].OpenRequestCount
	for _, e := range fx.st.employees {
		if e.OpenRequestCount < min {
			min = e.OpenRequestCount
		}
		if e.OpenRequestCount > max {
			max = e.OpenRequestCount
		}
	}
	require.LessOrEqual(t, max-min, 1, "load must stay within one request across the roster")
	require.Equal(t, 7, fx.st.employees[0].OpenRequestCount+fx.st.employees[1].OpenRequestCount+fx.st.employees[2].OpenRequestCount)
}

func TestCreateRequestNoEmployees(t *testing.T) {
	fx := newRequestFixture(t, 0)

	_, err := fx.svc.CreateRequest(context.Background(), fx.userID, fx.estateID, "")
	require.ErrorIs(t, err, utils.ErrNoEmployeesAvailable)
	require.Empty(t, fx.st.requests)
}

func TestCreateRequestDuplicateRejected(t *testing.T) {
	fx := newRequestFixture(t, 2)
	ctx := context.Background()

	_, err := fx.svc.CreateRequest(ctx, fx.userID, fx.estateID, "first")
	require.NoError(t, err)

	_, err = fx.svc.CreateRequest(ctx, fx.userID, fx.estateID, "second")
	require.ErrorIs(t, err, utils.ErrDuplicateRequest)
	require.Len(t, fx.st.requests, 1)
}

func TestCreateRequestUnknownEstate(t *testing.T) {
	fx := newRequestFixture(t, 1)

	pr, err := fx.svc.CreateRequest(context.Background(), fx.userID, uuid.New(), "")
	require.NoError(t, err)
	require.Nil(t, pr)
}

func TestCreateRequestSoldEstate(t *testing.T) {
	fx := newRequestFixture(t, 1)

	fx.st.sales[uuid.New()] = &models.Sale{ID: uuid.New(), EstateID: fx.estateID}

	_, err := fx.svc.CreateRequest(context.Background(), fx.userID, fx.estateID, "")
	require.ErrorIs(t, err, utils.ErrEstateAlreadySold)
}

// staleRosterRepo serves a roster with an outdated row_version on the first
// read, simulating a concurrent assignment landing between the pick and the
// write.
type staleRosterRepo struct {
	*fakeEmployeeRepo
	served bool
}

func (r *staleRosterRepo) ListByOpenLoad(ctx context.Context) ([]*models.Employee, error) {
	roster, err := r.fakeEmployeeRepo.ListByOpenLoad(ctx)
	if err != nil {
		return nil, err
	}
	if !r.served && len(roster) > 0 {
		r.served = true
		roster[0].RowVersion--
	}
	return roster, nil
}

func TestCreateRequestRepicksAfterVersionConflict(t *testing.T) {
	fx := newRequestFixture(t, 2)
	ctx := context.Background()

	stale := &staleRosterRepo{fakeEmployeeRepo: fx.empRepo}
	svc := NewRequestService(
		fx.reqRepo,
		stale,
		&fakeClientRepo{st: fx.st},
		&fakeEstateRepo{st: fx.st},
		&fakeSaleRepo{st: fx.st},
	)

	pr, err := svc.CreateRequest(ctx, fx.userID, fx.estateID, "")
	require.NoError(t, err)
	require.NotNil(t, pr.EmployeeID)
	require.True(t, stale.served, "first pick must have hit the stale roster")
	require.Len(t, fx.st.requests, 1)
	require.Equal(t, 1, fx.st.employeeByID(*pr.EmployeeID).OpenRequestCount)
}

func TestMarkInProgressOnlyAssignedEmployee(t *testing.T) {
	fx := newRequestFixture(t, 2)
	ctx := context.Background()

	pr, err := fx.svc.CreateRequest(ctx, fx.userID, fx.estateID, "")
	require.NoError(t, err)

	assigned := fx.st.employeeByID(*pr.EmployeeID)
	var other *models.Employee
	for _, e := range fx.st.employees {
		if e.ID != assigned.ID {
			other = e
		}
	}

	_, err = fx.svc.MarkInProgress(ctx, other.UserID.String(), pr.ID)
	require.ErrorIs(t, err, utils.ErrNotAssignedEmployee)

	updated, err := fx.svc.MarkInProgress(ctx, assigned.UserID.String(), pr.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusInProgress, updated.Status)
}

func TestCancelRequestReleasesLoadSlot(t *testing.T) {
	fx := newRequestFixture(t, 1)
	ctx := context.Background()

	pr, err := fx.svc.CreateRequest(ctx, fx.userID, fx.estateID, "")
	require.NoError(t, err)
	require.Equal(t, 1, fx.st.employees[0].OpenRequestCount)

	cancelled, err := fx.svc.CancelRequest(ctx, fx.userID, pr.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusCancelled, cancelled.Status)
	require.Equal(t, 0, fx.st.employees[0].OpenRequestCount)

	// A second cancel is rejected: the state is terminal.
	_, err = fx.svc.CancelRequest(ctx, fx.userID, pr.ID)
	require.ErrorIs(t, err, utils.ErrRequestAlreadyCompleted)
	require.Equal(t, 0, fx.st.employees[0].OpenRequestCount)
}

func TestCancelRequestForbiddenForStrangers(t *testing.T) {
	fx := newRequestFixture(t, 1)
	ctx := context.Background()

	pr, err := fx.svc.CreateRequest(ctx, fx.userID, fx.estateID, "")
	require.NoError(t, err)

	stranger := fx.st.addUser("stranger@test", models.UserRoleClient)
	fx.st.addClient(stranger.ID)

	_, err = fx.svc.CancelRequest(ctx, stranger.ID.String(), pr.ID)
	require.ErrorIs(t, err, utils.ErrNotRequestOwner)
}
