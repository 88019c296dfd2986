package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/repositories"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

// fakeStore is a single in-memory database shared by the fake repositories,
// mimicking the transactional semantics of the real ones (version guards,
// unique constraints, counter updates) without Postgres.
type fakeStore struct {
	mu sync.Mutex

	users     map[uuid.UUID]*models.User
	clients   map[uuid.UUID]*models.Client
	employees []*models.Employee
	estates   map[uuid.UUID]*models.Estate
	services  map[uuid.UUID]*models.Service
	requests  map[uuid.UUID]*models.PurchaseRequest
	sales     map[uuid.UUID]*models.Sale
	reviews   map[uuid.UUID]*models.Review
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*models.User),
		clients:  make(map[uuid.UUID]*models.Client),
		estates:  make(map[uuid.UUID]*models.Estate),
		services: make(map[uuid.UUID]*models.Service),
		requests: make(map[uuid.UUID]*models.PurchaseRequest),
		sales:    make(map[uuid.UUID]*models.Sale),
		reviews:  make(map[uuid.UUID]*models.Review),
	}
}

func (st *fakeStore) addUser(email string, role models.UserRoleType) *models.User {
	st.mu.Lock()
	defer st.mu.Unlock()
	u := &models.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  email,
		Role:      role,
		BirthDate: time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	u.RowVersion = 1
	st.users[u.ID] = u
	return u
}

func (st *fakeStore) addClient(userID uuid.UUID) *models.Client {
	st.mu.Lock()
	defer st.mu.Unlock()
	c := &models.Client{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()}
	st.clients[c.ID] = c
	return c
}

func (st *fakeStore) addEmployee(userID uuid.UUID) *models.Employee {
	st.mu.Lock()
	defer st.mu.Unlock()
	e := &models.Employee{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now().Add(time.Duration(len(st.employees)) * time.Second),
	}
	e.RowVersion = 1
	st.employees = append(st.employees, e)
	return e
}

func (st *fakeStore) addEstate(costCents int64, serviceID *uuid.UUID) *models.Estate {
	st.mu.Lock()
	defer st.mu.Unlock()
	e := &models.Estate{
		ID:        uuid.New(),
		CostCents: costCents,
		AreaSqm:   50,
		ServiceID: serviceID,
		Address:   "1 Test St",
	}
	st.estates[e.ID] = e
	return e
}

func (st *fakeStore) addService(feeCents int64) *models.Service {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := &models.Service{ID: uuid.New(), CategoryID: uuid.New(), Name: "tier", FeeCents: feeCents}
	st.services[s.ID] = s
	return s
}

func (st *fakeStore) employeeByID(id uuid.UUID) *models.Employee {
	for _, e := range st.employees {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func copyRequest(pr *models.PurchaseRequest) *models.PurchaseRequest {
	if pr == nil {
		return nil
	}
	cp := *pr
	if pr.EmployeeID != nil {
		id := *pr.EmployeeID
		cp.EmployeeID = &id
	}
	return &cp
}

// ---- user repo ----

type fakeUserRepo struct{ st *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, existing := range r.st.users {
		if existing.Email == u.Email {
			return utils.ErrEmailExists
		}
	}
	u.RowVersion = 1
	r.st.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	u, ok := r.st.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, u := range r.st.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateIfVersion(_ context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	stored, ok := r.st.users[u.ID]
	if !ok || stored.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	u.RowVersion = expected + 1
	r.st.users[u.ID] = u
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *fakeUserRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	for attempt := 0; attempt < 3; attempt++ {
		u, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return pgx.ErrNoRows
		}
		oldVersion := u.RowVersion
		if err := mutate(u); err != nil {
			return err
		}
		tag, err := r.UpdateIfVersion(ctx, u, oldVersion)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
	}
	return utils.ErrRowVersionConflict
}

// ---- client repo ----

type fakeClientRepo struct{ st *fakeStore }

func (r *fakeClientRepo) Create(_ context.Context, c *models.Client) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.clients[c.ID] = c
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Client, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.clients[id], nil
}

func (r *fakeClientRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*models.Client, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, c := range r.st.clients {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeClientRepo) ListBirthDates(_ context.Context) ([]time.Time, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []time.Time
	for _, c := range r.st.clients {
		if u, ok := r.st.users[c.UserID]; ok && !u.BirthDate.IsZero() {
			out = append(out, u.BirthDate)
		}
	}
	return out, nil
}

// ---- employee repo ----

type fakeEmployeeRepo struct{ st *fakeStore }

func (r *fakeEmployeeRepo) Create(_ context.Context, e *models.Employee) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	e.RowVersion = 1
	e.CreatedAt = time.Now().Add(time.Duration(len(r.st.employees)) * time.Second)
	r.st.employees = append(r.st.employees, e)
	return nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Employee, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.employeeByID(id), nil
}

func (r *fakeEmployeeRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*models.Employee, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, e := range r.st.employees {
		if e.UserID == userID {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeEmployeeRepo) ListByOpenLoad(_ context.Context) ([]*models.Employee, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make([]*models.Employee, len(r.st.employees))
	for i, e := range r.st.employees {
		cp := *e
		out[i] = &cp
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OpenRequestCount != out[j].OpenRequestCount {
			return out[i].OpenRequestCount < out[j].OpenRequestCount
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeEmployeeRepo) ReconcileOpenRequestCounts(_ context.Context) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var drifted int64
	for _, e := range r.st.employees {
		actual := 0
		for _, pr := range r.st.requests {
			if pr.EmployeeID != nil && *pr.EmployeeID == e.ID && pr.Status.IsOpen() {
				actual++
			}
		}
		if e.OpenRequestCount != actual {
			e.OpenRequestCount = actual
			e.RowVersion++
			drifted++
		}
	}
	return drifted, nil
}

// ---- estate repo ----

type fakeEstateRepo struct{ st *fakeStore }

func (r *fakeEstateRepo) Create(_ context.Context, e *models.Estate) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.estates[e.ID] = e
	return nil
}

func (r *fakeEstateRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Estate, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.estates[id], nil
}

func (r *fakeEstateRepo) List(_ context.Context, f repositories.EstateFilter) ([]*models.Estate, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*models.Estate
	for _, e := range r.st.estates {
		if !f.IncludeSold {
			sold := false
			for _, s := range r.st.sales {
				if s.EstateID == e.ID {
					sold = true
					break
				}
			}
			if sold {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// ---- service repo ----

type fakeServiceRepo struct{ st *fakeStore }

func (r *fakeServiceRepo) CreateCategory(_ context.Context, _ *models.ServiceCategory) error {
	return nil
}

func (r *fakeServiceRepo) Create(_ context.Context, s *models.Service) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.services[s.ID] = s
	return nil
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Service, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.services[id], nil
}

func (r *fakeServiceRepo) List(_ context.Context, _ repositories.ServiceFilter) ([]*models.Service, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*models.Service
	for _, s := range r.st.services {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeServiceRepo) ListCategories(_ context.Context) ([]*models.ServiceCategory, error) {
	return nil, nil
}

// ---- purchase request repo ----

type fakeRequestRepo struct{ st *fakeStore }

func (r *fakeRequestRepo) CreateAssignedAtomic(
	_ context.Context,
	req *models.PurchaseRequest,
	employeeID uuid.UUID,
	expectedEmployeeVersion int64,
) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	emp := r.st.employeeByID(employeeID)
	if emp == nil || emp.RowVersion != expectedEmployeeVersion {
		return utils.ErrRowVersionConflict
	}
	for _, existing := range r.st.requests {
		if existing.EstateID == req.EstateID && existing.ClientID == req.ClientID {
			return utils.ErrDuplicateRequest
		}
	}

	emp.OpenRequestCount++
	emp.RowVersion++

	id := employeeID
	req.EmployeeID = &id
	req.Status = models.RequestStatusNew
	req.RowVersion = 1
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	r.st.requests[req.ID] = copyRequest(req)
	return nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id uuid.UUID) (*models.PurchaseRequest, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return copyRequest(r.st.requests[id]), nil
}

func (r *fakeRequestRepo) GetByEstateAndClient(_ context.Context, estateID, clientID uuid.UUID) (*models.PurchaseRequest, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, pr := range r.st.requests {
		if pr.EstateID == estateID && pr.ClientID == clientID {
			return copyRequest(pr), nil
		}
	}
	return nil, nil
}

func (r *fakeRequestRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]*models.PurchaseRequest, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*models.PurchaseRequest
	for _, pr := range r.st.requests {
		if pr.ClientID == clientID {
			out = append(out, copyRequest(pr))
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID, statuses []models.RequestStatusType) ([]*models.PurchaseRequest, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*models.PurchaseRequest
	for _, pr := range r.st.requests {
		if pr.EmployeeID == nil || *pr.EmployeeID != employeeID {
			continue
		}
		for _, s := range statuses {
			if pr.Status == s {
				out = append(out, copyRequest(pr))
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) MarkInProgressAtomic(_ context.Context, id uuid.UUID, expectedVersion int64) (*models.PurchaseRequest, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	pr := r.st.requests[id]
	if pr == nil {
		return nil, nil
	}
	if pr.RowVersion != expectedVersion {
		return copyRequest(pr), utils.ErrRowVersionConflict
	}
	if pr.Status != models.RequestStatusNew {
		return copyRequest(pr), utils.ErrWrongStatus
	}
	pr.Status = models.RequestStatusInProgress
	pr.RowVersion++
	pr.UpdatedAt = time.Now()
	return copyRequest(pr), nil
}

func (r *fakeRequestRepo) CancelAtomic(_ context.Context, id uuid.UUID, expectedVersion int64) (*models.PurchaseRequest, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	pr := r.st.requests[id]
	if pr == nil {
		return nil, nil
	}
	if pr.RowVersion != expectedVersion {
		return copyRequest(pr), utils.ErrRowVersionConflict
	}
	if pr.Status.IsTerminal() {
		return copyRequest(pr), utils.ErrRequestAlreadyCompleted
	}
	pr.Status = models.RequestStatusCancelled
	pr.RowVersion++
	pr.UpdatedAt = time.Now()
	if pr.EmployeeID != nil {
		if emp := r.st.employeeByID(*pr.EmployeeID); emp != nil && emp.OpenRequestCount > 0 {
			emp.OpenRequestCount--
			emp.RowVersion++
		}
	}
	return copyRequest(pr), nil
}

// ---- sale repo ----

type fakeSaleRepo struct{ st *fakeStore }

func (r *fakeSaleRepo) FinalizeFromRequest(
	_ context.Context,
	sale *models.Sale,
	requestID uuid.UUID,
	expectedRequestVersion int64,
) (*models.PurchaseRequest, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	pr := r.st.requests[requestID]
	if pr == nil {
		return nil, utils.ErrNoRowsUpdated
	}
	if pr.RowVersion != expectedRequestVersion {
		return copyRequest(pr), utils.ErrRowVersionConflict
	}
	if pr.Status.IsTerminal() {
		return copyRequest(pr), utils.ErrRequestAlreadyCompleted
	}
	for _, s := range r.st.sales {
		if s.EstateID == sale.EstateID {
			return copyRequest(pr), utils.ErrEstateAlreadySold
		}
	}

	pr.Status = models.RequestStatusCompleted
	pr.RowVersion++
	pr.UpdatedAt = time.Now()
	r.st.sales[sale.ID] = sale
	if pr.EmployeeID != nil {
		if emp := r.st.employeeByID(*pr.EmployeeID); emp != nil && emp.OpenRequestCount > 0 {
			emp.OpenRequestCount--
			emp.RowVersion++
		}
	}
	return copyRequest(pr), nil
}

func (r *fakeSaleRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Sale, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.sales[id], nil
}

func (r *fakeSaleRepo) GetByEstateID(_ context.Context, estateID uuid.UUID) (*models.Sale, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, s := range r.st.sales {
		if s.EstateID == estateID {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID) ([]*models.Sale, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*models.Sale
	for _, s := range r.st.sales {
		if s.EmployeeID == employeeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) ListCostRows(_ context.Context) ([]repositories.SaleCostRow, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []repositories.SaleCostRow
	for _, s := range r.st.sales {
		row := repositories.SaleCostRow{CostCents: s.CostCents}
		if e, ok := r.st.estates[s.EstateID]; ok && e.ServiceID != nil {
			if svc, ok := r.st.services[*e.ServiceID]; ok {
				fee := svc.FeeCents
				row.ServiceFeeCents = &fee
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// ---- review repo ----

type fakeReviewRepo struct{ st *fakeStore }

func (r *fakeReviewRepo) Create(_ context.Context, rv *models.Review) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	rv.CreatedAt = time.Now()
	rv.UpdatedAt = rv.CreatedAt
	r.st.reviews[rv.ID] = rv
	return nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Review, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.reviews[id], nil
}

func (r *fakeReviewRepo) List(_ context.Context) ([]*models.Review, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*models.Review
	for _, rv := range r.st.reviews {
		out = append(out, rv)
	}
	return out, nil
}

func (r *fakeReviewRepo) Update(_ context.Context, rv *models.Review) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.reviews[rv.ID]; !ok {
		return utils.ErrNoRowsUpdated
	}
	rv.UpdatedAt = time.Now()
	r.st.reviews[rv.ID] = rv
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.reviews, id)
	return nil
}

// ---- notifier ----

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *fakeNotifier) SendSaleConfirmation(toEmail, _ string, _ int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, toEmail)
	return nil
}
