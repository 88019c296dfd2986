package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/repositories"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

// maxAssignRetries bounds how many times a creation re-picks an employee after
// losing the optimistic race on the load counter.
const maxAssignRetries = 3

type RequestService struct {
	requestRepo  repositories.PurchaseRequestRepository
	employeeRepo repositories.EmployeeRepository
	clientRepo   repositories.ClientRepository
	estateRepo   repositories.EstateRepository
	saleRepo     repositories.SaleRepository
}

func NewRequestService(
	requestRepo repositories.PurchaseRequestRepository,
	employeeRepo repositories.EmployeeRepository,
	clientRepo repositories.ClientRepository,
	estateRepo repositories.EstateRepository,
	saleRepo repositories.SaleRepository,
) *RequestService {
	return &RequestService{
		requestRepo:  requestRepo,
		employeeRepo: employeeRepo,
		clientRepo:   clientRepo,
		estateRepo:   estateRepo,
		saleRepo:     saleRepo,
	}
}

// CreateRequest files a purchase request for the client behind userID and
// binds it to the least-loaded employee. The pick and the counter increment
// are not a single read: the employee row_version guards the window between
// reading the roster and writing the assignment, and a lost race re-picks
// against fresh counts.
func (s *RequestService) CreateRequest(
	ctx context.Context,
	userID string,
	estateID uuid.UUID,
	message string,
) (*models.PurchaseRequest, error) {
	uID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	client, err := s.clientRepo.GetByUserID(ctx, uID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("authenticated user %s has no client profile", userID)
	}

	estate, err := s.estateRepo.GetByID(ctx, estateID)
	if err != nil {
		return nil, err
	}
	if estate == nil {
		return nil, nil
	}

	sold, err := s.saleRepo.GetByEstateID(ctx, estateID)
	if err != nil {
		return nil, err
	}
	if sold != nil {
		return nil, utils.ErrEstateAlreadySold
	}

	existing, err := s.requestRepo.GetByEstateAndClient(ctx, estateID, client.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrDuplicateRequest
	}

	req := &models.PurchaseRequest{
		ID:       uuid.New(),
		EstateID: estateID,
		ClientID: client.ID,
		Message:  message,
	}

	for attempt := 0; attempt < maxAssignRetries; attempt++ {
		chosen, err := s.pickLeastLoaded(ctx)
		if err != nil {
			return nil, err
		}

		err = s.requestRepo.CreateAssignedAtomic(ctx, req, chosen.ID, chosen.RowVersion)
		if errors.Is(err, utils.ErrRowVersionConflict) {
			// concurrent assignment bumped the chosen employee first
			continue
		}
		if err != nil {
			return nil, err
		}
		return req, nil
	}
	return nil, fmt.Errorf("too much contention assigning request for estate %s", estateID)
}

// pickLeastLoaded returns the employee with the fewest open requests. Ties go
// to the earliest-registered employee (roster order), a deliberately
// deterministic rule.
func (s *RequestService) pickLeastLoaded(ctx context.Context) (*models.Employee, error) {
	roster, err := s.employeeRepo.ListByOpenLoad(ctx)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, utils.ErrNoEmployeesAvailable
	}
	return roster[0], nil
}

// ListClientRequests returns the requests filed by the client behind userID.
func (s *RequestService) ListClientRequests(ctx context.Context, userID string) ([]*models.PurchaseRequest, error) {
	uID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	client, err := s.clientRepo.GetByUserID(ctx, uID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("authenticated user %s has no client profile", userID)
	}
	return s.requestRepo.ListByClient(ctx, client.ID)
}

// ListAssignedRequests returns the open requests routed to the employee
// behind userID.
func (s *RequestService) ListAssignedRequests(ctx context.Context, userID string) ([]*models.PurchaseRequest, error) {
	employee, err := s.employeeByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.ListByEmployee(ctx, employee.ID, []models.RequestStatusType{
		models.RequestStatusNew,
		models.RequestStatusInProgress,
	})
}

// MarkInProgress moves a NEW request to IN_PROGRESS; only the assigned
// employee may do so.
func (s *RequestService) MarkInProgress(ctx context.Context, userID string, requestID uuid.UUID) (*models.PurchaseRequest, error) {
	employee, err := s.employeeByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	pr, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, nil
	}
	if pr.EmployeeID == nil || *pr.EmployeeID != employee.ID {
		return nil, utils.ErrNotAssignedEmployee
	}

	return s.requestRepo.MarkInProgressAtomic(ctx, requestID, pr.RowVersion)
}

// CancelRequest abandons an open request. The filing client or the assigned
// employee may cancel; the request reaches the CANCELLED terminal state and
// the employee's load slot is released.
func (s *RequestService) CancelRequest(ctx context.Context, userID string, requestID uuid.UUID) (*models.PurchaseRequest, error) {
	uID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	pr, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, nil
	}

	allowed := false
	if client, err := s.clientRepo.GetByUserID(ctx, uID); err != nil {
		return nil, err
	} else if client != nil && client.ID == pr.ClientID {
		allowed = true
	}
	if !allowed {
		if employee, err := s.employeeRepo.GetByUserID(ctx, uID); err != nil {
			return nil, err
		} else if employee != nil && pr.EmployeeID != nil && *pr.EmployeeID == employee.ID {
			allowed = true
		}
	}
	if !allowed {
		return nil, utils.ErrNotRequestOwner
	}

	if pr.Status.IsTerminal() {
		return pr, utils.ErrRequestAlreadyCompleted
	}

	return s.requestRepo.CancelAtomic(ctx, requestID, pr.RowVersion)
}

func (s *RequestService) employeeByUserID(ctx context.Context, userID string) (*models.Employee, error) {
	uID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	employee, err := s.employeeRepo.GetByUserID(ctx, uID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, fmt.Errorf("authenticated user %s has no employee profile", userID)
	}
	return employee, nil
}
