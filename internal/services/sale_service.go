package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/repositories"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

type SaleService struct {
	saleRepo     repositories.SaleRepository
	requestRepo  repositories.PurchaseRequestRepository
	estateRepo   repositories.EstateRepository
	serviceRepo  repositories.ServiceRepository
	employeeRepo repositories.EmployeeRepository
	clientRepo   repositories.ClientRepository
	userRepo     repositories.UserRepository
	notifier     Notifier
}

func NewSaleService(
	saleRepo repositories.SaleRepository,
	requestRepo repositories.PurchaseRequestRepository,
	estateRepo repositories.EstateRepository,
	serviceRepo repositories.ServiceRepository,
	employeeRepo repositories.EmployeeRepository,
	clientRepo repositories.ClientRepository,
	userRepo repositories.UserRepository,
	notifier Notifier,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		requestRepo:  requestRepo,
		estateRepo:   estateRepo,
		serviceRepo:  serviceRepo,
		employeeRepo: employeeRepo,
		clientRepo:   clientRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

// FinalizeSale converts an open purchase request into a sale. The total cost
// is derived once via models.NewSale and frozen; the request's status guard
// inside the finalize transaction is what makes the operation idempotent.
func (s *SaleService) FinalizeSale(ctx context.Context, userID string, requestID uuid.UUID) (*models.Sale, error) {
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
	if pr.Status.IsTerminal() {
		return nil, utils.ErrRequestAlreadyCompleted
	}

	estate, err := s.estateRepo.GetByID(ctx, pr.EstateID)
	if err != nil {
		return nil, err
	}
	if estate == nil {
		return nil, fmt.Errorf("estate %s not found for request %s", pr.EstateID, requestID)
	}

	var svc *models.Service
	if estate.ServiceID != nil {
		svc, err = s.serviceRepo.GetByID(ctx, *estate.ServiceID)
		if err != nil {
			return nil, err
		}
	}

	sale := models.NewSale(estate, svc, pr.ClientID, employee.ID, time.Now())

	for attempt := 0; ; attempt++ {
		_, err = s.saleRepo.FinalizeFromRequest(ctx, sale, requestID, pr.RowVersion)
		if err == nil {
			break
		}
		if errors.Is(err, utils.ErrRowVersionConflict) && attempt < 2 {
			pr, err = s.requestRepo.GetByID(ctx, requestID)
			if err != nil {
				return nil, err
			}
			if pr == nil {
				return nil, nil
			}
			if pr.Status.IsTerminal() {
				return nil, utils.ErrRequestAlreadyCompleted
			}
			continue
		}
		return nil, err
	}

	s.notifyClient(ctx, pr.ClientID, estate, sale)
	return sale, nil
}

// ListEmployeeSales returns the sales closed by the employee behind userID.
func (s *SaleService) ListEmployeeSales(ctx context.Context, userID string) ([]*models.Sale, error) {
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
	return s.saleRepo.ListByEmployee(ctx, employee.ID)
}

// notifyClient emails the buyer a confirmation; delivery failures are logged
// and never fail the sale.
func (s *SaleService) notifyClient(ctx context.Context, clientID uuid.UUID, estate *models.Estate, sale *models.Sale) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil || client == nil {
		utils.Logger.WithError(err).Warnf("Could not load client %s for sale confirmation", clientID)
		return
	}
	user, err := s.userRepo.GetByID(ctx, client.UserID)
	if err != nil || user == nil {
		utils.Logger.WithError(err).Warnf("Could not load user for client %s", clientID)
		return
	}
	if err := s.notifier.SendSaleConfirmation(user.Email, estate.Address, sale.CostCents); err != nil {
		utils.Logger.WithError(err).Warn("Sale confirmation email failed")
	}
}
