package services

import (
	"context"
	"time"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/repositories"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

const reconcileTimeout = time.Minute

// MaintenanceService hosts the scheduled background jobs.
type MaintenanceService struct {
	employeeRepo repositories.EmployeeRepository
}

func NewMaintenanceService(employeeRepo repositories.EmployeeRepository) *MaintenanceService {
	return &MaintenanceService{employeeRepo: employeeRepo}
}

// ReconcileEmployeeLoads rewrites every employee's open-request counter from
// the purchase_requests table. The counters are maintained transactionally
// during normal operation; this job exists so that any drift (manual DB edits,
// restored backups) self-heals instead of skewing assignment forever.
func (s *MaintenanceService) ReconcileEmployeeLoads() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	drifted, err := s.employeeRepo.ReconcileOpenRequestCounts(ctx)
	if err != nil {
		utils.Logger.WithError(err).Error("Employee load reconciliation failed")
		return
	}
	if drifted > 0 {
		utils.Logger.Warnf("Employee load reconciliation corrected %d drifted counter(s)", drifted)
	} else {
		utils.Logger.Debug("Employee load reconciliation found no drift")
	}
}
