package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/repositories"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

// SeedAllTestData populates a fresh database with an admin account, a small
// employee roster and a handful of listings. Existing accounts short-circuit
// the whole seed so restarts stay idempotent.
func SeedAllTestData(
	ctx context.Context,
	userRepo repositories.UserRepository,
	clientRepo repositories.ClientRepository,
	employeeRepo repositories.EmployeeRepository,
	serviceRepo repositories.ServiceRepository,
	estateRepo repositories.EstateRepository,
	contentRepo repositories.ContentRepository,
) error {
	existing, err := userRepo.GetByEmail(ctx, "admin@estate-agency.test")
	if err != nil {
		return err
	}
	if existing != nil {
		utils.Logger.Info("Seed data already present; skipping")
		return nil
	}

	if err = seedUser(ctx, userRepo, "admin@estate-agency.test", "admin", models.UserRoleAdmin, nil, nil); err != nil {
		return err
	}

	for i := 1; i <= 3; i++ {
		email := fmt.Sprintf("agent%d@estate-agency.test", i)
		username := fmt.Sprintf("agent%d", i)
		if err = seedUser(ctx, userRepo, email, username, models.UserRoleEmployee, nil, employeeRepo); err != nil {
			return err
		}
	}

	if err = seedUser(ctx, userRepo, "client@estate-agency.test", "client", models.UserRoleClient, clientRepo, nil); err != nil {
		return err
	}

	category := &models.ServiceCategory{ID: uuid.New(), Name: "Residential"}
	if err = serviceRepo.CreateCategory(ctx, category); err != nil {
		return err
	}

	standard := &models.Service{ID: uuid.New(), CategoryID: category.ID, Name: "Standard listing", FeeCents: 10_000}
	premium := &models.Service{ID: uuid.New(), CategoryID: category.ID, Name: "Premium listing", FeeCents: 50_000}
	for _, svc := range []*models.Service{standard, premium} {
		if err = serviceRepo.Create(ctx, svc); err != nil {
			return err
		}
	}

	estates := []*models.Estate{
		{
			ID:          uuid.New(),
			CostCents:   12_500_000,
			AreaSqm:     64.5,
			ServiceID:   &standard.ID,
			Description: "Two-bedroom apartment near the city centre",
			Address:     "12 Nezavisimosti Ave",
		},
		{
			ID:          uuid.New(),
			CostCents:   31_000_000,
			AreaSqm:     142.0,
			ServiceID:   &premium.ID,
			Description: "Detached house with a garden",
			Address:     "7 Lesnaya St",
		},
	}
	for _, e := range estates {
		if err = estateRepo.Create(ctx, e); err != nil {
			return err
		}
	}

	if err = contentRepo.UpsertAbout(ctx, &models.AboutCompany{
		ID:   uuid.New(),
		Text: "A small city agency pairing every buyer with a dedicated agent.",
	}); err != nil {
		return err
	}
	if err = contentRepo.CreateNews(ctx, &models.News{
		ID:       uuid.New(),
		Title:    "We are open",
		Summary:  "The agency has launched its online catalog.",
		ImageURL: utils.Ptr("https://cdn.estate-agency.test/news/launch.jpg"),
		Created:  time.Now(),
	}); err != nil {
		return err
	}
	if err = contentRepo.CreateContact(ctx, &models.Contact{
		ID:          uuid.New(),
		Name:        "Alena Krauchuk",
		Position:    "Head of sales",
		PhotoURL:    utils.Ptr("https://cdn.estate-agency.test/contacts/krauchuk.jpg"),
		Description: "Coordinates the agent roster and escalations.",
		Phone:       "+375(29)111-22-33",
		Email:       "sales@estate-agency.test",
	}); err != nil {
		return err
	}
	if err = contentRepo.CreateVacancy(ctx, &models.Vacancy{
		ID:          uuid.New(),
		Position:    "Estate agent",
		SalaryCents: 180_000,
		Description: "Full-time, commission on top of base salary.",
	}); err != nil {
		return err
	}
	if err = contentRepo.CreateFAQ(ctx, &models.FAQ{
		ID:        uuid.New(),
		Question:  "How fast are purchase requests handled?",
		Answer:    "An agent is assigned the moment you file a request.",
		AddedDate: time.Now(),
	}); err != nil {
		return err
	}
	if err = contentRepo.CreatePromoCode(ctx, &models.PromoCode{
		ID:              uuid.New(),
		Code:            "WELCOME10",
		DiscountPercent: 10,
		Description:     "10% off the service fee for first-time clients",
		Active:          true,
	}); err != nil {
		return err
	}

	utils.Logger.Info("Seeded test data successfully")
	return nil
}

func seedUser(
	ctx context.Context,
	userRepo repositories.UserRepository,
	email, username string,
	role models.UserRoleType,
	clientRepo repositories.ClientRepository,
	employeeRepo repositories.EmployeeRepository,
) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		BirthDate:    time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	if err = userRepo.Create(ctx, user); err != nil {
		return err
	}

	switch role {
	case models.UserRoleClient:
		return clientRepo.Create(ctx, &models.Client{ID: uuid.New(), UserID: user.ID})
	case models.UserRoleEmployee:
		return employeeRepo.Create(ctx, &models.Employee{ID: uuid.New(), UserID: user.ID})
	}
	return nil
}
