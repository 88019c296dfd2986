package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/app"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/config"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/controllers"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/middleware"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/repositories"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/routes"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/services"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize app:", err)
	}
	defer application.Close()

	userRepo := repositories.NewUserRepository(application.DB)
	clientRepo := repositories.NewClientRepository(application.DB)
	employeeRepo := repositories.NewEmployeeRepository(application.DB)
	serviceRepo := repositories.NewServiceRepository(application.DB)
	estateRepo := repositories.NewEstateRepository(application.DB)
	requestRepo := repositories.NewPurchaseRequestRepository(application.DB)
	saleRepo := repositories.NewSaleRepository(application.DB)
	contentRepo := repositories.NewContentRepository(application.DB)
	reviewRepo := repositories.NewReviewRepository(application.DB)

	if cfg.SeedDBWithTestData {
		if err := app.SeedAllTestData(
			context.Background(),
			userRepo, clientRepo, employeeRepo,
			serviceRepo, estateRepo, contentRepo,
		); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed test data")
		}
	}

	jwtService := services.NewJWTService(cfg)
	authService := services.NewAuthService(userRepo, clientRepo, employeeRepo, jwtService)
	catalogService := services.NewCatalogService(estateRepo, serviceRepo, saleRepo)
	requestService := services.NewRequestService(requestRepo, employeeRepo, clientRepo, estateRepo, saleRepo)
	notifier := services.NewSendGridNotifier(cfg)
	saleService := services.NewSaleService(
		saleRepo, requestRepo, estateRepo, serviceRepo,
		employeeRepo, clientRepo, userRepo, notifier,
	)
	statsService := services.NewStatisticsService(saleRepo, clientRepo)
	contentService := services.NewContentService(contentRepo, reviewRepo)
	maintenanceService := services.NewMaintenanceService(employeeRepo)

	healthController := controllers.NewHealthController(application)
	authController := controllers.NewAuthController(authService)
	catalogController := controllers.NewCatalogController(catalogService)
	requestsController := controllers.NewRequestsController(requestService)
	salesController := controllers.NewSalesController(saleService)
	contentController := controllers.NewContentController(contentService)
	statsController := controllers.NewStatsController(statsService)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.AuthRegister, authController.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthLogin, authController.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Estates, catalogController.ListEstatesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ServiceCategories, catalogController.ListServiceCategoriesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Services, catalogController.ListServicesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.EstateByID, catalogController.GetEstateHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.About, contentController.AboutHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Contacts, contentController.ListContactsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Vacancies, contentController.ListVacanciesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.News, contentController.ListNewsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.FAQ, contentController.ListFAQHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PromoCodes, contentController.ListPromoCodesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Reviews, contentController.ListReviewsHandler).Methods(http.MethodGet)

	secret := []byte(cfg.JWTSecret)

	// Any authenticated user
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(secret))
	secured.HandleFunc(routes.Me, authController.MeHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Me, authController.UpdateProfileHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.MePassword, authController.ChangePasswordHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.Reviews, contentController.CreateReviewHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ReviewByID, contentController.UpdateReviewHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.ReviewByID, contentController.DeleteReviewHandler).Methods(http.MethodDelete)
	secured.HandleFunc(routes.RequestCancel, requestsController.CancelRequestHandler).Methods(http.MethodPost)

	// Clients
	clientOnly := router.NewRoute().Subrouter()
	clientOnly.Use(middleware.AuthMiddleware(secret), middleware.RequireRole(models.UserRoleClient))
	clientOnly.HandleFunc(routes.Requests, requestsController.CreateRequestHandler).Methods(http.MethodPost)
	clientOnly.HandleFunc(routes.Requests, requestsController.ListMyRequestsHandler).Methods(http.MethodGet)

	// Employees
	employeeOnly := router.NewRoute().Subrouter()
	employeeOnly.Use(middleware.AuthMiddleware(secret), middleware.RequireRole(models.UserRoleEmployee))
	employeeOnly.HandleFunc(routes.AssignedRequests, requestsController.ListAssignedRequestsHandler).Methods(http.MethodGet)
	employeeOnly.HandleFunc(routes.RequestInProgress, requestsController.MarkInProgressHandler).Methods(http.MethodPost)
	employeeOnly.HandleFunc(routes.RequestFinalize, salesController.FinalizeSaleHandler).Methods(http.MethodPost)
	employeeOnly.HandleFunc(routes.EmployeeSales, salesController.ListMySalesHandler).Methods(http.MethodGet)

	// Admin
	adminOnly := router.NewRoute().Subrouter()
	adminOnly.Use(middleware.AuthMiddleware(secret), middleware.RequireRole(models.UserRoleAdmin))
	adminOnly.HandleFunc(routes.AdminEstates, catalogController.CreateEstateHandler).Methods(http.MethodPost)
	adminOnly.HandleFunc(routes.AdminAbout, contentController.UpdateAboutHandler).Methods(http.MethodPut)
	adminOnly.HandleFunc(routes.AdminContacts, contentController.CreateContactHandler).Methods(http.MethodPost)
	adminOnly.HandleFunc(routes.AdminVacancies, contentController.CreateVacancyHandler).Methods(http.MethodPost)
	adminOnly.HandleFunc(routes.AdminNews, contentController.CreateNewsHandler).Methods(http.MethodPost)
	adminOnly.HandleFunc(routes.AdminFAQ, contentController.CreateFAQHandler).Methods(http.MethodPost)
	adminOnly.HandleFunc(routes.AdminPromoCodes, contentController.CreatePromoCodeHandler).Methods(http.MethodPost)
	adminOnly.HandleFunc(routes.StatsSales, statsController.SaleStatsHandler).Methods(http.MethodGet)
	adminOnly.HandleFunc(routes.StatsClientAges, statsController.ClientAgeStatsHandler).Methods(http.MethodGet)

	c := cron.New()
	if _, err := c.AddFunc("@daily", maintenanceService.ReconcileEmployeeLoads); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule load reconciliation cron")
	}
	c.Start()

	allowedOrigins := []string{cfg.AppUrl}
	if cfg.CORSAllowLocalhost {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000")
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Server failed to start:", err)
	}
}
