package routes

const (
	// Health
	Health = "/health"

	// Auth
	AuthRegister = "/api/v1/auth/register"
	AuthLogin    = "/api/v1/auth/login"

	// Public catalog
	Estates           = "/api/v1/estates"
	EstateByID        = "/api/v1/estates/{id}"
	Services          = "/api/v1/services"
	ServiceCategories = "/api/v1/services/categories"

	// Public content
	About      = "/api/v1/about"
	Contacts   = "/api/v1/contacts"
	Vacancies  = "/api/v1/vacancies"
	News       = "/api/v1/news"
	FAQ        = "/api/v1/faq"
	PromoCodes = "/api/v1/promo-codes"
	Reviews    = "/api/v1/reviews"
	ReviewByID = "/api/v1/reviews/{id}"

	// Account
	Me         = "/api/v1/me"
	MePassword = "/api/v1/me/password"

	// Client endpoints
	Requests          = "/api/v1/requests"
	RequestCancel     = "/api/v1/requests/{id}/cancel"
	RequestInProgress = "/api/v1/requests/{id}/in-progress"
	RequestFinalize   = "/api/v1/requests/{id}/finalize"

	// Employee endpoints
	AssignedRequests = "/api/v1/employee/requests"
	EmployeeSales    = "/api/v1/employee/sales"

	// Admin endpoints
	AdminEstates    = "/api/v1/admin/estates"
	AdminAbout      = "/api/v1/admin/about"
	AdminContacts   = "/api/v1/admin/contacts"
	AdminVacancies  = "/api/v1/admin/vacancies"
	AdminNews       = "/api/v1/admin/news"
	AdminFAQ        = "/api/v1/admin/faq"
	AdminPromoCodes = "/api/v1/admin/promo-codes"
	StatsSales      = "/api/v1/admin/stats/sales"
	StatsClientAges = "/api/v1/admin/stats/client-ages"
)
