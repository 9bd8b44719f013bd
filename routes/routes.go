package routes

import (
	"MediIntake/cache"
	"MediIntake/config"
	"MediIntake/controllers"
	"MediIntake/database"
	"MediIntake/events"
	"MediIntake/handlers"
	"MediIntake/llm"
	"MediIntake/metrics"
	"MediIntake/middlewares"
	"MediIntake/repositories"
	"MediIntake/services"
	"MediIntake/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Dependencies are the long-lived collaborators created at startup.
// Generator may be nil; Cache, Publisher and Mailer fall back to no-ops.
type Dependencies struct {
	Config    *config.AppConfig
	Store     *database.RecordStore
	Cache     cache.Cache
	Tokens    utils.TokenManager
	Generator llm.TextGenerator
	Publisher events.Publisher
	Mailer    utils.Mailer
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
}

// Services is the application service layer built over one record store.
type Services struct {
	Auth          services.AuthService
	Assessments   *services.AssessmentService
	History       *services.HistoryService
	Doctors       *services.DoctorService
	Prescriptions *services.PrescriptionService
}

// BuildServices wires repositories and services.
func BuildServices(deps Dependencies) *Services {
	if deps.Cache == nil {
		deps.Cache = cache.NewNopCache()
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NewPublisher(nil, "")
	}
	if deps.Mailer == nil {
		deps.Mailer = utils.NewMailer(utils.SMTPConfig{})
	}

	patientRepo := repositories.NewPatientRepository(deps.Store)
	doctorRepo := repositories.NewDoctorRepository(deps.Store)
	assessmentRepo := repositories.NewAssessmentRepository(deps.Store)
	prescriptionRepo := repositories.NewPrescriptionRepository(deps.Store)
	assignmentRepo := repositories.NewAssignmentRepository(deps.Store)

	var onGenerated func(string)
	if deps.Metrics != nil {
		onGenerated = deps.Metrics.PrescriptionGenerated
	}
	generator := services.NewPrescriptionGenerator(deps.Generator, deps.Config.GeneratorTimeout, deps.Logger, onGenerated)

	historyService := services.NewHistoryService(patientRepo, assessmentRepo, prescriptionRepo, deps.Cache, deps.Config.HistoryCacheTTL, deps.Logger)
	doctorService := services.NewDoctorService(doctorRepo, patientRepo, assignmentRepo, historyService, deps.Logger)

	return &Services{
		Auth:    services.NewAuthService(patientRepo, doctorRepo, deps.Tokens, deps.Config.BcryptCost, deps.Logger),
		History: historyService,
		Doctors: doctorService,
		Assessments: services.NewAssessmentService(
			patientRepo,
			assessmentRepo,
			prescriptionRepo,
			assignmentRepo,
			doctorService,
			historyService,
			generator,
			deps.Publisher,
			deps.Mailer,
			deps.Logger,
		),
		Prescriptions: services.NewPrescriptionService(prescriptionRepo, assignmentRepo, historyService, deps.Publisher, deps.Logger),
	}
}

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(deps Dependencies) http.Handler {
	router := gin.New()

	router.Use(middlewares.RecoveryMiddleware(deps.Logger))
	router.Use(middlewares.LoggingMiddleware(deps.Logger))
	router.Use(middlewares.CorsMiddleware(&middlewares.CorsConfig{
		AllowedOrigins:   deps.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: deps.Config.RateLimitRPS,
		Burst:             deps.Config.RateLimitBurst,
	}))

	var metricsHandler http.Handler
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		metricsHandler = deps.Metrics.Handler()
	}

	svc := BuildServices(deps)

	authHandler := handlers.NewAuthHandler(svc.Auth)
	patientHandler := handlers.NewPatientHandler(svc.History, svc.Doctors)
	assessmentHandler := handlers.NewAssessmentHandler(svc.Assessments)
	doctorHandler := handlers.NewDoctorHandler(svc.Doctors)
	prescriptionHandler := handlers.NewPrescriptionHandler(svc.Prescriptions)

	api := router.Group("/api")

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(api)

	controllers.SetupPatientRoutes(
		api,
		middlewares.TokenAuthMiddleware(deps.Tokens),
		patientHandler,
		assessmentHandler,
		doctorHandler,
		prescriptionHandler,
	)

	controllers.SetupRootRoute(router, metricsHandler)

	return router
}
