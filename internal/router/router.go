package router

import (
	"context"
	"time"

	"github.com/EstebanRsh/UP/internal/config"
	"github.com/EstebanRsh/UP/internal/handler"
	"github.com/EstebanRsh/UP/internal/infra"
	"github.com/EstebanRsh/UP/internal/middleware"
	"github.com/EstebanRsh/UP/internal/model"
	"github.com/EstebanRsh/UP/internal/repository"
	"github.com/EstebanRsh/UP/internal/sequence"
	"github.com/EstebanRsh/UP/internal/service"
	"github.com/EstebanRsh/UP/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// ctx bounds the background worker pool; cancelling it stops the workers.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)

	// ── Repositories ─────────────────────────────────────────────────────────
	accountRepo := repository.NewAccountRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	planRepo := repository.NewPlanRepository(db)
	contractRepo := repository.NewContractRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	alloc := sequence.NewAllocator(sequenceRepo, cfg.ReceiptSeries)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(accountRepo, customerRepo, cfg)
	customerSvc := service.NewCustomerService(customerRepo, accountRepo, alloc)
	planSvc := service.NewPlanService(planRepo, rdb)
	contractSvc := service.NewContractService(contractRepo, customerRepo, planRepo)
	paymentSvc := service.NewPaymentService(paymentRepo, customerRepo, contractRepo, companyRepo, alloc, dispatcher, cfg)
	companySvc := service.NewCompanyService(companyRepo, cfg)

	// ── Background workers ───────────────────────────────────────────────────
	receiptWorker := worker.NewReceiptWorker(paymentSvc, dispatcher, rdb)
	emailWorker := worker.NewEmailWorker(mailer)
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, map[string]worker.Handler{
		worker.QueueReceiptRender: receiptWorker.Process,
		worker.QueueEmail:         emailWorker.Process,
	})
	worker.StartRetryCron(ctx, rdb, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	plansH := handler.NewPlansHandler(planSvc)
	contractsH := handler.NewContractsHandler(contractSvc)
	paymentsH := handler.NewPaymentsHandler(paymentSvc)
	companyH := handler.NewCompanyHandler(companySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Auth (public)
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	staff := []string{model.RoleManager, model.RoleOperator}
	ownerOrStaff := middleware.OwnerOrRoles(customerRepo, staff...)

	api := r.Group("/api", jwtMW)
	{
		api.GET("/auth/me", authH.Me)

		// Account administration — manager only
		accounts := api.Group("/accounts", middleware.RequireRole(model.RoleManager))
		{
			accounts.POST("", authH.CreateAccount)
			accounts.POST("/list", authH.ListAccounts)
			accounts.DELETE("/:id", authH.DeactivateAccount)
			accounts.POST("/:id/reactivate", authH.ReactivateAccount)
		}

		// Customers — staff writes; reads are owner-or-staff so a subscriber
		// can see their own record
		api.POST("/customers", middleware.RequireRole(staff...), customersH.Create)
		api.POST("/customers/search", middleware.RequireRole(staff...), customersH.Search)
		api.POST("/customers/list", middleware.RequireRole(staff...), customersH.ListCursor)
		api.GET("/customers/:id", ownerOrStaff, customersH.Get)
		api.GET("/customers/:id/contracts", ownerOrStaff, contractsH.ListByCustomer)
		api.PATCH("/customers/:id", middleware.RequireRole(staff...), customersH.Update)
		api.DELETE("/customers/:id", middleware.RequireRole(model.RoleManager), customersH.Deactivate)
		api.PUT("/customers/:id/account", middleware.RequireRole(model.RoleManager), customersH.LinkAccount)

		// Plans — catalog readable by every authenticated role; writes manager only
		api.GET("/plans", plansH.List)
		api.GET("/plans/:id", plansH.Get)
		plans := api.Group("/plans", middleware.RequireRole(model.RoleManager))
		{
			plans.POST("", plansH.Create)
			plans.PATCH("/:id", plansH.Update)
			plans.DELETE("/:id", plansH.Deactivate)
			plans.POST("/:id/reactivate", plansH.Reactivate)
		}

		// Contracts — lifecycle actions are staff work; reads owner-or-staff
		api.POST("/contracts", middleware.RequireRole(staff...), contractsH.Create)
		api.POST("/contracts/list", middleware.RequireRole(staff...), contractsH.ListCursor)
		api.GET("/contracts/:id", ownerOrStaff, contractsH.Get)
		api.PATCH("/contracts/:id", middleware.RequireRole(staff...), contractsH.Update)
		api.POST("/contracts/:id/activate", middleware.RequireRole(staff...), contractsH.Activate)
		api.POST("/contracts/:id/suspend", middleware.RequireRole(staff...), contractsH.Suspend)
		api.POST("/contracts/:id/resume", middleware.RequireRole(staff...), contractsH.Resume)
		api.POST("/contracts/:id/terminate", middleware.RequireRole(model.RoleManager), contractsH.Terminate)

		// Payments — registration and lifecycle are staff work; reads and
		// downloads owner-or-staff. The manager-only rule for voiding a
		// confirmed payment is enforced in the service, which sees the status.
		api.POST("/payments/cash", middleware.RequireRole(staff...), paymentsH.CreateCash)
		api.POST("/payments/transfer", middleware.RequireRole(staff...), paymentsH.CreateBankTransfer)
		api.POST("/payments/search", ownerOrStaff, paymentsH.Search)
		api.GET("/payments/:id", ownerOrStaff, paymentsH.Get)
		api.PATCH("/payments/:id", middleware.RequireRole(staff...), paymentsH.Update)
		api.POST("/payments/:id/confirm", middleware.RequireRole(staff...), paymentsH.Confirm)
		api.POST("/payments/:id/void", middleware.RequireRole(staff...), paymentsH.Void)
		api.GET("/payments/:id/receipt", ownerOrStaff, paymentsH.DownloadReceipt)
		api.GET("/payments/:id/proof", ownerOrStaff, paymentsH.DownloadProof)
		api.POST("/payments/:id/receipt/rerender", middleware.RequireRole(staff...), paymentsH.RerenderReceipt)

		// Company profile — readable by staff, writable by manager
		api.GET("/company", middleware.RequireRole(staff...), companyH.Get)
		api.PUT("/company", middleware.RequireRole(model.RoleManager), companyH.Update)
	}

	return r
}
