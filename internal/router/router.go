package router

import (
	"time"

	"negociopos/internal/config"
	"negociopos/internal/handler"
	"negociopos/internal/middleware"
	"negociopos/internal/repository"
	"negociopos/internal/service"
	"negociopos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	stockMovementRepo := repository.NewStockMovementRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	cashRepo := repository.NewCashRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	inventorySvc := service.NewInventoryService(variantRepo, stockMovementRepo)
	cashSvc := service.NewCashService(cashRepo)
	customerSvc := service.NewCustomerService(customerRepo, cashRepo)
	promotionSvc := service.NewPromotionService(promotionRepo)
	priceSvc := service.NewPriceService(variantRepo, rdb,
		time.Duration(cfg.PriceCacheTTLSeconds)*time.Second)
	saleSvc := service.NewSaleService(saleRepo, variantRepo, promotionRepo, cashRepo,
		inventorySvc, cashSvc, customerSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	ventasH := handler.NewVentasHandler(saleSvc)
	cajaH := handler.NewCajaHandler(cashSvc)
	clientesH := handler.NewClientesHandler(customerSvc)
	variantesH := handler.NewVariantesHandler(inventorySvc)
	promocionesH := handler.NewPromocionesHandler(promotionSvc)
	precioH := handler.NewPrecioHandler(priceSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check kiosk, no auth required
	r.GET("/v1/precio/:store/:barcode", precioH.Consultar)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, supervisor, administrador, declared per-endpoint
		v1.POST("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.Procesar)
		v1.GET("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.Listar)
		v1.POST("/ventas/evaluar", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.Evaluar)
		v1.DELETE("/ventas/:id", middleware.RequireRole("supervisor", "administrador"), ventasH.Anular)

		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Abrir)
			caja.POST("/cerrar", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Cerrar)
			caja.POST("/movimiento", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.RegistrarMovimiento)
			caja.GET("/activa", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Activa)
			caja.GET("/historial", middleware.RequireRole("supervisor", "administrador"), cajaH.Historial)
		}

		clientes := v1.Group("/clientes")
		{
			clientes.POST("/:id/pagos", middleware.RequireRole("cajero", "supervisor", "administrador"), clientesH.RegistrarPago)
			clientes.GET("/:id/movimientos", middleware.RequireRole("cajero", "supervisor", "administrador"), clientesH.Movimientos)
			clientes.GET("/:id/reconciliar", middleware.RequireRole("supervisor", "administrador"), clientesH.Reconciliar)
		}

		variantes := v1.Group("/variantes")
		{
			variantes.POST("/:id/stock", middleware.RequireRole("supervisor", "administrador"), variantesH.AjustarStock)
			variantes.GET("/:id/movimientos", middleware.RequireRole("cajero", "supervisor", "administrador"), variantesH.Movimientos)
			variantes.GET("/:id/reconciliar", middleware.RequireRole("supervisor", "administrador"), variantesH.Reconciliar)
		}

		v1.GET("/promociones", middleware.RequireRole("cajero", "supervisor", "administrador"), promocionesH.ListarActivas)
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
