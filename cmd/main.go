// @title GoTire API
// @version 1.0
// @description Back-office de loja de pneus: catálogo, estoque em dois níveis (armazém/loja) e registro de vendas.
// @BasePath /
package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gotire/config"
	"gotire/internal/pkg/cache"
	"gotire/internal/pkg/database"
	"gotire/internal/pkg/logger"
	"gotire/internal/pkg/middleware"
	"gotire/internal/pkg/token"

	"gotire/internal/api/brand"
	"gotire/internal/api/customer"
	"gotire/internal/api/product"
	"gotire/internal/api/router"
	"gotire/internal/api/stock"
	"gotire/internal/api/transaction"
	"gotire/internal/api/user"
	"gotire/internal/api/vehicletype"

	"gotire/internal/repository/brandrepo"
	"gotire/internal/repository/customerrepo"
	"gotire/internal/repository/productrepo"
	"gotire/internal/repository/stockrepo"
	"gotire/internal/repository/transactionrepo"
	"gotire/internal/repository/userrepo"
	"gotire/internal/repository/vehicletyperepo"

	"gotire/internal/domain"
	"gotire/internal/service/brandservice"
	"gotire/internal/service/customerservice"
	"gotire/internal/service/productservice"
	"gotire/internal/service/stockservice"
	"gotire/internal/service/transactionservice"
	"gotire/internal/service/userservice"
	"gotire/internal/service/vehicletypeservice"
)

func main() {
	// 0. Variáveis de ambiente (.env opcional; em container vêm do sistema)
	if err := godotenv.Load(); err != nil {
		stdlog.Println("Aviso: arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	// 1. Infraestrutura: PostgreSQL e Redis
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Cliente Redis inicializado.", nil)

	// 2. Injeção de dependências: Repository -> Service -> Handler
	brandRepo := brandrepo.NewBrandRepository(db, cfg.DBTimeout)
	vehicleTypeRepo := vehicletyperepo.NewVehicleTypeRepository(db, cfg.DBTimeout)
	customerRepo := customerrepo.NewCustomerRepository(db, cfg.DBTimeout)
	productRepo := productrepo.NewProductRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL)
	stockRepo := stockrepo.NewStockRepository(db, cacheClient, cfg.DBTimeout, log)
	transactionRepo := transactionrepo.NewTransactionRepository(db, cacheClient, cfg.DBTimeout, log)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout)

	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	brandSvc := brandservice.NewService(brandRepo, log)
	vehicleTypeSvc := vehicletypeservice.NewService(vehicleTypeRepo, log)
	customerSvc := customerservice.NewService(customerRepo, log)
	productSvc := productservice.NewService(productRepo, log, cfg.LowStockThreshold)
	stockSvc := stockservice.NewService(stockRepo, log, cfg.StockCompatMode)
	transactionSvc := transactionservice.NewService(transactionRepo, cacheClient, log)
	userSvc := userservice.NewService(userRepo, tokenSvc)

	// A sequência de recibos precisa estar alinhada com os dados existentes
	// antes de aceitar a primeira venda.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	if err := transactionSvc.SyncCustomIDSequence(startupCtx); err != nil {
		cancelStartup()
		log.Fatal("Falha ao sincronizar a sequência de recibos.", err)
	}
	cancelStartup()
	log.Info("Sequência de recibos pronta.", nil)

	handlers := router.Handlers{
		Transaction: transaction.NewHandler(transactionSvc, log),
		Product:     product.NewHandler(productSvc, log),
		Stock:       stock.NewHandler(stockSvc, log),
		Brand:       brand.NewHandler(brandSvc, log),
		VehicleType: vehicletype.NewHandler(vehicleTypeSvc, log),
		Customer:    customer.NewHandler(customerSvc, log),
		User:        user.NewHandler(userSvc, log),
	}

	// 3. Middlewares: admin nas rotas destrutivas; CORS e rate limit globais
	authMW := middleware.NewAuthMiddleware(tokenSvc)
	adminMW := middleware.PermissionMiddleware(domain.RoleAdmin)
	requireAdmin := func(next http.HandlerFunc) http.HandlerFunc {
		return authMW(adminMW(next))
	}

	r := router.NewRouter(handlers, requireAdmin,
		middleware.CORS(cfg.CORSOrigin),
		middleware.RateLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 4. Execução e graceful shutdown
	go func() {
		log.Info("Servidor GoTire ouvindo.", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
