package provider

import (
	"github.com/phimart/phimart/internal/cache"
	"github.com/phimart/phimart/internal/config"
	"github.com/phimart/phimart/internal/logger"
	"github.com/phimart/phimart/internal/models"
	"github.com/phimart/phimart/internal/queue"
	"github.com/phimart/phimart/internal/repository"
	"github.com/phimart/phimart/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	ReviewRepo   repository.ReviewRepository
	CartRepo     repository.CartRepository
	OrderRepo    repository.OrderRepository
	PaymentRepo  repository.PaymentRepository

	// Services
	AuthService     *service.AuthService
	CategoryService *service.CategoryService
	ProductService  *service.ProductService
	ReviewService   *service.ReviewService
	CartService     *service.CartService
	OrderService    *service.OrderService
	PaymentService  *service.PaymentService
	EmailService    *service.EmailService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo, c.ProductRepo, c.QueueClient, c.Config.Order.PaymentExpireMinutes)
	c.PaymentService = service.NewPaymentService(&c.Config.Payment, c.PaymentRepo, c.OrderRepo, c.ProductRepo, c.UserRepo, c.QueueClient)
}
