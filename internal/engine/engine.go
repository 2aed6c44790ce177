package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bizledger.com/internal/auth"
	"bizledger.com/internal/config"
	"bizledger.com/internal/domain"
	"bizledger.com/internal/event"
	"bizledger.com/internal/infra"
	"bizledger.com/internal/service"
)

const (
	// maxMailAttempts 单封邮件最多发送次数
	maxMailAttempts = 3
	mailSendTimeout = 30 * time.Second
	mailPopTimeout  = time.Second

	purgeSchedule = "@every 15m"
)

// Engine 是一个轻量级协调器，负责：
// 1. 持有基础设施与业务服务，供 API 层使用
// 2. 启动后台进程（邮件发送、定时清理）
// 3. 通过事件总线把账户流程和邮件通知串起来
type Engine struct {
	cfg     *config.Config
	log     *zap.Logger
	baseLog *zap.Logger

	// 基础设施
	db        *gorm.DB
	rdb       *redis.Client
	bus       *event.Bus
	mailQueue domain.MailQueue
	mailer    domain.Mailer
	blacklist domain.TokenBlacklist
	tokens    *auth.TokenManager
	scheduler *cron.Cron

	// 业务服务 (依赖接口)
	customerService     domain.CustomerService
	supplierService     domain.SupplierService
	purchaseService     domain.PurchaseService
	saleService         domain.SaleService
	expenseService      domain.ExpenseService
	salePurchaseService domain.SalePurchaseService
	roleService         domain.RoleService
	userService         domain.UserService
	accountService      domain.AccountService
	summaryService      domain.SummaryService
	notification        *service.NotificationService

	// 上下文控制
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine 创建引擎并组装所有服务
func NewEngine(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	bus := event.NewBus(256, log)
	mailQueue := infra.NewMailQueue(rdb)

	return &Engine{
		cfg:       cfg,
		log:       log.Named("engine"),
		baseLog:   log,
		db:        db,
		rdb:       rdb,
		bus:       bus,
		mailQueue: mailQueue,
		mailer:    infra.NewMailer(cfg.Mail, log),
		blacklist: infra.NewTokenBlacklist(rdb),
		tokens:    auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL),
		scheduler: cron.New(),

		customerService:     service.NewCustomerService(db),
		supplierService:     service.NewSupplierService(db),
		purchaseService:     service.NewPurchaseService(db),
		saleService:         service.NewSaleService(db),
		expenseService:      service.NewExpenseService(db),
		salePurchaseService: service.NewSalePurchaseService(db),
		roleService:         service.NewRoleService(db),
		userService:         service.NewUserService(db),
		accountService:      service.NewAccountService(db, bus, log),
		summaryService:      service.NewSummaryService(db),
		notification:        service.NewNotificationService(mailQueue, cfg.App.PublicURL, log),

		ctx:    ctx,
		cancel: cancel,
	}
}

// Bootstrap 初始化内置角色和默认管理员
func (e *Engine) Bootstrap(ctx context.Context) error {
	if err := service.EnsureDefaultRoles(ctx, e.db); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := service.EnsureAdminUser(ctx, e.db, e.cfg.App, e.log); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

// Start 启动引擎后台进程
func (e *Engine) Start(ctx context.Context) error {
	e.log.Info("starting")

	// 1. 初始数据
	if err := e.Bootstrap(ctx); err != nil {
		return err
	}

	// 2. 账户事件 -> 邮件队列
	e.notification.Register(e.bus)

	// 3. 邮件发送循环
	e.wg.Add(1)
	go e.runMailLoop()

	// 4. 定时清理过期的重置令牌
	if _, err := e.scheduler.AddFunc(purgeSchedule, e.purgeResetTokens); err != nil {
		return fmt.Errorf("schedule purge: %w", err)
	}
	e.scheduler.Start()

	e.log.Info("started")
	return nil
}

// runMailLoop 邮件发送循环
func (e *Engine) runMailLoop() {
	defer e.wg.Done()

	// 重启后队列里可能还有未发送的邮件
	pending, err := e.mailQueue.Len(e.ctx)
	if err != nil {
		e.log.Warn("read mail queue length", zap.Error(err))
	}
	e.log.Info("mail loop started", zap.Int64("pending", pending))

	for {
		select {
		case <-e.ctx.Done():
			e.log.Info("mail loop stopped")
			return
		default:
		}

		// BLPOP 阻塞等待，超时 1 秒
		msg, err := e.mailQueue.Dequeue(e.ctx, mailPopTimeout)
		if err != nil {
			if e.ctx.Err() != nil {
				return
			}
			e.log.Error("read mail queue", zap.Error(err))
			select {
			case <-e.ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		if msg == nil {
			continue
		}

		e.deliver(*msg)
	}
}

// deliver 发送一封邮件，失败时重新入队
func (e *Engine) deliver(msg domain.MailMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), mailSendTimeout)
	defer cancel()

	msg.Attempts++
	err := e.mailer.Send(ctx, msg)
	if err == nil {
		e.log.Info("mail sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
		return
	}

	if msg.Attempts >= maxMailAttempts {
		e.log.Error("mail dropped", zap.String("to", msg.To), zap.Int("attempts", msg.Attempts), zap.Error(err))
		return
	}

	e.log.Warn("mail failed, requeue", zap.String("to", msg.To), zap.Int("attempts", msg.Attempts), zap.Error(err))
	if qerr := e.mailQueue.Enqueue(ctx, msg); qerr != nil {
		e.log.Error("requeue mail", zap.Error(qerr))
	}
}

func (e *Engine) purgeResetTokens() {
	n, err := e.accountService.PurgeExpiredResetTokens(e.ctx)
	if err != nil {
		e.log.Error("purge reset tokens", zap.Error(err))
		return
	}
	if n > 0 {
		e.log.Info("purged expired reset tokens", zap.Int64("count", n))
	}
}

// Stop 停止引擎，等待后台任务退出
func (e *Engine) Stop() {
	e.log.Info("stopping")
	e.cancel()
	<-e.scheduler.Stop().Done()
	e.wg.Wait()
	e.bus.Shutdown()
}

func (e *Engine) GetConfig() *config.Config { return e.cfg }
func (e *Engine) GetLogger() *zap.Logger { return e.baseLog }
func (e *Engine) GetDB() *gorm.DB { return e.db }
func (e *Engine) GetTokenManager() *auth.TokenManager { return e.tokens }
func (e *Engine) GetTokenBlacklist() domain.TokenBlacklist { return e.blacklist }
func (e *Engine) GetCustomerService() domain.CustomerService { return e.customerService }
func (e *Engine) GetSupplierService() domain.SupplierService { return e.supplierService }
func (e *Engine) GetPurchaseService() domain.PurchaseService { return e.purchaseService }
func (e *Engine) GetSaleService() domain.SaleService { return e.saleService }
func (e *Engine) GetExpenseService() domain.ExpenseService { return e.expenseService }
func (e *Engine) GetRoleService() domain.RoleService { return e.roleService }
func (e *Engine) GetUserService() domain.UserService { return e.userService }
func (e *Engine) GetAccountService() domain.AccountService { return e.accountService }
func (e *Engine) GetSummaryService() domain.SummaryService { return e.summaryService }
func (e *Engine) GetSalePurchaseService() domain.SalePurchaseService {
	return e.salePurchaseService
}
