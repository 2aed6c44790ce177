package domain

import (
	"context"
	"time"

	"bizledger.com/internal/event"
	"bizledger.com/internal/model"
)

// ListQuery 列表查询参数 (page/limit/search)
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

// Offset returns the number of rows to skip for the current page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ===========================
// 业务实体服务接口
// ===========================

type CustomerService interface {
	ListCustomers(ctx context.Context, q ListQuery) ([]model.Customer, int64, error)
	GetCustomer(ctx context.Context, id uint) (*model.Customer, error)
	CreateCustomer(ctx context.Context, userID uint, in CustomerInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id uint, in CustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error
}

type SupplierService interface {
	ListSuppliers(ctx context.Context, q ListQuery) ([]model.Supplier, int64, error)
	GetSupplier(ctx context.Context, id uint) (*model.Supplier, error)
	CreateSupplier(ctx context.Context, userID uint, in SupplierInput) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, id uint, in SupplierInput) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id uint) error
}

type PurchaseService interface {
	ListPurchases(ctx context.Context, q ListQuery) ([]model.Purchase, int64, error)
	GetPurchase(ctx context.Context, id uint) (*model.Purchase, error)
	CreatePurchase(ctx context.Context, userID uint, in PurchaseInput) (*model.Purchase, error)
	UpdatePurchase(ctx context.Context, id uint, in PurchaseInput) (*model.Purchase, error)
	DeletePurchase(ctx context.Context, id uint) error
}

type SaleService interface {
	ListSales(ctx context.Context, q ListQuery) ([]model.Sale, int64, error)
	GetSale(ctx context.Context, id uint) (*model.Sale, error)
	CreateSale(ctx context.Context, userID uint, in SaleInput) (*model.Sale, error)
	UpdateSale(ctx context.Context, id uint, in SaleInput) (*model.Sale, error)
	DeleteSale(ctx context.Context, id uint) error
}

type ExpenseService interface {
	ListExpenses(ctx context.Context, q ListQuery) ([]model.Expense, int64, error)
	GetExpense(ctx context.Context, id uint) (*model.Expense, error)
	CreateExpense(ctx context.Context, userID uint, in ExpenseInput) (*model.Expense, error)
	UpdateExpense(ctx context.Context, id uint, in ExpenseInput) (*model.Expense, error)
	DeleteExpense(ctx context.Context, id uint) error
}

type SalePurchaseService interface {
	ListSalePurchases(ctx context.Context, q ListQuery) ([]model.SalePurchase, int64, error)
	GetSalePurchase(ctx context.Context, id uint) (*model.SalePurchase, error)
	CreateSalePurchase(ctx context.Context, userID uint, in SalePurchaseInput) (*model.SalePurchase, error)
	UpdateSalePurchase(ctx context.Context, id uint, in SalePurchaseInput) (*model.SalePurchase, error)
	DeleteSalePurchase(ctx context.Context, id uint) error
}

type RoleService interface {
	ListRoles(ctx context.Context, q ListQuery) ([]model.Role, int64, error)
	GetRole(ctx context.Context, id uint) (*model.Role, error)
	CreateRole(ctx context.Context, in RoleInput) (*model.Role, error)
	UpdateRole(ctx context.Context, id uint, in RoleInput) (*model.Role, error)
	// DeleteRole 软删除
	DeleteRole(ctx context.Context, id uint) error
}

type UserService interface {
	ListUsers(ctx context.Context) ([]model.UserRef, error)
	AssignRole(ctx context.Context, userID, roleID uint) error
}

// ===========================
// 账户服务接口
// ===========================

type AccountService interface {
	SignUp(ctx context.Context, in SignUpInput) (*model.User, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	// Authenticate 校验凭证，返回带角色的用户
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	// PurgeExpiredResetTokens 清理过期的重置令牌，返回清理条数
	PurgeExpiredResetTokens(ctx context.Context) (int64, error)
}

// Summary 管理后台统计
type Summary struct {
	Counts map[string]int64  `json:"counts"`
	Totals map[string]string `json:"totals"`
}

type SummaryService interface {
	Summary(ctx context.Context) (*Summary, error)
}

// ===========================
// 基础设施接口
// ===========================

// MailMessage 待发送的邮件
type MailMessage struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTML     string `json:"html"`
	Attempts int    `json:"attempts"`
}

// MailQueue 邮件队列 (Redis list)
type MailQueue interface {
	Enqueue(ctx context.Context, msg MailMessage) error
	// Dequeue 阻塞等待最多 timeout；队列为空时返回 nil, nil
	Dequeue(ctx context.Context, timeout time.Duration) (*MailMessage, error)
	Len(ctx context.Context) (int64, error)
}

// Mailer 邮件发送
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// TokenBlacklist 已注销会话的 JWT ID
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// EventPublisher 事件发布
type EventPublisher interface {
	Publish(e event.Event)
}
