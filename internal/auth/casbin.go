package auth

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Casbin subjects. Business roles map onto these by slug.
const (
	SubjectAnonymous = "anonymous"
	SubjectUser      = "user"
	SubjectStaff     = "staff"
	SubjectAdmin     = "admin"
)

const (
	actRead = "(GET)"
	actAll  = "(GET)|(POST)|(PUT)|(DELETE)"
)

// rbacModel
// r = request (who, what, how), g = role hierarchy
// keyMatch2 支持 /api/customers/:id 形式的路径
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// businessResources 任何登录用户都可以增删改的资源
var businessResources = []string{
	"customers", "suppliers", "purchases", "sales", "expenses", "salePurchases",
}

// publicAuthRoutes 无需会话的账户接口
var publicAuthRoutes = []string{
	"signup", "signin", "verify-email", "resend-verification",
	"forgot-password", "reset-password", "update-password",
}

// DefaultPolicies returns the seed policy rules.
func DefaultPolicies() [][]string {
	var rules [][]string

	for _, r := range append(append([]string{}, businessResources...), "roles") {
		rules = append(rules,
			[]string{SubjectAnonymous, "/api/" + r, actRead},
			[]string{SubjectAnonymous, "/api/" + r + "/*", actRead},
		)
	}
	for _, r := range publicAuthRoutes {
		rules = append(rules, []string{SubjectAnonymous, "/api/auth/" + r, "(POST)"})
	}

	for _, r := range businessResources {
		rules = append(rules,
			[]string{SubjectUser, "/api/" + r, actAll},
			[]string{SubjectUser, "/api/" + r + "/*", actAll},
		)
	}
	rules = append(rules,
		[]string{SubjectUser, "/api/users", actRead},
		[]string{SubjectUser, "/api/auth/me", actRead},
		[]string{SubjectUser, "/api/auth/signout", "(POST)"},
		[]string{SubjectAdmin, "/api/*", actAll},
	)
	return rules
}

// DefaultGroupings returns the seed role hierarchy: admin > staff > user > anonymous.
func DefaultGroupings() [][]string {
	return [][]string{
		{SubjectUser, SubjectAnonymous},
		{SubjectStaff, SubjectUser},
		{SubjectAdmin, SubjectStaff},
	}
}

// InitCasbin builds the enforcer on the gorm adapter (casbin_rule table)
// and seeds the default policies when the table is empty.
func InitCasbin(db *gorm.DB, log *zap.Logger) (*casbin.Enforcer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("casbin")

	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}

	policies, _ := enforcer.GetPolicy()
	if len(policies) == 0 {
		log.Info("no policies found, seeding defaults")
		if _, err := enforcer.AddPolicies(DefaultPolicies()); err != nil {
			return nil, err
		}
		if _, err := enforcer.AddGroupingPolicies(DefaultGroupings()); err != nil {
			return nil, err
		}
		if policies, err = enforcer.GetPolicy(); err != nil {
			return nil, err
		}
	}

	log.Info("initialized", zap.Int("policies", len(policies)))
	return enforcer, nil
}
