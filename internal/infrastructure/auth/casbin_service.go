package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/you/accountsvc/domain"
)

// DefaultModel is used when no model file is configured
const DefaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// DefaultPolicies are seeded when the policy table is empty
var DefaultPolicies = [][]string{
	{"role_" + domain.UserTypeAdmin.String(), "/api/account/admin", "POST"},
	{"role_" + domain.UserTypeAdmin.String(), "/api/account/count", "GET"},
}

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds an enforcer whose policies are stored through the gorm adapter.
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize casbin gorm adapter: %w", err)
	}
	m, err := loadModel(modelPath)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m, adp)
	if err != nil {
		return nil, err
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, err
	}
	return &CasbinService{E: e}, nil
}

// NewInMemoryCasbinService builds an enforcer without persistence
func NewInMemoryCasbinService(modelPath string) (*CasbinService, error) {
	m, err := loadModel(modelPath)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	return &CasbinService{E: e}, nil
}

// SeedDefaultPolicies adds DefaultPolicies when no policy exists yet.
// It reports whether anything was added.
func (s *CasbinService) SeedDefaultPolicies() (bool, error) {
	policies, err := s.E.GetPolicy()
	if err != nil {
		return false, err
	}
	if len(policies) > 0 {
		return false, nil
	}
	for _, p := range DefaultPolicies {
		if _, err := s.E.AddPolicy(p[0], p[1], p[2]); err != nil {
			return false, fmt.Errorf("failed to add policy %v: %w", p, err)
		}
	}
	return true, nil
}

func loadModel(modelPath string) (model.Model, error) {
	if modelPath == "" {
		return model.NewModelFromString(DefaultModel)
	}
	m, err := model.NewModelFromFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model %s: %w", modelPath, err)
	}
	return m, nil
}
