package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/domain"
)

// PolicyFile é o formato YAML de RATE_LIMIT_POLICY_FILE.
//
//	default:
//	  requests: 100
//	  windowSeconds: 900
//	routes:
//	  - prefix: /api/auth/login
//	    requests: 5
//	    windowSeconds: 900
//	    message: Too many login attempts
//	named:
//	  admin-login:
//	    requests: 3
//	    windowSeconds: 900
type PolicyFile struct {
	Default *PolicyEntry           `yaml:"default"`
	Routes  []RouteEntry           `yaml:"routes"`
	Named   map[string]PolicyEntry `yaml:"named"`
}

type PolicyEntry struct {
	Requests      int    `yaml:"requests"`
	WindowSeconds int    `yaml:"windowSeconds"`
	Message       string `yaml:"message"`
}

type RouteEntry struct {
	Prefix      string `yaml:"prefix"`
	PolicyEntry `yaml:",inline"`
}

func (e PolicyEntry) policy() domain.RatePolicy {
	return domain.RatePolicy{
		Requests: e.Requests,
		Window:   time.Duration(e.WindowSeconds) * time.Second,
		Message:  e.Message,
	}
}

func LoadPolicyFile(path string) (PolicyFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return PolicyFile{}, fmt.Errorf("read policy file: %w", err)
	}

	var file PolicyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return PolicyFile{}, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	for _, r := range file.Routes {
		if r.Prefix == "" {
			return PolicyFile{}, fmt.Errorf("policy file %s: route prefix is required", path)
		}
		if err := r.policy().Validate(); err != nil {
			return PolicyFile{}, fmt.Errorf("policy file %s: route %s: %w", path, r.Prefix, err)
		}
	}
	for name, e := range file.Named {
		if err := e.policy().Validate(); err != nil {
			return PolicyFile{}, fmt.Errorf("policy file %s: named %s: %w", path, name, err)
		}
	}
	if file.Default != nil {
		if err := file.Default.policy().Validate(); err != nil {
			return PolicyFile{}, fmt.Errorf("policy file %s: default: %w", path, err)
		}
	}

	return file, nil
}

// Apply sobrescreve a configuração: a lista de rotas é substituída quando o
// arquivo define alguma, as políticas nomeadas são mescladas por nome.
func (f PolicyFile) Apply(cfg RateLimiterConfig) RateLimiterConfig {
	if f.Default != nil {
		p := f.Default.policy()
		if p.Message == "" {
			p.Message = cfg.DefaultPolicy.Message
		}
		cfg.DefaultPolicy = p
	}

	if len(f.Routes) > 0 {
		routes := make([]domain.RoutePolicy, 0, len(f.Routes))
		for _, r := range f.Routes {
			routes = append(routes, domain.RoutePolicy{Prefix: r.Prefix, Policy: r.policy()})
		}
		cfg.RoutePolicies = routes
	}

	if len(f.Named) > 0 {
		named := make(map[string]domain.RatePolicy, len(cfg.NamedPolicies)+len(f.Named))
		for k, v := range cfg.NamedPolicies {
			named[k] = v
		}
		for k, v := range f.Named {
			named[k] = v.policy()
		}
		cfg.NamedPolicies = named
	}

	return cfg
}
