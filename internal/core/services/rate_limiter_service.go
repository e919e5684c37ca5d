package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/domain"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/ports"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/metrics"
)

const (
	DefaultCleanupProbability = 0.01

	defaultMetricLabel = "default"
)

// Config agrega os limites utilizados pelo serviço de rate limiting.
type Config struct {
	DefaultPolicy      domain.RatePolicy
	RoutePolicies      []domain.RoutePolicy
	NamedPolicies      map[string]domain.RatePolicy
	CleanupProbability float64

	Logger *zap.SugaredLogger
	Now    func() time.Time
	Rand   func() float64
}

// RateLimiterService implementa a lógica central de rate limiting por janela fixa.
type RateLimiterService struct {
	storage ports.Storage
	config  Config
}

var _ ports.RateLimiter = (*RateLimiterService)(nil)

// NewRateLimiterService cria uma nova instância do serviço.
func NewRateLimiterService(storage ports.Storage, cfg Config) (*RateLimiterService, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if cfg.DefaultPolicy == (domain.RatePolicy{}) {
		cfg.DefaultPolicy = domain.DefaultPolicy()
	}
	if err := cfg.DefaultPolicy.Validate(); err != nil {
		return nil, fmt.Errorf("default policy: %w", err)
	}
	cfg.DefaultPolicy = withMessage(cfg.DefaultPolicy, domain.DefaultMessage)

	routes := make([]domain.RoutePolicy, 0, len(cfg.RoutePolicies))
	for _, rp := range cfg.RoutePolicies {
		if strings.TrimSpace(rp.Prefix) == "" {
			return nil, fmt.Errorf("route policy prefix is required")
		}
		if err := rp.Policy.Validate(); err != nil {
			return nil, fmt.Errorf("route policy %s: %w", rp.Prefix, err)
		}
		rp.Policy = withMessage(rp.Policy, cfg.DefaultPolicy.Message)
		routes = append(routes, rp)
	}
	// longest prefix first so the most specific route wins
	sort.SliceStable(routes, func(i, j int) bool {
		return len(routes[i].Prefix) > len(routes[j].Prefix)
	})
	cfg.RoutePolicies = routes

	named := make(map[string]domain.RatePolicy, len(cfg.NamedPolicies))
	for name, p := range cfg.NamedPolicies {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("named policy %s: %w", name, err)
		}
		named[name] = withMessage(p, cfg.DefaultPolicy.Message)
	}
	cfg.NamedPolicies = named

	if cfg.CleanupProbability < 0 || cfg.CleanupProbability > 1 {
		return nil, fmt.Errorf("cleanup probability must be within [0, 1], got %v", cfg.CleanupProbability)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.Float64
	}

	return &RateLimiterService{storage: storage, config: cfg}, nil
}

// ResolvePolicy devolve a rota usada na chave e a política aplicável ao path.
func (s *RateLimiterService) ResolvePolicy(path string) (string, domain.RatePolicy) {
	route, policy, _ := s.resolve(path)
	return route, policy
}

func (s *RateLimiterService) resolve(path string) (string, domain.RatePolicy, bool) {
	for _, rp := range s.config.RoutePolicies {
		if strings.HasPrefix(path, rp.Prefix) {
			return rp.Prefix, rp.Policy, true
		}
	}
	return path, s.config.DefaultPolicy, false
}

// NamedPolicy consulta as políticas especiais; nomes desconhecidos usam a padrão.
func (s *RateLimiterService) NamedPolicy(name string) domain.RatePolicy {
	if p, ok := s.config.NamedPolicies[name]; ok {
		return p
	}
	return s.config.DefaultPolicy
}

// Allow avalia se a requisição pode prosseguir de acordo com a política da rota.
func (s *RateLimiterService) Allow(ctx context.Context, req domain.RateLimitRequest) (domain.Decision, error) {
	route, policy, matched := s.resolve(req.Path)
	label := route
	if !matched {
		label = defaultMetricLabel
	}
	return s.check(ctx, route, label, req.ClientID, policy)
}

// AllowNamed avalia a requisição contra uma política especial, usando o nome como rota.
func (s *RateLimiterService) AllowNamed(ctx context.Context, name, clientID string) (domain.Decision, error) {
	return s.check(ctx, name, name, clientID, s.NamedPolicy(name))
}

// check conta a requisição na janela de route:clientID. label é usado só
// nas métricas, para não criar uma série por path.
func (s *RateLimiterService) check(ctx context.Context, route, label, clientID string, policy domain.RatePolicy) (domain.Decision, error) {
	if strings.TrimSpace(clientID) == "" {
		return domain.Decision{}, fmt.Errorf("client id is required")
	}

	now := s.config.Now()
	s.maybeSweep(ctx, now)

	key := buildKey(route, clientID)
	counter, err := s.storage.Increment(ctx, key, policy.Window, now)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("increment %s: %w", key, err)
	}

	decision := domain.Decision{
		Key:       key,
		Policy:    policy,
		Count:     counter.Count,
		Remaining: remaining(policy.Requests, counter.Count),
		ResetAt:   counter.ResetAt,
	}

	if counter.Count > int64(policy.Requests) {
		decision.RetryAfter = counter.ResetAt.Sub(now)
		metrics.RateLimitDecisions.WithLabelValues(label, metrics.OutcomeDenied).Inc()
		return decision, domain.ErrRateLimited
	}

	decision.Allowed = true
	metrics.RateLimitDecisions.WithLabelValues(label, metrics.OutcomeAllowed).Inc()
	return decision, nil
}

func (s *RateLimiterService) maybeSweep(ctx context.Context, now time.Time) {
	if s.config.CleanupProbability <= 0 || s.config.Rand() >= s.config.CleanupProbability {
		return
	}
	removed, err := s.storage.Sweep(ctx, now)
	if err != nil {
		s.config.Logger.Warnw("rate limit sweep failed", "error", err)
		return
	}
	if removed > 0 {
		metrics.RateLimitSweptEntries.Add(float64(removed))
		s.config.Logger.Debugw("rate limit sweep", "removed", removed)
	}
}

func buildKey(route, clientID string) string {
	return route + ":" + clientID
}

func remaining(limit int, count int64) int {
	left := int64(limit) - count
	if left < 0 {
		return 0
	}
	return int(left)
}

func withMessage(p domain.RatePolicy, fallback string) domain.RatePolicy {
	if strings.TrimSpace(p.Message) == "" {
		p.Message = fallback
	}
	return p
}
