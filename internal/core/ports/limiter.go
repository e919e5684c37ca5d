// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import (
	"context"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/domain"
)

type RateLimiter interface {
	Allow(ctx context.Context, req domain.RateLimitRequest) (domain.Decision, error)
	AllowNamed(ctx context.Context, name, clientID string) (domain.Decision, error)
}
