// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import (
	"context"
	"time"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/domain"
)

// Storage guarda os contadores de janela fixa, indexados por "rota:cliente".
type Storage interface {
	// Increment abre uma nova janela com count=1 quando não há entrada ou
	// quando now passou de ResetAt; caso contrário incrementa o contador.
	Increment(ctx context.Context, key string, window time.Duration, now time.Time) (domain.Counter, error)
	// Sweep remove entradas expiradas e retorna quantas foram apagadas.
	Sweep(ctx context.Context, now time.Time) (int, error)
}
