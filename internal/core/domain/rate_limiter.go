// Package domain concentra entidades e estruturas centrais do rate limiter.
package domain

import "time"

const (
	DefaultRequests = 100
	DefaultWindow   = 15 * time.Minute
	DefaultMessage  = "Too many requests, please try again later."
)

type RatePolicy struct {
	Requests int
	Window   time.Duration
	Message  string
}

// Validate garante que a política tenha valores positivos.
func (p RatePolicy) Validate() error {
	if p.Requests <= 0 || p.Window <= 0 {
		return ErrInvalidPolicy
	}
	return nil
}

// DefaultPolicy é aplicada às rotas sem configuração específica.
func DefaultPolicy() RatePolicy {
	return RatePolicy{Requests: DefaultRequests, Window: DefaultWindow, Message: DefaultMessage}
}

type RoutePolicy struct {
	Prefix string
	Policy RatePolicy
}

type RateLimitRequest struct {
	Path     string
	ClientID string
}

// Counter é o estado de uma janela fixa no storage.
type Counter struct {
	Count   int64
	ResetAt time.Time
}

type Decision struct {
	Allowed    bool
	Key        string
	Policy     RatePolicy
	Count      int64
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}
