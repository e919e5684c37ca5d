package services

import (
	"time"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/domain"
)

const (
	PolicyPasswordReset = "password-reset"
	PolicyAdminLogin    = "admin-login"
)

// DefaultRoutePolicies retorna as políticas por prefixo usadas pelo console.
func DefaultRoutePolicies() []domain.RoutePolicy {
	return []domain.RoutePolicy{
		{Prefix: "/api/auth/login", Policy: domain.RatePolicy{
			Requests: 5, Window: 15 * time.Minute,
			Message: "Too many login attempts, please try again in 15 minutes.",
		}},
		{Prefix: "/api/auth/forgot-password", Policy: domain.RatePolicy{
			Requests: 3, Window: time.Hour,
			Message: "Too many password reset requests, please try again in an hour.",
		}},
		{Prefix: "/api/upload", Policy: domain.RatePolicy{
			Requests: 20, Window: time.Minute,
			Message: "Too many uploads, please slow down.",
		}},
		{Prefix: "/api/contact", Policy: domain.RatePolicy{
			Requests: 5, Window: time.Hour,
			Message: "Too many contact submissions, please try again later.",
		}},
		{Prefix: "/api/menus", Policy: domain.RatePolicy{
			Requests: 300, Window: 15 * time.Minute,
			Message: domain.DefaultMessage,
		}},
	}
}

// DefaultNamedPolicies retorna as políticas mais restritas consultadas por nome.
func DefaultNamedPolicies() map[string]domain.RatePolicy {
	return map[string]domain.RatePolicy{
		PolicyPasswordReset: {
			Requests: 3, Window: time.Hour,
			Message: "Too many password reset attempts, please try again in an hour.",
		},
		PolicyAdminLogin: {
			Requests: 3, Window: 15 * time.Minute,
			Message: "Too many admin login attempts, please try again in 15 minutes.",
		},
	}
}
