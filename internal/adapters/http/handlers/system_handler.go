package handlers

import (
	"net/http"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/adapters/http/response"
)

// Health responde ao probe de liveness.
func Health(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// AuthNotImplemented responde nas rotas de autenticação. A autenticação é
// feita pelo provedor externo; aqui as rotas existem para receber os limites
// nomeados antes do proxy.
func AuthNotImplemented(w http.ResponseWriter, _ *http.Request) {
	response.Error(w, http.StatusNotImplemented, "authentication is handled by the identity provider")
}
