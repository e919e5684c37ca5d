// Package handlers agrupa os handlers HTTP do console administrativo.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/adapters/http/response"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/menu"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/metrics"
)

const maxBodyBytes = 1 << 20

// TreeResult é o payload de /api/menus/tree.
type TreeResult struct {
	Tree       []*menu.TreeNode `json:"tree"`
	Orphans    []string         `json:"orphans"`
	Duplicates []string         `json:"duplicates"`
}

// MenuHandler expõe as transformações da árvore de menus/permissões.
type MenuHandler struct {
	log *zap.SugaredLogger
}

func NewMenuHandler(log *zap.SugaredLogger) *MenuHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &MenuHandler{log: log}
}

// Routes monta as rotas de menus e de permissões de papéis.
func (h *MenuHandler) Routes(r chi.Router) {
	r.Route("/menus", func(r chi.Router) {
		r.Post("/tree", h.BuildTree)
		r.Post("/flatten", h.Flatten)
		r.Post("/find/{id}", h.Find)
		r.Post("/path/{id}", h.Path)
	})
	r.Route("/roles/permissions", func(r chi.Router) {
		r.Post("/select-all", h.SelectAll)
		r.Post("/clear-all", h.ClearAll)
		r.Post("/update/{id}", h.UpdatePermissions)
		r.Post("/export", h.Export)
	})
}

func (h *MenuHandler) BuildTree(w http.ResponseWriter, r *http.Request) {
	tree, ok := h.buildFromBody(w, r)
	if !ok {
		return
	}
	response.OK(w, TreeResult{
		Tree:       tree.Forest(),
		Orphans:    nonNil(tree.Orphans()),
		Duplicates: nonNil(tree.Duplicates()),
	})
}

func (h *MenuHandler) Flatten(w http.ResponseWriter, r *http.Request) {
	var forest []*menu.TreeNode
	if err := decodeBody(r, &forest); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	response.OK(w, menu.FlattenForest(forest))
}

func (h *MenuHandler) Find(w http.ResponseWriter, r *http.Request) {
	tree, ok := h.buildFromBody(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	node, found := tree.FindByID(id)
	if !found {
		response.Error(w, http.StatusNotFound, fmt.Sprintf("menu %s not found", id))
		return
	}
	response.OK(w, node)
}

func (h *MenuHandler) Path(w http.ResponseWriter, r *http.Request) {
	tree, ok := h.buildFromBody(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	path := tree.PathTo(id)
	if len(path) == 0 {
		response.Error(w, http.StatusNotFound, fmt.Sprintf("menu %s not found", id))
		return
	}
	response.OK(w, path)
}

func (h *MenuHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	tree, ok := h.buildFromBody(w, r)
	if !ok {
		return
	}
	response.OK(w, tree.SelectAll().Forest())
}

func (h *MenuHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	tree, ok := h.buildFromBody(w, r)
	if !ok {
		return
	}
	response.OK(w, tree.ClearAll().Forest())
}

// UpdatePermissions recebe {"menus": [...], "selected": [...]} e troca a
// seleção do menu {id}.
func (h *MenuHandler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Menus    []menu.Node `json:"menus"`
		Selected []string    `json:"selected"`
	}
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	tree, found := h.build(body.Menus).UpdatePermissions(id, body.Selected)
	if !found {
		response.Error(w, http.StatusNotFound, fmt.Sprintf("menu %s not found", id))
		return
	}
	response.OK(w, tree.Forest())
}

func (h *MenuHandler) Export(w http.ResponseWriter, r *http.Request) {
	tree, ok := h.buildFromBody(w, r)
	if !ok {
		return
	}
	response.OK(w, tree.ExportForAPI())
}

func (h *MenuHandler) buildFromBody(w http.ResponseWriter, r *http.Request) (*menu.Tree, bool) {
	var flat []menu.Node
	if err := decodeBody(r, &flat); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return h.build(flat), true
}

func (h *MenuHandler) build(flat []menu.Node) *menu.Tree {
	tree := menu.Build(flat)

	metrics.MenuTreeBuilds.Inc()
	metrics.MenuTreeNodes.Observe(float64(len(flat)))

	if orphans := tree.Orphans(); len(orphans) > 0 {
		metrics.MenuTreeOrphans.Add(float64(len(orphans)))
		h.log.Warnw("menu nodes reference unknown parents", "ids", orphans)
	}
	if dups := tree.Duplicates(); len(dups) > 0 {
		h.log.Warnw("duplicate menu ids, last record wins", "ids", dups)
	}
	return tree
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
