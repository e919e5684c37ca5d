// Package menu converte as listas planas de menus/permissões do backend em
// árvores para o menu de navegação e para o editor de permissões de papéis.
package menu

import "strings"

// Action é a operação CRUD concedida por uma permissão.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ParseAction aceita apenas os nomes exatos das ações, sem diferenciar maiúsculas.
func ParseAction(s string) (Action, bool) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionView, ActionCreate, ActionUpdate, ActionDelete:
		return a, true
	}
	return "", false
}

type PermissionRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Action Action `json:"action"`
}

// Node é o registro de menu como entregue pela API do backend.
type Node struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Slug                string          `json:"slug,omitempty"`
	URL                 string          `json:"url,omitempty"`
	Icon                string          `json:"icon,omitempty"`
	ParentID            string          `json:"parentId"`
	SortOrder           int             `json:"sortOrder"`
	IsActive            bool            `json:"isActive"`
	Permissions         []PermissionRef `json:"permissions"`
	SelectedPermissions []string        `json:"selectedPermissions"`
}

// TreeNode é a projeção aninhada de um Node.
type TreeNode struct {
	Node
	Children []*TreeNode `json:"children"`
}

type PermissionFlags struct {
	CanView   bool `json:"canView"`
	CanCreate bool `json:"canCreate"`
	CanUpdate bool `json:"canUpdate"`
	CanDelete bool `json:"canDelete"`
}

// ExportedMenu é o formato enviado ao backend ao salvar as permissões de um papel.
type ExportedMenu struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Permissions PermissionFlags `json:"permissions"`
}

// clone copia os slices para que nenhuma Tree compartilhe estado mutável
// com o chamador. Slices nulos viram vazios e serializam como [].
func (n Node) clone() Node {
	n.Permissions = append([]PermissionRef{}, n.Permissions...)
	n.SelectedPermissions = append([]string{}, n.SelectedPermissions...)
	return n
}

func (n Node) permissionIDs() []string {
	ids := make([]string, 0, len(n.Permissions))
	for _, p := range n.Permissions {
		ids = append(ids, p.ID)
	}
	return ids
}

func (n Node) flags() PermissionFlags {
	var flags PermissionFlags
	for _, selected := range n.SelectedPermissions {
		action, ok := n.actionFor(selected)
		if !ok {
			continue
		}
		switch action {
		case ActionView:
			flags.CanView = true
		case ActionCreate:
			flags.CanCreate = true
		case ActionUpdate:
			flags.CanUpdate = true
		case ActionDelete:
			flags.CanDelete = true
		}
	}
	return flags
}

// actionFor resolve um id selecionado pela ação da sua PermissionRef. Um id
// igual ao nome de uma ação também é aceito, para menus sem refs.
func (n Node) actionFor(selected string) (Action, bool) {
	for _, p := range n.Permissions {
		if p.ID == selected {
			return ParseAction(string(p.Action))
		}
	}
	return ParseAction(selected)
}
