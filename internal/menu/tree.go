package menu

import "sort"

// Tree guarda a floresta em arena: os nós ficam num slice plano e as
// ligações são índices. Uma Tree nunca é alterada depois de criada; as
// operações de seleção devolvem uma nova Tree que compartilha a estrutura.
type Tree struct {
	nodes      []Node
	children   [][]int
	roots      []int
	orphans    []string
	duplicates []string
}

// Build indexa os nós por id, liga cada um ao pai (ou às raízes quando
// ParentID é vazio) e ordena cada nível por SortOrder. Um id repetido
// substitui o registro anterior; um ParentID sem correspondente deixa o nó
// fora da floresta. Ambos ficam registrados em Duplicates e Orphans.
func Build(flat []Node) *Tree {
	t := &Tree{nodes: make([]Node, 0, len(flat))}

	index := make(map[string]int, len(flat))
	for _, n := range flat {
		if i, ok := index[n.ID]; ok {
			t.nodes[i] = n.clone()
			t.duplicates = append(t.duplicates, n.ID)
			continue
		}
		index[n.ID] = len(t.nodes)
		t.nodes = append(t.nodes, n.clone())
	}

	t.children = make([][]int, len(t.nodes))
	for i, n := range t.nodes {
		if n.ParentID == "" {
			t.roots = append(t.roots, i)
			continue
		}
		p, ok := index[n.ParentID]
		if !ok {
			t.orphans = append(t.orphans, n.ID)
			continue
		}
		t.children[p] = append(t.children[p], i)
	}

	t.sortLevel(t.roots)
	for _, c := range t.children {
		t.sortLevel(c)
	}
	return t
}

func (t *Tree) sortLevel(level []int) {
	sort.SliceStable(level, func(a, b int) bool {
		return t.nodes[level[a]].SortOrder < t.nodes[level[b]].SortOrder
	})
}

// Orphans retorna os ids cujo ParentID não existe na lista.
func (t *Tree) Orphans() []string {
	return append([]string(nil), t.orphans...)
}

// Duplicates retorna os ids que apareceram mais de uma vez.
func (t *Tree) Duplicates() []string {
	return append([]string(nil), t.duplicates...)
}

// walk percorre em pré-ordem a partir das raízes. Nós em ciclos nunca são
// alcançáveis a partir de uma raiz, então a travessia sempre termina.
func (t *Tree) walk(fn func(i int, path []int) bool) {
	var visit func(i int, path []int) bool
	visit = func(i int, path []int) bool {
		path = append(path, i)
		if !fn(i, path) {
			return false
		}
		for _, c := range t.children[i] {
			if !visit(c, path) {
				return false
			}
		}
		return true
	}
	for _, r := range t.roots {
		if !visit(r, nil) {
			return
		}
	}
}

// Len retorna o número de nós alcançáveis a partir das raízes.
func (t *Tree) Len() int {
	n := 0
	t.walk(func(int, []int) bool {
		n++
		return true
	})
	return n
}

// Forest devolve a projeção aninhada, com Children sempre não nulo.
func (t *Tree) Forest() []*TreeNode {
	var project func(i int) *TreeNode
	project = func(i int) *TreeNode {
		tn := &TreeNode{Node: t.nodes[i].clone(), Children: make([]*TreeNode, 0, len(t.children[i]))}
		for _, c := range t.children[i] {
			tn.Children = append(tn.Children, project(c))
		}
		return tn
	}

	forest := make([]*TreeNode, 0, len(t.roots))
	for _, r := range t.roots {
		forest = append(forest, project(r))
	}
	return forest
}

// Flatten emite cada nó alcançável uma vez, pais antes dos filhos.
func (t *Tree) Flatten() []Node {
	out := make([]Node, 0, len(t.nodes))
	t.walk(func(i int, _ []int) bool {
		out = append(out, t.nodes[i].clone())
		return true
	})
	return out
}

func (t *Tree) FindByID(id string) (Node, bool) {
	var (
		found Node
		ok    bool
	)
	t.walk(func(i int, _ []int) bool {
		if t.nodes[i].ID == id {
			found, ok = t.nodes[i].clone(), true
			return false
		}
		return true
	})
	return found, ok
}

// PathTo retorna a cadeia raiz→alvo, ou vazio quando o id não é encontrado.
func (t *Tree) PathTo(id string) []Node {
	out := []Node{}
	t.walk(func(i int, path []int) bool {
		if t.nodes[i].ID != id {
			return true
		}
		for _, p := range path {
			out = append(out, t.nodes[p].clone())
		}
		return false
	})
	return out
}

// SelectAll marca todas as permissões de todos os nós.
func (t *Tree) SelectAll() *Tree {
	return t.mapSelection(func(n Node) []string { return n.permissionIDs() })
}

// ClearAll remove todas as seleções.
func (t *Tree) ClearAll() *Tree {
	return t.mapSelection(func(Node) []string { return []string{} })
}

// UpdatePermissions troca a seleção de um único nó. O bool é falso quando o
// id não existe na árvore; nesse caso a própria árvore é devolvida.
func (t *Tree) UpdatePermissions(id string, selected []string) (*Tree, bool) {
	target := -1
	t.walk(func(i int, _ []int) bool {
		if t.nodes[i].ID == id {
			target = i
			return false
		}
		return true
	})
	if target < 0 {
		return t, false
	}

	next := t.shallowCopy()
	next.nodes[target].SelectedPermissions = append([]string{}, selected...)
	return next, true
}

// ExportForAPI projeta cada nó nas flags CRUD derivadas das permissões
// selecionadas, na ordem de Flatten.
func (t *Tree) ExportForAPI() []ExportedMenu {
	out := []ExportedMenu{}
	t.walk(func(i int, _ []int) bool {
		n := t.nodes[i]
		out = append(out, ExportedMenu{ID: n.ID, Name: n.Name, Permissions: n.flags()})
		return true
	})
	return out
}

func (t *Tree) mapSelection(fn func(Node) []string) *Tree {
	next := t.shallowCopy()
	for i := range next.nodes {
		next.nodes[i].SelectedPermissions = fn(next.nodes[i])
	}
	return next
}

// shallowCopy copia o slice de nós; a estrutura (children/roots) é
// imutável e pode ser compartilhada.
func (t *Tree) shallowCopy() *Tree {
	next := *t
	next.nodes = append([]Node(nil), t.nodes...)
	return &next
}

// FlattenForest achata uma floresta aninhada recebida do cliente,
// corrigindo ParentID de acordo com a posição de cada nó.
func FlattenForest(forest []*TreeNode) []Node {
	out := []Node{}
	var visit func(tn *TreeNode, parentID string)
	visit = func(tn *TreeNode, parentID string) {
		if tn == nil {
			return
		}
		n := tn.Node.clone()
		n.ParentID = parentID
		out = append(out, n)
		for _, c := range tn.Children {
			visit(c, n.ID)
		}
	}
	for _, root := range forest {
		visit(root, "")
	}
	return out
}
