package menu

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleList() []Node {
	return []Node{
		{ID: "1", ParentID: "", SortOrder: 2, Name: "B"},
		{ID: "2", ParentID: "", SortOrder: 1, Name: "A"},
		{ID: "3", ParentID: "2", SortOrder: 0, Name: "A1"},
	}
}

func permissionList() []Node {
	perms := func(prefix string) []PermissionRef {
		return []PermissionRef{
			{ID: prefix + "-v", Name: "View", Action: ActionView},
			{ID: prefix + "-c", Name: "Create", Action: ActionCreate},
			{ID: prefix + "-u", Name: "Update", Action: ActionUpdate},
			{ID: prefix + "-d", Name: "Delete", Action: ActionDelete},
		}
	}
	return []Node{
		{ID: "listings", Name: "Listings", SortOrder: 1, Permissions: perms("listings")},
		{ID: "locations", Name: "Locations", ParentID: "listings", SortOrder: 2, Permissions: perms("locations")},
		{ID: "zones", Name: "Zones", ParentID: "listings", SortOrder: 1, Permissions: perms("zones")},
		{ID: "users", Name: "Users", SortOrder: 0, Permissions: perms("users")},
		{ID: "roles", Name: "Roles", ParentID: "users", SortOrder: 0, Permissions: perms("roles")},
	}
}

// shape renders the forest as nested ids so two trees can be compared structurally.
type shapeNode struct {
	ID       string
	Children []shapeNode
}

func shape(forest []*TreeNode) []shapeNode {
	out := []shapeNode{}
	for _, tn := range forest {
		out = append(out, shapeNode{ID: tn.ID, Children: shape(tn.Children)})
	}
	return out
}

func TestBuild_SortsEachLevelBySortOrder(t *testing.T) {
	forest := Build(sampleList()).Forest()

	require.Len(t, forest, 2)
	assert.Equal(t, "A", forest[0].Name)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "A1", forest[0].Children[0].Name)
	assert.Empty(t, forest[0].Children[0].Children)
	assert.Equal(t, "B", forest[1].Name)
	assert.NotNil(t, forest[1].Children)
	assert.Empty(t, forest[1].Children)
}

func TestBuild_StableForEqualSortOrder(t *testing.T) {
	tree := Build([]Node{
		{ID: "x", SortOrder: 1},
		{ID: "y", SortOrder: 1},
		{ID: "z", SortOrder: 0},
	})

	ids := []string{}
	for _, n := range tree.Flatten() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"z", "x", "y"}, ids)
}

func TestBuild_RecordsOrphansAndDuplicates(t *testing.T) {
	tree := Build([]Node{
		{ID: "1", Name: "first"},
		{ID: "2", ParentID: "missing"},
		{ID: "1", Name: "second"},
	})

	assert.Equal(t, []string{"2"}, tree.Orphans())
	assert.Equal(t, []string{"1"}, tree.Duplicates())
	assert.Equal(t, 1, tree.Len())

	n, ok := tree.FindByID("1")
	require.True(t, ok)
	assert.Equal(t, "second", n.Name)

	_, ok = tree.FindByID("2")
	assert.False(t, ok)
}

func TestBuild_CycleDoesNotHang(t *testing.T) {
	tree := Build([]Node{
		{ID: "root"},
		{ID: "a", ParentID: "b"},
		{ID: "b", ParentID: "a"},
		{ID: "self", ParentID: "self"},
	})

	assert.Equal(t, 1, tree.Len())
	assert.Empty(t, tree.PathTo("a"))
	assert.Len(t, tree.Flatten(), 1)
}

func TestFlatten_PreOrderParentsFirst(t *testing.T) {
	flat := Build(permissionList()).Flatten()

	ids := make([]string, 0, len(flat))
	for _, n := range flat {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"users", "roles", "listings", "zones", "locations"}, ids)
}

func TestFlatten_RebuildIsIsomorphic(t *testing.T) {
	lists := [][]Node{sampleList(), permissionList(), {}}

	for _, l := range lists {
		first := Build(l)
		second := Build(first.Flatten())
		assert.Equal(t, shape(first.Forest()), shape(second.Forest()))
	}
}

func TestFindByID(t *testing.T) {
	list := permissionList()
	tree := Build(list)

	for _, n := range list {
		found, ok := tree.FindByID(n.ID)
		require.True(t, ok, n.ID)
		assert.Equal(t, n.Name, found.Name)
	}

	_, ok := tree.FindByID("unknown")
	assert.False(t, ok)
}

func TestPathTo(t *testing.T) {
	tree := Build(permissionList())

	path := tree.PathTo("locations")
	require.Len(t, path, 2)
	assert.Equal(t, "listings", path[0].ID)
	assert.Equal(t, "locations", path[1].ID)

	path = tree.PathTo("users")
	require.Len(t, path, 1)
	assert.Equal(t, "users", path[0].ID)

	assert.Empty(t, tree.PathTo("unknown"))
	assert.NotNil(t, tree.PathTo("unknown"))
}

func TestSelectAllThenClearAll(t *testing.T) {
	tree := Build(permissionList())

	selected := tree.SelectAll()
	for _, n := range selected.Flatten() {
		assert.Len(t, n.SelectedPermissions, 4, n.ID)
	}

	cleared := selected.ClearAll()
	for _, n := range cleared.Flatten() {
		assert.Empty(t, n.SelectedPermissions, n.ID)
	}

	// the original trees are untouched
	for _, n := range tree.Flatten() {
		assert.Empty(t, n.SelectedPermissions, n.ID)
	}
	for _, n := range selected.Flatten() {
		assert.Len(t, n.SelectedPermissions, 4, n.ID)
	}
}

func TestUpdatePermissions(t *testing.T) {
	tree := Build(permissionList())

	next, ok := tree.UpdatePermissions("zones", []string{"zones-v", "zones-u"})
	require.True(t, ok)

	n, _ := next.FindByID("zones")
	assert.Equal(t, []string{"zones-v", "zones-u"}, n.SelectedPermissions)

	before, _ := tree.FindByID("zones")
	assert.Empty(t, before.SelectedPermissions)

	same, ok := tree.UpdatePermissions("unknown", []string{"x"})
	assert.False(t, ok)
	assert.Same(t, tree, same)
}

func TestExportForAPI(t *testing.T) {
	tree := Build(permissionList())
	tree, _ = tree.UpdatePermissions("zones", []string{"zones-v", "zones-d"})
	tree, _ = tree.UpdatePermissions("roles", []string{"view", "preview", "roles-unknown"})

	rows := tree.ExportForAPI()
	require.Len(t, rows, 5)

	byID := map[string]ExportedMenu{}
	for _, r := range rows {
		byID[r.ID] = r
	}

	assert.Equal(t, PermissionFlags{CanView: true, CanDelete: true}, byID["zones"].Permissions)
	// only exact action names count; "preview" grants nothing
	assert.Equal(t, PermissionFlags{CanView: true}, byID["roles"].Permissions)
	assert.Equal(t, PermissionFlags{}, byID["users"].Permissions)
	assert.Equal(t, "Zones", byID["zones"].Name)
}

func TestExportForAPI_SelectAllGrantsEverything(t *testing.T) {
	rows := Build(permissionList()).SelectAll().ExportForAPI()

	for _, r := range rows {
		assert.Equal(t, PermissionFlags{CanView: true, CanCreate: true, CanUpdate: true, CanDelete: true}, r.Permissions, r.ID)
	}
}

func TestFlattenForest_FixesParentIDs(t *testing.T) {
	forest := []*TreeNode{
		{Node: Node{ID: "a", ParentID: "bogus"}, Children: []*TreeNode{
			{Node: Node{ID: "a1"}},
		}},
		nil,
		{Node: Node{ID: "b"}},
	}

	flat := FlattenForest(forest)
	require.Len(t, flat, 3)
	assert.Equal(t, "", flat[0].ParentID)
	assert.Equal(t, "a", flat[1].ParentID)
	assert.Equal(t, "b", flat[2].ID)
}

func TestForest_JSONShape(t *testing.T) {
	raw, err := json.Marshal(Build(sampleList()).Forest())
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "2", decoded[0]["id"])
	assert.Equal(t, []any{}, decoded[1]["children"])
	assert.Equal(t, []any{}, decoded[1]["selectedPermissions"])
}

func TestParseAction(t *testing.T) {
	a, ok := ParseAction(" View ")
	assert.True(t, ok)
	assert.Equal(t, ActionView, a)

	_, ok = ParseAction("canview")
	assert.False(t, ok)
}
