package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/menu"
)

const flatMenus = `[
	{"id":"1","parentId":"","sortOrder":2,"name":"B"},
	{"id":"2","parentId":"","sortOrder":1,"name":"A","permissions":[
		{"id":"a-view","name":"View","action":"view"},
		{"id":"a-del","name":"Delete","action":"delete"}
	]},
	{"id":"3","parentId":"2","sortOrder":0,"name":"A1"}
]`

type envelope[T any] struct {
	ResponseStatus  int    `json:"responseStatus"`
	ResponseMessage string `json:"responseMessage"`
	Data            T      `json:"data"`
}

func newTestRouter() http.Handler {
	r := chi.NewRouter()
	NewMenuHandler(nil).Routes(r)
	return r
}

func post[T any](t *testing.T, h http.Handler, path, body string) (int, envelope[T]) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	assert.Equal(t, rec.Code, env.ResponseStatus)
	return rec.Code, env
}

func TestBuildTree(t *testing.T) {
	code, env := post[TreeResult](t, newTestRouter(), "/menus/tree", flatMenus)

	require.Equal(t, http.StatusOK, code)
	require.Len(t, env.Data.Tree, 2)
	assert.Equal(t, "A", env.Data.Tree[0].Name)
	require.Len(t, env.Data.Tree[0].Children, 1)
	assert.Equal(t, "A1", env.Data.Tree[0].Children[0].Name)
	assert.Equal(t, "B", env.Data.Tree[1].Name)
	assert.Empty(t, env.Data.Orphans)
	assert.Empty(t, env.Data.Duplicates)
}

func TestBuildTree_ReportsOrphans(t *testing.T) {
	code, env := post[TreeResult](t, newTestRouter(), "/menus/tree",
		`[{"id":"1"},{"id":"2","parentId":"ghost"}]`)

	require.Equal(t, http.StatusOK, code)
	assert.Len(t, env.Data.Tree, 1)
	assert.Equal(t, []string{"2"}, env.Data.Orphans)
}

func TestBuildTree_BadBody(t *testing.T) {
	code, env := post[any](t, newTestRouter(), "/menus/tree", `{"not":"a list"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.ResponseMessage, "invalid request body")

	code, env = post[any](t, newTestRouter(), "/menus/tree", ``)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "request body is required", env.ResponseMessage)
}

func TestFlatten(t *testing.T) {
	code, env := post[[]menu.Node](t, newTestRouter(), "/menus/flatten",
		`[{"id":"2","name":"A","children":[{"id":"3","name":"A1","children":[]}]},{"id":"1","name":"B","children":[]}]`)

	require.Equal(t, http.StatusOK, code)
	require.Len(t, env.Data, 3)
	assert.Equal(t, []string{"2", "3", "1"}, []string{env.Data[0].ID, env.Data[1].ID, env.Data[2].ID})
	assert.Equal(t, "2", env.Data[1].ParentID)
}

func TestFindAndPath(t *testing.T) {
	h := newTestRouter()

	code, node := post[menu.Node](t, h, "/menus/find/3", flatMenus)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "A1", node.Data.Name)

	code, _ = post[any](t, h, "/menus/find/9", flatMenus)
	assert.Equal(t, http.StatusNotFound, code)

	code, path := post[[]menu.Node](t, h, "/menus/path/3", flatMenus)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, path.Data, 2)
	assert.Equal(t, "2", path.Data[0].ID)
	assert.Equal(t, "3", path.Data[1].ID)

	code, _ = post[any](t, h, "/menus/path/9", flatMenus)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSelectAllAndClearAll(t *testing.T) {
	h := newTestRouter()

	code, env := post[[]*menu.TreeNode](t, h, "/roles/permissions/select-all", flatMenus)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"a-view", "a-del"}, env.Data[0].SelectedPermissions)

	code, env = post[[]*menu.TreeNode](t, h, "/roles/permissions/clear-all", flatMenus)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, env.Data[0].SelectedPermissions)
}

func TestUpdateAndExport(t *testing.T) {
	h := newTestRouter()

	code, env := post[[]*menu.TreeNode](t, h, "/roles/permissions/update/2",
		`{"menus":`+flatMenus+`,"selected":["a-del"]}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"a-del"}, env.Data[0].SelectedPermissions)

	code, _ = post[any](t, h, "/roles/permissions/update/404", `{"menus":`+flatMenus+`,"selected":[]}`)
	assert.Equal(t, http.StatusNotFound, code)

	selected := strings.Replace(flatMenus, `"name":"A",`, `"name":"A","selectedPermissions":["a-view"],`, 1)
	code, rows := post[[]menu.ExportedMenu](t, h, "/roles/permissions/export", selected)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, rows.Data, 3)
	assert.Equal(t, "2", rows.Data[0].ID)
	assert.Equal(t, menu.PermissionFlags{CanView: true}, rows.Data[0].Permissions)
	assert.Equal(t, menu.PermissionFlags{}, rows.Data[2].Permissions)
}
