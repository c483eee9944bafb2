package menus_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	menusdomain "github.com/abenfraj/menufique-sub001/internal/domain/menus"
	"github.com/abenfraj/menufique-sub001/internal/domain/users"
	"github.com/abenfraj/menufique-sub001/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	router http.Handler
	owner  users.User
	other  users.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenTestDB(t)

	owner := users.User{Name: "Owner", Email: "owner@example.com", Plan: users.PlanPro}
	require.NoError(t, db.Create(&owner).Error)
	other := users.User{Name: "Other", Email: "other@example.com", Plan: users.PlanPro}
	require.NoError(t, db.Create(&other).Error)

	return &fixture{
		db:     db,
		router: testutil.NewServer(t, db, &testutil.RecordingMailer{}),
		owner:  owner,
		other:  other,
	}
}

func (f *fixture) seedMenu(t *testing.T, userID uint) menusdomain.Menu {
	t.Helper()
	m := menusdomain.Menu{
		UserID:    userID,
		Name:      "Test Menu",
		Snapshots: menusdomain.SnapshotList{},
	}
	require.NoError(t, f.db.Create(&m).Error)
	_, err := menusdomain.EnsureSlug(f.db, &m)
	require.NoError(t, err)
	return m
}

func (f *fixture) seedCategory(t *testing.T, menuID uint, name string, order int) menusdomain.Category {
	t.Helper()
	cat := menusdomain.Category{MenuID: menuID, Name: name, SortOrder: order}
	require.NoError(t, f.db.Create(&cat).Error)
	return cat
}

func (f *fixture) do(t *testing.T, user users.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", testutil.BearerToken(t, user.ID, user.Email))

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data, "expected data envelope, got %s", w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestCreateCategoryAssignsNextSortOrder(t *testing.T) {
	f := newFixture(t)
	m := f.seedMenu(t, f.owner.ID)

	var orders []int
	for _, name := range []string{"Starters", "Mains", "Desserts"} {
		w := f.do(t, f.owner, http.MethodPost, fmt.Sprintf("/api/menus/%d/categories", m.ID),
			map[string]string{"name": name})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var cat struct {
			SortOrder int             `json:"sort_order"`
			Dishes    json.RawMessage `json:"dishes"`
		}
		decodeData(t, w, &cat)
		orders = append(orders, cat.SortOrder)
		assert.JSONEq(t, "[]", string(cat.Dishes))
	}

	assert.Equal(t, []int{0, 1, 2}, orders)
}

func TestCreateCategoryContinuesFromExistingMax(t *testing.T) {
	f := newFixture(t)
	m := f.seedMenu(t, f.owner.ID)
	f.seedCategory(t, m.ID, "Existing", 7)

	w := f.do(t, f.owner, http.MethodPost, fmt.Sprintf("/api/menus/%d/categories", m.ID),
		map[string]string{"name": "New"})
	require.Equal(t, http.StatusCreated, w.Code)

	var cat struct {
		SortOrder int `json:"sort_order"`
	}
	decodeData(t, w, &cat)
	assert.Equal(t, 8, cat.SortOrder)
}

func TestReorderCategories(t *testing.T) {
	f := newFixture(t)
	m := f.seedMenu(t, f.owner.ID)
	a := f.seedCategory(t, m.ID, "A", 0)
	b := f.seedCategory(t, m.ID, "B", 1)
	c := f.seedCategory(t, m.ID, "C", 2)

	w := f.do(t, f.owner, http.MethodPut, fmt.Sprintf("/api/menus/%d/categories/reorder", m.ID),
		map[string][]uint{"category_ids": {c.ID, a.ID, b.ID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for i, id := range []uint{c.ID, a.ID, b.ID} {
		var cat menusdomain.Category
		require.NoError(t, f.db.First(&cat, id).Error)
		assert.Equal(t, i, cat.SortOrder, "category %d", id)
	}
}

func TestReorderCategoriesIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	m := f.seedMenu(t, f.owner.ID)
	a := f.seedCategory(t, m.ID, "A", 0)
	b := f.seedCategory(t, m.ID, "B", 1)

	foreignMenu := f.seedMenu(t, f.other.ID)
	foreign := f.seedCategory(t, foreignMenu.ID, "Foreign", 0)

	w := f.do(t, f.owner, http.MethodPut, fmt.Sprintf("/api/menus/%d/categories/reorder", m.ID),
		map[string][]uint{"category_ids": {b.ID, foreign.ID, a.ID}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// no order changed
	for id, want := range map[uint]int{a.ID: 0, b.ID: 1, foreign.ID: 0} {
		var cat menusdomain.Category
		require.NoError(t, f.db.First(&cat, id).Error)
		assert.Equal(t, want, cat.SortOrder)
	}
}

func TestReorderRejectsEmptyList(t *testing.T) {
	f := newFixture(t)
	m := f.seedMenu(t, f.owner.ID)

	w := f.do(t, f.owner, http.MethodPut, fmt.Sprintf("/api/menus/%d/categories/reorder", m.ID),
		map[string][]uint{"category_ids": {}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublishToggleIsIdempotent(t *testing.T) {
	f := newFixture(t)
	m := f.seedMenu(t, f.owner.ID)

	for i := 0; i < 2; i++ {
		w := f.do(t, f.owner, http.MethodPut, fmt.Sprintf("/api/menus/%d/publish", m.ID),
			map[string]bool{"published": true})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var out struct {
			Published bool `json:"published"`
		}
		decodeData(t, w, &out)
		assert.True(t, out.Published)
	}

	var stored menusdomain.Menu
	require.NoError(t, f.db.First(&stored, m.ID).Error)
	assert.True(t, stored.Published)

	w := f.do(t, f.owner, http.MethodPut, fmt.Sprintf("/api/menus/%d/publish", m.ID),
		map[string]bool{"published": false})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, f.db.First(&stored, m.ID).Error)
	assert.False(t, stored.Published)
}

func TestSnapshotSaveAndRestore(t *testing.T) {
	f := newFixture(t)
	m := f.seedMenu(t, f.owner.ID)
	require.NoError(t, f.db.Model(&m).Update("design_html", "<main>v1</main>").Error)

	w := f.do(t, f.owner, http.MethodPost, fmt.Sprintf("/api/menus/%d/snapshots", m.ID),
		map[string]string{"label": "first draft"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var snap struct {
		ID string `json:"id"`
	}
	decodeData(t, w, &snap)
	require.NotEmpty(t, snap.ID)

	// move the live design on
	require.NoError(t, f.db.Model(&m).Update("design_html", "<main>v2</main>").Error)

	w = f.do(t, f.owner, http.MethodPost,
		fmt.Sprintf("/api/menus/%d/snapshots/%s/restore", m.ID, snap.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var restored struct {
		DesignHTML string `json:"design_html"`
	}
	decodeData(t, w, &restored)
	assert.Equal(t, "<main>v1</main>", restored.DesignHTML)

	var stored menusdomain.Menu
	require.NoError(t, f.db.First(&stored, m.ID).Error)
	assert.Equal(t, "<main>v1</main>", stored.DesignHTML)
	assert.Len(t, stored.Snapshots, 1, "restore must not shrink the snapshot list")
}

func TestSnapshotRestoreUnknownID(t *testing.T) {
	f := newFixture(t)
	m := f.seedMenu(t, f.owner.ID)

	w := f.do(t, f.owner, http.MethodPost,
		fmt.Sprintf("/api/menus/%d/snapshots/%s/restore", m.ID, "nope"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSnapshotRestoreOnForeignMenuReads404(t *testing.T) {
	f := newFixture(t)
	m := f.seedMenu(t, f.other.ID)

	w := f.do(t, f.owner, http.MethodPost,
		fmt.Sprintf("/api/menus/%d/snapshots/%s/restore", m.ID, "whatever"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOwnershipCheck(t *testing.T) {
	f := newFixture(t)
	m := f.seedMenu(t, f.other.ID)

	// mutating someone else's menu: 403, record untouched
	w := f.do(t, f.owner, http.MethodPut, fmt.Sprintf("/api/menus/%d/publish", m.ID),
		map[string]bool{"published": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored menusdomain.Menu
	require.NoError(t, f.db.First(&stored, m.ID).Error)
	assert.False(t, stored.Published)

	// nonexistent menu: 404
	w = f.do(t, f.owner, http.MethodPut, "/api/menus/99999/publish",
		map[string]bool{"published": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// no token at all: 401
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/menus/%d/publish", m.ID), nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFreePlanMenuLimit(t *testing.T) {
	f := newFixture(t)
	free := users.User{Name: "Free", Email: "free@example.com", Plan: users.PlanFree}
	require.NoError(t, f.db.Create(&free).Error)

	w := f.do(t, free, http.MethodPost, "/api/menus", map[string]string{"name": "First"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, free, http.MethodPost, "/api/menus", map[string]string{"name": "Second"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFreePlanSnapshotLimit(t *testing.T) {
	f := newFixture(t)
	free := users.User{Name: "Free", Email: "free@example.com", Plan: users.PlanFree}
	require.NoError(t, f.db.Create(&free).Error)
	m := f.seedMenu(t, free.ID)

	for i := 0; i < 3; i++ {
		w := f.do(t, free, http.MethodPost, fmt.Sprintf("/api/menus/%d/snapshots", m.ID),
			map[string]string{"label": fmt.Sprintf("v%d", i+1)})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := f.do(t, free, http.MethodPost, fmt.Sprintf("/api/menus/%d/snapshots", m.ID),
		map[string]string{"label": "one too many"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored menusdomain.Menu
	require.NoError(t, f.db.First(&stored, m.ID).Error)
	assert.Len(t, stored.Snapshots, 3)
}

func TestCreateMenuGeneratesStableSlug(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, f.owner, http.MethodPost, "/api/menus", map[string]string{"name": "La Bella Pizzeria"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		ID   uint   `json:"id"`
		Slug string `json:"slug"`
	}
	decodeData(t, w, &out)
	assert.Equal(t, fmt.Sprintf("la-bella-pizzeria-%d", out.ID), out.Slug)

	// renaming keeps the slug
	w = f.do(t, f.owner, http.MethodPut, fmt.Sprintf("/api/menus/%d", out.ID),
		map[string]string{"name": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)

	var stored menusdomain.Menu
	require.NoError(t, f.db.First(&stored, out.ID).Error)
	assert.Equal(t, fmt.Sprintf("la-bella-pizzeria-%d", out.ID), stored.Slug)
}
