package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citylinker/backend/internal/adapters/memory"
	"github.com/citylinker/backend/internal/adapters/security"
	"github.com/citylinker/backend/internal/adapters/session"
	"github.com/citylinker/backend/internal/api/handlers"
	"github.com/citylinker/backend/internal/api/middleware"
	"github.com/citylinker/backend/internal/api/routes"
	"github.com/citylinker/backend/internal/application/services"
	"github.com/citylinker/backend/internal/domain/entities"
)

const cookieName = "citylinker.sid"

type app struct {
	server   *httptest.Server
	storage  *services.Storage
	category *entities.Category
	admin    *entities.User
}

func newApp(t *testing.T) *app {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	storage := services.NewStorage(store.Users(), store.Categories(), store.Publications(), store.Reviews(), store.Stats())
	sessions := services.NewSessionService(session.NewMemoryStore(), 0)
	authService := services.NewAuthService(storage, security.NewBcryptHasher(4))
	publications := services.NewPublicationService(storage)

	admin, _, err := authService.EnsureAdmin(ctx, "admin@citylinker.cd", "admin123", "Admin", "CityLinker")
	require.NoError(t, err)
	category, err := storage.CreateCategory(ctx, &entities.Category{Name: "Technologie", Icon: "sparkles"})
	require.NoError(t, err)

	router := routes.NewRouter(
		middleware.NewAuth(sessions, storage, cookieName),
		handlers.NewAuthHandler(authService, sessions, handlers.CookieConfig{Name: cookieName}, nil),
		handlers.NewPublicHandler(storage, publications, nil),
		handlers.NewPublicationHandler(storage, publications),
		handlers.NewAdminHandler(storage, publications, services.NewUserService(storage), nil),
		[]string{"http://localhost:5173"},
		nil,
	)

	server := httptest.NewServer(router.SetupRoutes())
	t.Cleanup(server.Close)
	return &app{server: server, storage: storage, category: category, admin: admin}
}

// client is a browser with its own cookie jar
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func (a *app) client(t *testing.T) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: a.server.URL, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (c *client) message(method, path string, body any) (int, string) {
	c.t.Helper()
	var out struct {
		Message string `json:"message"`
	}
	status := c.do(method, path, body, &out)
	return status, out.Message
}

func (a *app) login(t *testing.T, email, password string) *client {
	t.Helper()
	c := a.client(t)
	status := c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, nil)
	require.Equal(t, http.StatusOK, status)
	return c
}

func (a *app) register(t *testing.T, email string, role entities.Role) *client {
	t.Helper()
	c := a.client(t)
	status := c.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email": email, "password": "secret1", "firstName": "Jean", "lastName": "Kabila", "role": role,
	}, nil)
	require.Equal(t, http.StatusCreated, status)
	return c
}

type userBody struct {
	User map[string]any `json:"user"`
}

func TestAuthFlow(t *testing.T) {
	a := newApp(t)
	c := a.client(t)

	var registered userBody
	status := c.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "Awa@Example.cd", "password": "secret1", "firstName": "Awa", "lastName": "Mwamba",
	}, &registered)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "awa@example.cd", registered.User["email"])
	assert.Equal(t, "client", registered.User["role"])
	assert.NotContains(t, registered.User, "password")

	var me userBody
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/auth/me", nil, &me))
	assert.Equal(t, registered.User["id"], me.User["id"])

	status, msg := c.message(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "awa@example.cd", "password": "secret1", "firstName": "Awa", "lastName": "Mwamba",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, services.DuplicateEmailMessage, msg)

	status, msg = c.message(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Déconnecté avec succès", msg)

	status, msg = c.message(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, middleware.UnauthenticatedMessage, msg)
}

func TestLogin(t *testing.T) {
	a := newApp(t)
	a.register(t, "biz@example.cd", entities.RoleBusiness)

	t.Run("sets an http-only session cookie", func(t *testing.T) {
		raw, _ := json.Marshal(map[string]string{"email": "biz@example.cd", "password": "secret1"})
		resp, err := http.Post(a.server.URL+"/api/auth/login", "application/json", bytes.NewReader(raw))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var cookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == cookieName {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, 7*24*3600, cookie.MaxAge)

		var body userBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotContains(t, body.User, "password")
	})

	tests := []struct {
		name   string
		body   map[string]string
		status int
		msg    string
	}{
		{"wrong password", map[string]string{"email": "biz@example.cd", "password": "nope"}, http.StatusUnauthorized, services.InvalidCredentialsMessage},
		{"unknown email", map[string]string{"email": "ghost@example.cd", "password": "secret1"}, http.StatusUnauthorized, services.InvalidCredentialsMessage},
		{"missing password", map[string]string{"email": "biz@example.cd"}, http.StatusBadRequest, handlers.IncompleteCredentialsMessage},
		{"malformed email", map[string]string{"email": "biz", "password": "secret1"}, http.StatusBadRequest, handlers.IncompleteCredentialsMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := a.client(t).message(http.MethodPost, "/api/auth/login", tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	a := newApp(t)
	c := a.client(t)

	status, msg := c.message(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "x@example.cd", "password": "123", "firstName": "Jo", "lastName": "Ka",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, msg, "password")

	status, _ = c.message(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "x@example.cd", "password": "secret1", "firstName": "Jo", "lastName": "Ka", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFieldLengthsMatchColumns(t *testing.T) {
	a := newApp(t)
	anonymous := a.client(t)

	status, msg := anonymous.message(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "long@example.cd", "password": "secret1", "firstName": "Jean", "lastName": "Kabila",
		"phone": strings.Repeat("0", 21),
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Le champ phone doit contenir au plus 20 caractères", msg)

	business := a.register(t, "biz@example.cd", entities.RoleBusiness)

	status, msg = business.message(http.MethodPatch, "/api/auth/profile", map[string]any{
		"businessWebsite": "https://" + strings.Repeat("a", 250),
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, msg, "businessWebsite")

	publication := map[string]any{
		"categoryId": a.category.ID, "type": "service", "title": "Maintenance informatique",
		"description": "Contrat de maintenance pour vos ordinateurs", "price": strings.Repeat("9", 51),
	}
	status, msg = business.message(http.MethodPost, "/api/publications", publication)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Le champ price doit contenir au plus 50 caractères", msg)

	publication["price"] = strings.Repeat("9", 50)
	publication["location"] = strings.Repeat("K", 256)
	status, msg = business.message(http.MethodPost, "/api/publications", publication)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, msg, "location")

	delete(publication, "location")
	status, _ = business.message(http.MethodPost, "/api/publications", publication)
	assert.Equal(t, http.StatusCreated, status)
}

func TestProfileIgnoresPrivilegedFields(t *testing.T) {
	a := newApp(t)
	c := a.register(t, "client@example.cd", entities.RoleClient)

	var body userBody
	status := c.do(http.MethodPatch, "/api/auth/profile", map[string]any{
		"firstName": "Awatif", "role": "admin", "businessVerified": true, "email": "hijack@example.cd",
	}, &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Awatif", body.User["firstName"])
	assert.Equal(t, "client", body.User["role"])
	assert.Equal(t, false, body.User["businessVerified"])
	assert.Equal(t, "client@example.cd", body.User["email"])
}

type publicationBody struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Status          string  `json:"status"`
	Views           int     `json:"views"`
	AverageRating   float64 `json:"averageRating"`
	ReviewCount     int     `json:"reviewCount"`
	RejectionReason *string `json:"rejectionReason"`
	User            struct {
		FirstName string `json:"firstName"`
	} `json:"user"`
}

func contains(list []publicationBody, id int64) bool {
	for _, p := range list {
		if p.ID == id {
			return true
		}
	}
	return false
}

func TestModerationScenario(t *testing.T) {
	a := newApp(t)
	business := a.register(t, "biz@example.cd", entities.RoleBusiness)
	customer := a.register(t, "client@example.cd", entities.RoleClient)
	admin := a.login(t, "admin@citylinker.cd", "admin123")
	anonymous := a.client(t)

	var created publicationBody
	status := business.do(http.MethodPost, "/api/publications", map[string]any{
		"categoryId": a.category.ID, "type": "service", "title": "Maintenance informatique",
		"description": "Contrat de maintenance pour vos ordinateurs",
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "pending", created.Status)

	var pending []publicationBody
	require.Equal(t, http.StatusOK, admin.do(http.MethodGet, "/api/admin/publications/pending", nil, &pending))
	assert.True(t, contains(pending, created.ID))

	var public []publicationBody
	require.Equal(t, http.StatusOK, anonymous.do(http.MethodGet, "/api/publications", nil, &public))
	assert.False(t, contains(public, created.ID))

	var moderated publicationBody
	path := "/api/admin/publications/" + itoa(created.ID)
	require.Equal(t, http.StatusOK, admin.do(http.MethodPatch, path+"/status", map[string]string{"status": "approved"}, &moderated))
	assert.Equal(t, "approved", moderated.Status)

	public = nil
	require.Equal(t, http.StatusOK, anonymous.do(http.MethodGet, "/api/publications", nil, &public))
	require.Len(t, public, 1)
	assert.Equal(t, created.ID, public[0].ID)
	assert.Equal(t, 0.0, public[0].AverageRating)
	assert.Equal(t, 0, public[0].ReviewCount)
	assert.Equal(t, "Jean", public[0].User.FirstName)

	reviewPath := "/api/publications/" + itoa(created.ID) + "/reviews"
	require.Equal(t, http.StatusCreated, customer.do(http.MethodPost, reviewPath, map[string]any{"rating": 5, "comment": "Excellent"}, nil))

	var detail publicationBody
	require.Equal(t, http.StatusOK, anonymous.do(http.MethodGet, "/api/publications/"+itoa(created.ID), nil, &detail))
	assert.Equal(t, 5.0, detail.AverageRating)
	assert.Equal(t, 1, detail.ReviewCount)

	var edited publicationBody
	require.Equal(t, http.StatusOK, business.do(http.MethodPatch, "/api/publications/"+itoa(created.ID),
		map[string]any{"title": "Maintenance et réseaux", "status": "approved"}, &edited))
	assert.Equal(t, "pending", edited.Status)
	assert.Equal(t, "Maintenance et réseaux", edited.Title)

	public = nil
	require.Equal(t, http.StatusOK, anonymous.do(http.MethodGet, "/api/publications", nil, &public))
	assert.False(t, contains(public, created.ID))
}

func TestModerationRejectsUnknownStatus(t *testing.T) {
	a := newApp(t)
	business := a.register(t, "biz@example.cd", entities.RoleBusiness)
	admin := a.login(t, "admin@citylinker.cd", "admin123")

	var created publicationBody
	require.Equal(t, http.StatusCreated, business.do(http.MethodPost, "/api/publications", map[string]any{
		"categoryId": a.category.ID, "type": "article", "title": "Article", "description": "Un article assez long",
	}, &created))
	path := "/api/admin/publications/" + itoa(created.ID) + "/status"

	for _, body := range []map[string]string{{"status": "pending"}, {"status": "published"}, {}} {
		status, msg := admin.message(http.MethodPatch, path, body)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, services.InvalidStatusMessage, msg)
	}

	var rejected publicationBody
	require.Equal(t, http.StatusOK, admin.do(http.MethodPatch, path, map[string]string{"status": "rejected", "rejectionReason": "Hors sujet"}, &rejected))
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "Hors sujet", *rejected.RejectionReason)

	status, _ := admin.message(http.MethodPatch, "/api/admin/publications/999/status", map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRoleGuards(t *testing.T) {
	a := newApp(t)
	business := a.register(t, "biz@example.cd", entities.RoleBusiness)
	customer := a.register(t, "client@example.cd", entities.RoleClient)
	anonymous := a.client(t)

	var created publicationBody
	require.Equal(t, http.StatusCreated, business.do(http.MethodPost, "/api/publications", map[string]any{
		"categoryId": a.category.ID, "type": "service", "title": "Service", "description": "Une description détaillée",
	}, &created))
	id := itoa(created.ID)

	tests := []struct {
		name   string
		c      *client
		method string
		path   string
		body   any
		status int
		msg    string
	}{
		{"anonymous create", anonymous, http.MethodPost, "/api/publications", map[string]any{}, http.StatusUnauthorized, middleware.UnauthenticatedMessage},
		{"client create", customer, http.MethodPost, "/api/publications", map[string]any{}, http.StatusForbidden, middleware.ForbiddenMessage},
		{"business reviews", business, http.MethodPost, "/api/publications/" + id + "/reviews", map[string]any{"rating": 4}, http.StatusForbidden, middleware.ForbiddenMessage},
		{"business admin stats", business, http.MethodGet, "/api/admin/stats", nil, http.StatusForbidden, middleware.ForbiddenMessage},
		{"client business stats", customer, http.MethodGet, "/api/business/stats", nil, http.StatusForbidden, middleware.ForbiddenMessage},
		{"stranger edit", customer, http.MethodPatch, "/api/publications/" + id, map[string]any{"title": "Piraté"}, http.StatusForbidden, services.NotOwnerMessage},
		{"stranger delete", customer, http.MethodDelete, "/api/publications/" + id, nil, http.StatusForbidden, services.NotOwnerMessage},
		{"missing publication", business, http.MethodDelete, "/api/publications/999", nil, http.StatusNotFound, services.PublicationNotFoundMessage},
		{"non numeric id", business, http.MethodDelete, "/api/publications/abc", nil, http.StatusBadRequest, handlers.InvalidIDMessage},
		{"review out of range", customer, http.MethodPost, "/api/publications/" + id + "/reviews", map[string]any{"rating": 6}, http.StatusBadRequest, "Le champ rating doit être inférieur ou égal à 5"},
		{"review missing publication", customer, http.MethodPost, "/api/publications/999/reviews", map[string]any{"rating": 4}, http.StatusNotFound, services.PublicationNotFoundMessage},
		{"unknown category", business, http.MethodPost, "/api/publications", map[string]any{
			"categoryId": 999, "type": "service", "title": "Titre", "description": "Une description détaillée",
		}, http.StatusBadRequest, services.InvalidCategoryMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := tt.c.message(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
		})
	}

	status, msg := business.message(http.MethodDelete, "/api/publications/"+id, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Publication supprimée", msg)
}

func TestPublicCatalogue(t *testing.T) {
	a := newApp(t)
	business := a.register(t, "biz@example.cd", entities.RoleBusiness)
	admin := a.login(t, "admin@citylinker.cd", "admin123")
	anonymous := a.client(t)

	var ids []int64
	for _, title := range []string{"Laptop HP Core i5", "Réparation téléphones", "Cyber café"} {
		var created publicationBody
		require.Equal(t, http.StatusCreated, business.do(http.MethodPost, "/api/publications", map[string]any{
			"categoryId": a.category.ID, "type": "announcement", "title": title, "description": "Au centre-ville de Lubumbashi",
		}, &created))
		require.Equal(t, http.StatusOK, admin.do(http.MethodPatch, "/api/admin/publications/"+itoa(created.ID)+"/status",
			map[string]string{"status": "approved"}, nil))
		ids = append(ids, created.ID)
	}

	var first, second publicationBody
	require.Equal(t, http.StatusOK, anonymous.do(http.MethodGet, "/api/publications/"+itoa(ids[1]), nil, &first))
	require.Equal(t, http.StatusOK, anonymous.do(http.MethodGet, "/api/publications/"+itoa(ids[1]), nil, &second))
	assert.Equal(t, 0, first.Views)
	assert.Equal(t, 1, second.Views)

	var trending []publicationBody
	require.Equal(t, http.StatusOK, anonymous.do(http.MethodGet, "/api/publications/trending?limit=2", nil, &trending))
	require.Len(t, trending, 2)
	assert.Equal(t, ids[1], trending[0].ID)

	var results []publicationBody
	require.Equal(t, http.StatusOK, anonymous.do(http.MethodGet, "/api/publications/search?q=laptop&type=all&category="+itoa(a.category.ID), nil, &results))
	require.Len(t, results, 1)
	assert.Equal(t, ids[0], results[0].ID)

	status, _ := anonymous.message(http.MethodGet, "/api/publications/search?type=video", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var categories []struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.Equal(t, http.StatusOK, anonymous.do(http.MethodGet, "/api/categories", nil, &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, 3, categories[0].Count)

	var reviews []any
	require.Equal(t, http.StatusOK, anonymous.do(http.MethodGet, "/api/publications/"+itoa(ids[0])+"/reviews", nil, &reviews))
	assert.Empty(t, reviews)

	status, msg := anonymous.message(http.MethodGet, "/api/publications/999", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, services.PublicationNotFoundMessage, msg)

	var health map[string]any
	require.Equal(t, http.StatusOK, anonymous.do(http.MethodGet, "/api/health", nil, &health))
	assert.Equal(t, "ok", health["status"])
}

func TestAdminUserManagement(t *testing.T) {
	a := newApp(t)
	business := a.register(t, "biz@example.cd", entities.RoleBusiness)
	admin := a.login(t, "admin@citylinker.cd", "admin123")

	var me userBody
	require.Equal(t, http.StatusOK, business.do(http.MethodGet, "/api/auth/me", nil, &me))
	businessID := int64(me.User["id"].(float64))

	var users []map[string]any
	require.Equal(t, http.StatusOK, admin.do(http.MethodGet, "/api/admin/users", nil, &users))
	require.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "password")
	}

	var updated userBody
	require.Equal(t, http.StatusOK, admin.do(http.MethodPatch, "/api/admin/users/"+itoa(businessID),
		map[string]any{"businessVerified": true, "password": "overwritten", "email": "new@example.cd"}, &updated))
	assert.Equal(t, true, updated.User["businessVerified"])
	assert.Equal(t, "biz@example.cd", updated.User["email"])
	a.login(t, "biz@example.cd", "secret1")

	status, msg := admin.message(http.MethodDelete, "/api/admin/users/"+itoa(a.admin.ID), nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, services.SelfDeletionMessage, msg)

	var stats entities.AdminStats
	require.Equal(t, http.StatusOK, admin.do(http.MethodGet, "/api/admin/stats", nil, &stats))
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalBusinesses)

	status, msg = admin.message(http.MethodDelete, "/api/admin/users/"+itoa(businessID), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Utilisateur supprimé", msg)

	status, _ = business.message(http.MethodGet, "/api/business/stats", nil)
	assert.Equal(t, http.StatusForbidden, status, "a deleted account loses access on its next request")
}

func TestRoleChangeAppliesOnNextRequest(t *testing.T) {
	a := newApp(t)
	customer := a.register(t, "client@example.cd", entities.RoleClient)
	admin := a.login(t, "admin@citylinker.cd", "admin123")

	status, _ := customer.message(http.MethodGet, "/api/business/stats", nil)
	require.Equal(t, http.StatusForbidden, status)

	user, err := a.storage.GetUserByEmail(context.Background(), "client@example.cd")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, admin.do(http.MethodPatch, "/api/admin/users/"+itoa(user.ID), map[string]any{"role": "business"}, nil))

	var stats entities.BusinessStats
	require.Equal(t, http.StatusOK, customer.do(http.MethodGet, "/api/business/stats", nil, &stats))
	assert.Zero(t, stats.TotalViews)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
