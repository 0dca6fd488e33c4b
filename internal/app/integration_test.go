package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/riadice/riadice-backend/config"
	"github.com/riadice/riadice-backend/internal/app/controller"
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/repository"
	"github.com/riadice/riadice-backend/internal/app/service"
	"github.com/riadice/riadice-backend/internal/db"
	"github.com/riadice/riadice-backend/internal/middleware"
	"github.com/riadice/riadice-backend/internal/router"
	"github.com/riadice/riadice-backend/internal/storage"
	"github.com/riadice/riadice-backend/pkg/redis"
	"github.com/riadice/riadice-backend/pkg/util"
	"github.com/riadice/riadice-backend/pkg/whatsapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ownerEmail    = "owner@riadice.ma"
	ownerPassword = "password123"
)

func TestMain(m *testing.M) {
	util.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	require.NoError(t, db.BootstrapAdmin(testDB, ownerEmail, ownerPassword))

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode, Environment: "test"},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Auth:   config.AuthConfig{LoginPath: "/auth"},
	}

	identityRepo := repository.NewIdentityRepository(testDB)
	roleRepo := repository.NewRoleRepository(testDB)
	profileRepo := repository.NewProfileRepository(testDB)
	menuRepo := repository.NewResourceRepository[model.MenuItem](testDB, "menu_items")
	specialRepo := repository.NewResourceRepository[model.Special](testDB, "specials")
	galleryRepo := repository.NewResourceRepository[model.GalleryImage](testDB, "gallery_images")
	reservationRepo := repository.NewReservationRepository(testDB)

	roleService := service.NewRoleService(roleRepo)
	authService := service.NewAuthService(identityRepo, roleRepo, profileRepo, roleService,
		redis.NewMemoryRevocationStore(), service.AuthConfig{
			JWTSecret:     "integration-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: time.Hour,
		})
	reservationService := service.NewReservationService(reservationRepo)

	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)

	composer, err := whatsapp.NewComposer("wa.me", "+212 693 254 604", nil)
	require.NoError(t, err)

	reservationController := controller.NewReservationController(reservationService)
	controllers := router.Controllers{
		Auth:     controller.NewAuthController(authService),
		Menu:     controller.NewResourceController(service.NewResourceService(menuRepo, service.MenuItemDescriptor()), "menu item"),
		Specials: controller.NewResourceController(service.NewResourceService(specialRepo, service.SpecialDescriptor()), "special"),
		Gallery:  controller.NewResourceController(service.NewResourceService(galleryRepo, service.GalleryImageDescriptor()), "gallery image"),
		Reservations: controller.NewResourceController(
			service.NewResourceService[model.Reservation](reservationRepo, service.ReservationDescriptor()),
			"reservation",
		).WithListExtras(reservationController.Summary),
		ReservationFlow: reservationController,
		Staff:           controller.NewStaffController(service.NewStaffService(testDB, authService, roleRepo, profileRepo, identityRepo)),
		Settings:        controller.NewSettingController(service.NewSettingService(repository.NewSettingRepository(testDB))),
		Upload:          controller.NewUploadController(service.NewUploadService(store, 1<<20), 1<<20),
		Dashboard:       controller.NewDashboardController(service.NewDashboardService(menuRepo, specialRepo, galleryRepo, reservationRepo)),
		ReservationLink: controller.NewReservationLinkController(composer),
	}

	authMiddleware := middleware.NewAuthMiddleware(authService, roleService, cfg.Auth.LoginPath)
	engine := router.NewRouter(controllers, authMiddleware, cfg, "").Setup()

	return &TestServer{Router: engine, DB: testDB}
}

func (ts *TestServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func (ts *TestServer) login(t *testing.T, email, password string) string {
	t.Helper()
	w, resp := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tokens := resp["tokens"].(map[string]interface{})
	return tokens["access_token"].(string)
}

func publicMenuNames(t *testing.T, ts *TestServer) []string {
	t.Helper()
	w, resp := ts.do(t, http.MethodGet, "/api/v1/public/menu", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	names := []string{}
	for _, item := range resp["items"].([]interface{}) {
		names = append(names, item.(map[string]interface{})["name"].(string))
	}
	return names
}

func TestCompleteBackOfficeJourney(t *testing.T) {
	ts := setupIntegrationTest(t)

	t.Log("Step 1: anonymous requests are sent to sign in")
	w, resp := ts.do(t, http.MethodGet, "/api/v1/admin/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/auth", resp["redirect_to"])

	t.Log("Step 2: owner signs in")
	adminToken := ts.login(t, ownerEmail, ownerPassword)

	w, resp = ts.do(t, http.MethodGet, "/api/v1/auth/me", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", resp["user"].(map[string]interface{})["role"])

	t.Log("Step 3: owner publishes a daily special")
	w, resp = ts.do(t, http.MethodPost, "/api/v1/admin/menu-items", adminToken, map[string]interface{}{
		"name":        "Couscous Royal",
		"category":    "daily_specials",
		"price":       120,
		"is_special":  true,
		"special_day": "friday",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	couscousID := resp["id"].(string)
	assert.Equal(t, true, resp["is_active"])

	assert.Contains(t, publicMenuNames(t, ts), "Couscous Royal")

	t.Log("Step 4: hiding the item removes it from the public menu")
	w, _ = ts.do(t, http.MethodPatch, "/api/v1/admin/menu-items/"+couscousID+"/toggle", adminToken, map[string]interface{}{
		"field": "is_active",
		"value": false,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, publicMenuNames(t, ts), "Couscous Royal")

	w, resp = ts.do(t, http.MethodGet, "/api/v1/admin/menu-items", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp["count"])

	t.Log("Step 5: invalid patches are rejected per field")
	w, resp = ts.do(t, http.MethodPatch, "/api/v1/admin/menu-items/"+couscousID, adminToken, map[string]interface{}{
		"price": -5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp["fields"], "price")

	t.Log("Step 6: owner creates a staff account")
	w, _ = ts.do(t, http.MethodPost, "/api/v1/admin/staff", adminToken, map[string]interface{}{
		"email":      "youssef@riadice.ma",
		"password":   "password123",
		"first_name": "Youssef",
		"role":       "staff",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	staffToken := ts.login(t, "youssef@riadice.ma", "password123")

	t.Log("Step 7: staff manages reservations but not settings")
	w, resp = ts.do(t, http.MethodPost, "/api/v1/admin/reservations", staffToken, map[string]interface{}{
		"customer_name":    "Amina",
		"customer_phone":   "+212600000000",
		"reservation_date": "2025-09-08",
		"reservation_time": "19:00",
		"number_of_guests": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reservationID := resp["id"].(string)
	assert.Equal(t, "pending", resp["status"])

	w, resp = ts.do(t, http.MethodPatch, "/api/v1/admin/reservations/"+reservationID+"/status", staffToken, map[string]string{
		"status": "confirmed",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", resp["status"])

	w, _ = ts.do(t, http.MethodPatch, "/api/v1/admin/reservations/"+reservationID+"/status", staffToken, map[string]string{
		"status": "pending",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(t, http.MethodGet, "/api/v1/admin/settings", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = ts.do(t, http.MethodGet, "/api/v1/admin/staff", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	t.Log("Step 8: owner edits contact settings shown publicly")
	w, _ = ts.do(t, http.MethodPut, "/api/v1/admin/settings/contact_info", adminToken, map[string]interface{}{
		"value": map[string]string{"phone": "+212693254604", "address": "Marrakech"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, resp = ts.do(t, http.MethodGet, "/api/v1/public/settings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, resp["settings"], "contact_info")

	t.Log("Step 9: dashboard reflects the changes")
	w, resp = ts.do(t, http.MethodGet, "/api/v1/admin/dashboard", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), resp["active_menu_items"])
	assert.Equal(t, float64(0), resp["pending_reservations"])
	assert.Len(t, resp["recent_reservations"], 1)
}

func TestStaffDemotionAppliesToNextRequest(t *testing.T) {
	ts := setupIntegrationTest(t)
	adminToken := ts.login(t, ownerEmail, ownerPassword)

	w, resp := ts.do(t, http.MethodPost, "/api/v1/admin/staff", adminToken, map[string]interface{}{
		"email":    "second@riadice.ma",
		"password": "password123",
		"role":     "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	secondID := resp["user_id"].(string)
	secondToken := ts.login(t, "second@riadice.ma", "password123")

	w, _ = ts.do(t, http.MethodGet, "/api/v1/admin/settings", secondToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = ts.do(t, http.MethodPatch, "/api/v1/admin/staff/"+secondID+"/role", adminToken, map[string]string{
		"role": "staff",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = ts.do(t, http.MethodGet, "/api/v1/admin/settings", secondToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReservationLink(t *testing.T) {
	ts := setupIntegrationTest(t)

	w, resp := ts.do(t, http.MethodGet,
		"/api/v1/public/reservation-link?guests=4&time=19:00&date=2025-09-08&name=Amina", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	link, err := url.Parse(resp["url"].(string))
	require.NoError(t, err)
	assert.Equal(t, "wa.me", link.Host)
	assert.Equal(t, "/212693254604", link.Path)

	text := link.Query().Get("text")
	for _, want := range []string{"4", "19:00", "2025-09-08", "Amina"} {
		assert.Contains(t, text, want)
	}

	w, _ = ts.do(t, http.MethodGet, "/api/v1/public/reservation-link?guests=zero", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/reserve?guests=2", nil)
	rec := httptest.NewRecorder()
	ts.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "https://wa.me/212693254604?text=")
}
