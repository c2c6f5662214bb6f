package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbCounter int64

// setupApp builds a Fiber app backed by a fresh in-memory SQLite database,
// wired exactly like the production app.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	authService := services.NewAuthService(userRepo, "test_jwt_secret")
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(cartRepo)
	orderService := services.NewOrderService(orderRepo, nil)

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New()
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	api := app.Group("/api")
	authHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api)

	protected := api.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	return app, db
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// doJSON issues a request with an optional JSON body and bearer token and
// decodes the JSON response.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

func seedProduct(t *testing.T, db *gorm.DB, name string, priceCents int64) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, PriceCents: priceCents}
	require.NoError(t, repositories.NewGORMProductRepository(db).Create(product))
	return product
}

func TestHealthAndPublicCatalog(t *testing.T) {
	app, db := setupApp(t)
	seedProduct(t, db, "Keyboard", 7500)

	status, _ := doJSON(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	// The catalog needs no auth
	status, body := doJSON(t, app, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusOK, status)
	products := body["products"].([]interface{})
	require.Len(t, products, 1)
	first := products[0].(map[string]interface{})
	assert.Equal(t, "Keyboard", first["name"])
	assert.Equal(t, float64(7500), first["price_cents"])
}

func TestProtectedRoutesRejectMissingOrBadToken(t *testing.T) {
	app, _ := setupApp(t)

	for _, path := range []string{"/api/me", "/api/cart", "/api/orders"} {
		status, _ := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)

		status, _ = doJSON(t, app, http.MethodGet, path, "not.a.token", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}
}

func TestSignupValidationAndDuplicateEmail(t *testing.T) {
	app, db := setupApp(t)

	// Malformed signup never reaches the database
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Ada", "email": "not-an-email", "password": "pw123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["message"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Ada", "email": "ada@x.com", "password": "pw123",
	})
	assert.Equal(t, http.StatusCreated, status)

	// Duplicate email creates neither a second user nor a second cart
	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Imposter", "email": "ada@x.com", "password": "pw456",
	})
	assert.Equal(t, http.StatusConflict, status)

	var userCount, cartCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Cart{}).Count(&cartCount).Error)
	assert.Equal(t, int64(1), userCount)
	assert.Equal(t, int64(1), cartCount)
}

func TestEndToEndCheckoutFlow(t *testing.T) {
	app, db := setupApp(t)
	p1 := seedProduct(t, db, "Keyboard", 7500)

	// signup
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Ada", "email": "ada@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, body["token"])

	// login with the same credentials
	status, body = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ada@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)
	require.NotEmpty(t, token)

	// /me reflects the authenticated identity
	status, body = doJSON(t, app, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	me := body["user"].(map[string]interface{})
	assert.Equal(t, "ada@x.com", me["email"])

	// add qty 2, then qty 1 of the same product
	status, body = doJSON(t, app, http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"productId": p1.ID, "qty": 2,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"productId": p1.ID, "qty": 1,
	})
	require.Equal(t, http.StatusOK, status)

	// the cart holds a single accumulated line
	status, body = doJSON(t, app, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, status)
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, p1.ID, line["productId"])
	assert.Equal(t, float64(3), line["qty"])

	// checkout
	status, body = doJSON(t, app, http.MethodPost, "/api/orders/checkout", token, nil)
	require.Equal(t, http.StatusCreated, status)
	order := body["order"].(map[string]interface{})
	assert.Equal(t, float64(3*7500), order["total_cents"])
	orderLines := order["line_items"].([]interface{})
	require.Len(t, orderLines, 1)
	orderLine := orderLines[0].(map[string]interface{})
	assert.Equal(t, float64(3), orderLine["qty"])
	assert.Equal(t, float64(3*7500), orderLine["subtotal_cents"])
	assert.Equal(t, "Keyboard", orderLine["product_name"])

	// the order shows up in the history with its lines
	status, body = doJSON(t, app, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, status)
	orders := body["orders"].([]interface{})
	require.Len(t, orders, 1)

	// the cart is now empty, so checking out again is a client error
	status, body = doJSON(t, app, http.MethodPost, "/api/orders/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Cart is empty", body["message"])
}

func TestCartValidationErrors(t *testing.T) {
	app, db := setupApp(t)
	p1 := seedProduct(t, db, "Keyboard", 7500)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Ada", "email": "ada@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, status)
	token := body["token"].(string)

	// qty below 1 is rejected
	status, _ = doJSON(t, app, http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"productId": p1.ID, "qty": 0,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// missing productId is rejected
	status, _ = doJSON(t, app, http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"qty": 2,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// removing a product that was never added still succeeds
	status, body = doJSON(t, app, http.MethodPost, "/api/cart/remove", token, map[string]interface{}{
		"productId": p1.ID,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
}

func TestCheckoutUnavailableProduct(t *testing.T) {
	app, db := setupApp(t)
	p1 := seedProduct(t, db, "Keyboard", 7500)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Ada", "email": "ada@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, status)
	token := body["token"].(string)

	status, _ = doJSON(t, app, http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"productId": p1.ID, "qty": 1,
	})
	require.Equal(t, http.StatusOK, status)

	// The product vanishes from the catalog before checkout
	require.NoError(t, db.Delete(&models.Product{}, "id = ?", p1.ID).Error)

	status, _ = doJSON(t, app, http.MethodPost, "/api/orders/checkout", token, nil)
	assert.Equal(t, http.StatusConflict, status)

	// The cart survived the failed checkout
	status, body = doJSON(t, app, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"].([]interface{}), 1)
}
