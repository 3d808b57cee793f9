package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/allisson/fieldcrypt/internal/config"
	customerDomain "github.com/allisson/fieldcrypt/internal/customer/domain"
	customerHTTP "github.com/allisson/fieldcrypt/internal/customer/http"
	"github.com/allisson/fieldcrypt/internal/customer/usecase/mocks"
	"github.com/allisson/fieldcrypt/internal/metrics"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestServer builds a server with the full router and a mocked customer use case.
func createTestServer(
	t *testing.T,
	ctx context.Context,
	cfg *config.Config,
	readiness map[string]ReadinessCheck,
) (*Server, *mocks.MockCustomerUseCase) {
	t.Helper()

	logger := discardLogger()
	useCase := mocks.NewMockCustomerUseCase(t)
	server := NewServer("localhost", 0, logger)
	require.NoError(t, server.SetupRouter(ctx, cfg, customerHTTP.NewCustomerHandler(useCase, logger), nil, readiness))
	return server, useCase
}

func serve(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthHandler()(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
}

func TestReadinessHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	failing := func(context.Context) error { return errors.New("connection refused") }

	t.Run("Ready", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		ReadinessHandler(context.Background(), map[string]ReadinessCheck{"database": ok, "keysets": ok})(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(
			t,
			`{"status":"ready","components":{"database":"ok","keysets":"ok"}}`,
			w.Body.String(),
		)
	})

	t.Run("NotReady_ComponentFails", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		ReadinessHandler(context.Background(), map[string]ReadinessCheck{"database": failing, "keysets": ok})(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "not_ready", response["status"])

		components, isMap := response["components"].(map[string]interface{})
		require.True(t, isMap)
		assert.Equal(t, "error", components["database"])
		assert.Equal(t, "ok", components["keysets"])
	})

	t.Run("NotReady_ShuttingDown", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		ReadinessHandler(ctx, nil)(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRequestLogger(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return "req-123"
	})))
	router.Use(RequestLogger(logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := serve(router, http.MethodGet, "/test", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"status":200`)
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(discardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := serve(router, http.MethodGet, "/panic", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := gin.New()
	router.Use(RateLimitMiddleware(ctx, 1.0, 2, discardLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for i := 0; i < 2; i++ {
		w := serve(router, http.MethodGet, "/test", "")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := serve(router, http.MethodGet, "/test", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "rate_limit_exceeded", response["error"])
	assert.Equal(t, "Too many requests, retry after 1s", response["message"])

	// A different client gets its own bucket.
	other := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "203.0.113.7:4321"
	router.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code)

	cancel()
}

func TestClientLimiters_Sweep(t *testing.T) {
	limiters := newClientLimiters(1, 1)
	now := time.Now()
	limiters.get("192.0.2.1", now.Add(-2*time.Hour))
	limiters.get("192.0.2.2", now)

	assert.Equal(t, 1, limiters.sweep(now.Add(-limiterIdleTimeout)))
	assert.Equal(t, 0, limiters.sweep(now.Add(time.Minute)))
}

func TestRetryAfter(t *testing.T) {
	now := time.Now()
	limiter := newClientLimiters(0.1, 1).get("192.0.2.1", now)
	require.True(t, limiter.AllowN(now, 1))

	assert.Equal(t, 10, retryAfter(limiter, now))
	// the reservation taken to measure the delay is returned
	assert.Equal(t, 10, retryAfter(limiter, now))
}

func TestRequestLogger_ErrorLevel(t *testing.T) {
	var buf strings.Builder
	router := gin.New()
	router.Use(RequestLogger(slog.New(slog.NewJSONHandler(&buf, nil))))
	router.GET("/v1/customers/:id", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	serve(router, http.MethodGet, "/v1/customers/42", "")

	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"route":"/v1/customers/:id"`)
}

func TestServer_Routes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &config.Config{MetricsNamespace: "test_app"}
	server, useCase := createTestServer(t, ctx, cfg, map[string]ReadinessCheck{
		"database": func(context.Context) error { return nil },
	})
	handler := server.GetHandler()

	customer := &customerDomain.Customer{
		ID:        uuid.Must(uuid.NewV7()),
		Email:     "alice@example.com",
		CreatedAt: time.Now().UTC(),
	}

	t.Run("Health", func(t *testing.T) {
		w := serve(handler, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	})

	t.Run("Ready", func(t *testing.T) {
		w := serve(handler, http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("CreateCustomer", func(t *testing.T) {
		useCase.On("Create", mock.Anything, "alice@example.com", map[string]any(nil)).Return(customer, nil).Once()

		w := serve(handler, http.MethodPost, "/v1/customers", `{"email":"alice@example.com"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("GetCustomer", func(t *testing.T) {
		useCase.On("Get", mock.Anything, customer.ID).Return(customer, nil).Once()

		w := serve(handler, http.MethodGet, "/v1/customers/"+customer.ID.String(), "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GetCustomerByEmail", func(t *testing.T) {
		useCase.On("GetByEmail", mock.Anything, "alice@example.com").Return(customer, nil).Once()

		w := serve(handler, http.MethodGet, "/v1/customers/by-email/alice@example.com", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ListCustomers", func(t *testing.T) {
		useCase.On("List", mock.Anything, 0, 50).Return([]*customerDomain.Customer{customer}, nil).Once()

		w := serve(handler, http.MethodGet, "/v1/customers", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		w := serve(handler, http.MethodGet, "/nonexistent", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("NoMetricsEndpoint", func(t *testing.T) {
		w := serve(handler, http.MethodGet, "/metrics", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_RateLimitedAPI(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &config.Config{
		RateLimitEnabled:        true,
		RateLimitRequestsPerSec: 0.001,
		RateLimitBurst:          1,
	}
	server, useCase := createTestServer(t, ctx, cfg, nil)
	handler := server.GetHandler()

	useCase.On("List", mock.Anything, 0, 50).Return([]*customerDomain.Customer{}, nil).Once()

	assert.Equal(t, http.StatusOK, serve(handler, http.MethodGet, "/v1/customers", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(handler, http.MethodGet, "/v1/customers", "").Code)

	// Health checks are not rate limited.
	assert.Equal(t, http.StatusOK, serve(handler, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(handler, http.MethodGet, "/health", "").Code)
}

func TestServer_ShutdownGracefully(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, _ := createTestServer(t, ctx, &config.Config{}, nil)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	require.NoError(t, server.Shutdown(shutdownCtx))
	assert.NoError(t, <-errChan)
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("fieldcrypt")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), "fieldcrypt")
	require.NoError(t, err)
	bm.RecordOperation(context.Background(), "codec", "customer_email_encode", metrics.StatusSuccess)

	metricsServer := NewMetricsServer("localhost", 0, discardLogger(), provider)
	handler := metricsServer.GetHandler()

	w := serve(handler, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), `operation="customer_email_encode"`)

	assert.Equal(t, http.StatusNotFound, serve(handler, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(handler, http.MethodGet, "/v1/customers", "").Code)
}

func TestListener_StartFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, taken.Close())
	}()

	server := NewServer("127.0.0.1", taken.Addr().(*net.TCPAddr).Port, discardLogger())

	err = server.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http server")
}
