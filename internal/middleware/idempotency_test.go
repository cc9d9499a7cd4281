package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/arithguard/internal/logging"
)

func setupTestApp(t *testing.T) (*fiber.App, *int32) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	var calls int32
	app := fiber.New()
	app.Use(RequestID())
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/deposit", func(c *fiber.Ctx) error {
		n := atomic.AddInt32(&calls, 1)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"call": n})
	})
	app.Post("/reject", func(c *fiber.Ctx) error {
		atomic.AddInt32(&calls, 1)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "rejected"})
	})
	return app, &calls
}

func post(t *testing.T, app *fiber.App, path, key string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header.Get("Idempotent-Replayed")
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	app, calls := setupTestApp(t)

	post(t, app, "/deposit", "")
	post(t, app, "/deposit", "")
	require.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	app, calls := setupTestApp(t)

	status, body, replayed := post(t, app, "/deposit", "abc123")
	require.Equal(t, fiber.StatusOK, status)
	require.Empty(t, replayed)

	status2, body2, replayed2 := post(t, app, "/deposit", "abc123")
	require.Equal(t, fiber.StatusOK, status2)
	require.JSONEq(t, body, body2)
	require.Equal(t, "true", replayed2)
	require.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestIdempotencyDoesNotCacheRejections(t *testing.T) {
	app, calls := setupTestApp(t)

	status, _, _ := post(t, app, "/reject", "k1")
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	status, _, replayed := post(t, app, "/reject", "k1")
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	require.Empty(t, replayed)
	require.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestRequestIDEchoed(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(c))
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, "req-1", string(body))
	require.Equal(t, "req-1", resp.Header.Get(RequestIDHeader))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}
