package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Mariolucas03/Kairos/app/controllers"
	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/Mariolucas03/Kairos/app/services"
	"github.com/Mariolucas03/Kairos/app/services/memstore"
	"github.com/Mariolucas03/Kairos/pkg/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	jwtSecret = "controller-secret"
	cronKey   = "cron-key"
)

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze(context.Context, string) (*models.FoodEstimate, error) {
	return nil, errors.New("every model failed")
}

type testServer struct {
	app      *fiber.App
	missions *memstore.Missions
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	missions := memstore.NewMissions()
	svc := services.New(services.Stores{
		Users:     memstore.NewUsers(),
		Missions:  missions,
		DailyLogs: memstore.NewDailyLogs(),
		Nutrition: memstore.NewNutrition(),
		Foods:     &memstore.Foods{},
		Shop:      &memstore.Shop{},
	}, services.Options{
		Location: time.UTC,
		Secret:   jwtSecret,
		TokenTTL: time.Hour,
		Analyzer: failingAnalyzer{},
	})
	svc.Auth.HashCost = 4
	controllers.Setup(svc, cronKey)

	app := fiber.New(fiber.Config{ErrorHandler: controllers.ErrorHandler})
	routes.Register(app, jwtSecret, svc.Streak)
	return &testServer{app: app, missions: missions}
}

// call sends a JSON request and decodes the JSON answer into a generic map or slice.
func (s *testServer) call(t *testing.T, method, path, token string, body interface{}, headers ...string) (int, interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			out = string(raw)
		}
	}
	return resp.StatusCode, out
}

func asMap(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	m, ok := v.(map[string]interface{})
	require.True(t, ok, "expected object, got %#v", v)
	return m
}

func (s *testServer) register(t *testing.T, username string) (string, map[string]interface{}) {
	t.Helper()
	code, body := s.call(t, "POST", "/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "hunter22",
	})
	require.Equal(t, fiber.StatusCreated, code, "%v", body)
	m := asMap(t, body)
	return m["token"].(string), asMap(t, m["user"])
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token, user := s.register(t, "ana")
	assert.NotEmpty(t, token)
	assert.Equal(t, "ana", user["username"])
	assert.NotContains(t, user, "password")

	code, _ := s.call(t, "POST", "/auth/register", "", map[string]string{
		"username": "ana", "email": "other@example.com", "password": "hunter22",
	})
	assert.Equal(t, fiber.StatusConflict, code)

	code, body := s.call(t, "POST", "/auth/login", "", map[string]string{"username": "ana", "password": "hunter22"})
	require.Equal(t, fiber.StatusOK, code)
	assert.NotEmpty(t, asMap(t, body)["token"])

	code, _ = s.call(t, "POST", "/auth/login", "", map[string]string{"username": "ana", "password": "wrong-one"})
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, body = s.call(t, "POST", "/auth/register", "", map[string]string{"username": "x", "email": "bad"})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, asMap(t, body), "error")

	code, body = s.call(t, "GET", "/user/profile", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ana", asMap(t, body)["username"])

	code, _ = s.call(t, "GET", "/user/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestMissionLifecycle(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "ana")

	code, body := s.call(t, "POST", "/missions", token, map[string]interface{}{"title": "  Read  ", "target": 1})
	require.Equal(t, fiber.StatusCreated, code, "%v", body)
	mission := asMap(t, body)
	assert.Equal(t, "Read", mission["title"])
	id := mission["id"].(string)

	code, body = s.call(t, "GET", "/missions", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, body, 1)

	code, body = s.call(t, "PUT", "/missions/"+id+"/progress", token, map[string]interface{}{"amount": 1})
	require.Equal(t, fiber.StatusOK, code, "%v", body)
	result := asMap(t, body)
	assert.Equal(t, true, asMap(t, result["mission"])["completed"])
	assert.Equal(t, float64(50), asMap(t, result["rewards"])["xp"])

	code, body = s.call(t, "PUT", "/missions/"+id+"/progress", token, map[string]interface{}{"amount": 1})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, asMap(t, body)["alreadyCompleted"])

	code, body = s.call(t, "PUT", "/missions/"+id+"/progress", token, map[string]interface{}{"editMode": true, "title": "Read more"})
	require.Equal(t, fiber.StatusOK, code, "%v", body)
	assert.Equal(t, "Read more", asMap(t, asMap(t, body)["mission"])["title"])

	code, body = s.call(t, "GET", "/daily", token, nil)
	require.Equal(t, fiber.StatusOK, code, "%v", body)
	assert.NotEmpty(t, asMap(t, body)["date"])

	code, _ = s.call(t, "PUT", "/missions/not-a-uuid/progress", token, map[string]interface{}{"amount": 1})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = s.call(t, "DELETE", "/missions/"+id, token, nil)
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = s.call(t, "DELETE", "/missions/"+id, token, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestMissionOwnership(t *testing.T) {
	s := newTestServer(t)
	ana, _ := s.register(t, "ana")
	bob, _ := s.register(t, "bob")

	code, body := s.call(t, "POST", "/missions", ana, map[string]interface{}{"title": "Run", "difficulty": "hard"})
	require.Equal(t, fiber.StatusCreated, code)
	id := asMap(t, body)["id"].(string)

	code, _ = s.call(t, "DELETE", "/missions/"+id, bob, nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = s.call(t, "POST", "/missions", ana, map[string]interface{}{"title": "Run", "difficulty": "legendary"})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, body = s.call(t, "DELETE", "/missions/nuke", ana, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(1), asMap(t, body)["deleted"])
}

func TestShopAndNutrition(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "ana")

	code, body := s.call(t, "GET", "/shop", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	items, ok := body.([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, items)

	code, body = s.call(t, "POST", "/shop/rewards", token, map[string]interface{}{"name": "Movie night", "price": 100})
	require.Equal(t, fiber.StatusCreated, code, "%v", body)
	rewardID := asMap(t, body)["id"].(string)

	// personal rewards are paid in coins, which a new account has none of
	code, _ = s.call(t, "POST", "/shop/buy", token, map[string]string{"itemId": rewardID})
	assert.Equal(t, fiber.StatusBadRequest, code)

	var potionID string
	for _, it := range items {
		if item := asMap(t, it); item["name"] == "Flask of Wisdom" {
			potionID = item["id"].(string)
		}
	}
	require.NotEmpty(t, potionID)

	code, body = s.call(t, "POST", "/shop/buy", token, map[string]string{"itemId": potionID})
	require.Equal(t, fiber.StatusOK, code, "%v", body)
	assert.Equal(t, float64(460), asMap(t, asMap(t, body)["user"])["gameCoins"])

	code, body = s.call(t, "POST", "/shop/use", token, map[string]string{"itemId": potionID})
	require.Equal(t, fiber.StatusOK, code, "%v", body)
	assert.NotEmpty(t, asMap(t, body)["message"])

	code, _ = s.call(t, "POST", "/shop/buy", token, map[string]string{"itemId": "nope"})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, body = s.call(t, "POST", "/nutrition/log/meals", token, map[string]string{"name": "Lunch"})
	require.Equal(t, fiber.StatusOK, code, "%v", body)

	code, body = s.call(t, "POST", "/nutrition/analyze-text", token, map[string]string{"text": "two eggs"})
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Equal(t, "Could not analyze", asMap(t, body)["error"])
}

func TestCronEndpoints(t *testing.T) {
	s := newTestServer(t)
	restore := controllers.RunSynchronously()
	defer restore()

	code, body := s.call(t, "GET", "/cron/ping", "", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, ".", body)

	code, _ = s.call(t, "GET", "/cron/nightly-maintenance", "", nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = s.call(t, "GET", "/cron/nightly-maintenance", "", nil, "X-Cron-Secret", "wrong")
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = s.call(t, "GET", "/cron/nightly-maintenance", "", nil, "X-Cron-Secret", cronKey)
	assert.Equal(t, fiber.StatusAccepted, code)
}
