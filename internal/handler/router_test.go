package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"undangan/rsvphub/internal/config"
	"undangan/rsvphub/internal/handler"
	"undangan/rsvphub/internal/repository"
	"undangan/rsvphub/internal/service"
	"undangan/rsvphub/internal/testutil"
	"undangan/rsvphub/pkg/jwt"
)

const testPIN = "12345678"

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingSender struct {
	mu   sync.Mutex
	fail error
	sent []string
}

func (s *recordingSender) Send(_ context.Context, phone, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.sent = append(s.sent, phone+"|"+message)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	repo   repository.AttendanceRepository
	sender *recordingSender
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "test"},
		State:   config.StateConfig{CounterTTL: time.Minute},
		Checkin: config.CheckinConfig{HadirOnly: false},
		Event:   config.EventConfig{Nama: "Buka Bersama", Lokasi: "Majalaya", WAIntro: "Hana"},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE"},
			AllowedHeaders: []string{"Content-Type", "Authorization", "X-Admin-PIN"},
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	for _, m := range mutate {
		m(cfg)
	}

	logger := zap.NewNop()
	repo := repository.NewAttendanceRepository(testutil.NewDB(t))
	state := repository.NewMemoryStateStore()
	sender := &recordingSender{}

	hash, err := bcrypt.GenerateFromPassword([]byte(testPIN), bcrypt.MinCost)
	require.NoError(t, err)

	inv := service.NewInvitations(cfg.Event, cfg.Invite)
	counter := service.NewCounterCache(repo, state, cfg.State.CounterTTL, logger)
	adminSvc := service.NewAdminService(string(hash), jwt.NewManager("test-key", "rsvphub", time.Hour), state, logger)

	router := handler.SetupRouter(cfg, logger, adminSvc, handler.Handlers{
		RSVP:       handler.NewRSVPHandler(service.NewRSVPService(repo, sender, inv, counter, logger)),
		Token:      handler.NewTokenHandler(service.NewCheckInService(repo, cfg.Checkin.HadirOnly, logger), inv),
		Attendance: handler.NewAttendanceHandler(service.NewAttendanceService(repo, sender, inv, counter, logger)),
		Event:      handler.NewEventHandler(cfg.Event),
		Admin:      handler.NewAdminHandler(adminSvc),
	})
	return &testServer{t: t, router: router, repo: repo, sender: sender}
}

func (s *testServer) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://undangan.example")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func rsvpBody(nama, wa, status string) map[string]any {
	return map[string]any{"nama": nama, "komunitas": "X", "whatsapp": wa, "status": status}
}

// submit posts an RSVP and returns its token.
func (s *testServer) submit(nama, wa, status string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/rsvp", rsvpBody(nama, wa, status))
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode(s.t, w)["token"].(string)
}

func adminPIN() []string { return []string{"X-Admin-PIN", testPIN} }

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func wrapDelivery(msg string) error { return fmt.Errorf("%w: %s", service.ErrDelivery, msg) }
