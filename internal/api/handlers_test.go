package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/stretchr/testify/require"

	"earningbot/internal/config"
	"earningbot/internal/handlers"
	"earningbot/internal/models"
	"earningbot/internal/store"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (f *fakeNotifier) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeNotifier) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func newTestDeps(t *testing.T) (ApiDependencies, *store.FileStore) {
	t.Helper()
	cfg := &config.Config{TelegramToken: "secret-token", BotUsername: "earning_test_bot"}
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	bot := handlers.NewBotHandler(handlers.HandlerDependencies{
		Config:    cfg,
		BotClient: &fakeNotifier{},
		Store:     fs,
	})
	return ApiDependencies{Config: cfg, Bot: bot, Store: fs}, fs
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.NotEmpty(t, body["timestamp"])
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	deps, fs := newTestDeps(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{broken"))
	WebhookHandler(deps)(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp webhookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.OK)

	// Никаких мутаций леджера.
	set, err := fs.Load()
	require.NoError(t, err)
	require.Empty(t, set)
}

func TestWebhookRejectsEmptyBody(t *testing.T) {
	deps, _ := newTestDeps(t)

	rec := httptest.NewRecorder()
	WebhookHandler(deps)(rec, httptest.NewRequest(http.MethodPost, "/webhook", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookProcessesMessage(t *testing.T) {
	deps, fs := newTestDeps(t)

	update := tgbotapi.Update{
		Message: &tgbotapi.Message{
			Chat: tgbotapi.Chat{ID: 42},
			Text: "/start",
		},
	}
	body, err := json.Marshal(update)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(string(body)))
	WebhookHandler(deps)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp webhookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.OK)

	// Обработка асинхронная: ждём появления аккаунта в хранилище.
	require.Eventually(t, func() bool {
		set, err := fs.Load()
		return err == nil && set[42] != nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWebhookIgnoresUnsupportedUpdate(t *testing.T) {
	deps, fs := newTestDeps(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"update_id": 7}`))
	WebhookHandler(deps)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	set, err := fs.Load()
	require.NoError(t, err)
	require.Empty(t, set)
}

func TestSetupRejectsBadToken(t *testing.T) {
	deps, _ := newTestDeps(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/setup?token=wrong&url=https://example.com/", nil)
	SetupHandler(deps)(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	SetupHandler(deps)(rec, httptest.NewRequest(http.MethodGet, "/setup", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExportRejectsBadToken(t *testing.T) {
	deps, _ := newTestDeps(t)

	rec := httptest.NewRecorder()
	ExportHandler(deps)(rec, httptest.NewRequest(http.MethodGet, "/export?token=wrong", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExportReturnsWorkbook(t *testing.T) {
	deps, fs := newTestDeps(t)
	require.NoError(t, fs.Save(models.RecordSet{
		1: {Balance: 300, ReferralCode: "aaaa1111"},
	}))

	rec := httptest.NewRecorder()
	ExportHandler(deps)(rec, httptest.NewRequest(http.MethodGet, "/export?token=secret-token", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	require.NotZero(t, rec.Body.Len())
}
