package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/landing/lead"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

type botServer struct {
	mu       sync.Mutex
	messages []map[string]string
	failSend bool
}

func (b *botServer) handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = r.ParseForm()

	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		if !strings.Contains(r.URL.Path, "/botgood-token/") {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"Leads","username":"leads_bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		b.mu.Lock()
		b.messages = append(b.messages, map[string]string{"chat_id": r.Form.Get("chat_id"), "text": r.Form.Get("text")})
		fail := b.failSend
		b.mu.Unlock()
		if fail {
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":-100,"type":"group"}}}`))
	default:
		http.NotFound(w, r)
	}
}

func newBot(t *testing.T, token string) (*botServer, config.TelegramConfig) {
	t.Helper()
	bs := &botServer{}
	server := httptest.NewServer(http.HandlerFunc(bs.handler))
	t.Cleanup(server.Close)
	return bs, config.TelegramConfig{Enabled: true, Token: token, ChatID: -100, APIEndpoint: server.URL + "/bot%s/%s"}
}

func testLead() lead.Lead {
	return lead.Lead{Name: "Asha", Email: "asha@example.com", Mobile: "9876543210", Course: "Data Science"}
}

func TestNotifier_SendsAlert(t *testing.T) {
	bs, cfg := newBot(t, "good-token")
	n, err := New(cfg, "SkilledUp.Tech", nil, logging.NewTestLogger())
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), testLead()))

	require.Len(t, bs.messages, 1)
	assert.Equal(t, "-100", bs.messages[0]["chat_id"])
	assert.Equal(t, "New lead from SkilledUp.Tech\nName: Asha\nEmail: asha@example.com\nMobile: 9876543210\nCourse: Data Science", bs.messages[0]["text"])
}

func TestNotifier_SendFailure(t *testing.T) {
	bs, cfg := newBot(t, "good-token")
	bs.failSend = true
	n, err := New(cfg, "SkilledUp.Tech", nil, logging.NewTestLogger())
	require.NoError(t, err)

	err = n.Notify(context.Background(), testLead())
	assert.ErrorContains(t, err, "chat not found")
}

func TestNew_BadToken(t *testing.T) {
	_, cfg := newBot(t, "bad-token")
	_, err := New(cfg, "SkilledUp.Tech", nil, logging.NewTestLogger())
	assert.ErrorContains(t, err, "telegram: failed to connect")
}

func TestNotifier_CanceledContext(t *testing.T) {
	bs, cfg := newBot(t, "good-token")
	n, err := New(cfg, "SkilledUp.Tech", nil, logging.NewTestLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Notify(ctx, testLead()), context.Canceled)
	assert.Empty(t, bs.messages)
}
