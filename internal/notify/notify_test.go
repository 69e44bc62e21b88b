package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBotAPI answers getMe and sendMessage like the Telegram Bot API.
func fakeBotAPI(t *testing.T) (*httptest.Server, *[]url.Values) {
	t.Helper()
	var mu sync.Mutex
	var sent []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"UniDrop","username":"unidrop_bot"}}`)
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			require.NoError(t, r.ParseForm())
			mu.Lock()
			sent = append(sent, r.PostForm)
			mu.Unlock()
			io.WriteString(w, `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":-100,"type":"group"},"text":"ok"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &sent
}

func TestTelegram_Notify(t *testing.T) {
	srv, sent := fakeBotAPI(t)
	tg, err := NewTelegramWithEndpoint("TOKEN", srv.URL+"/bot%s/%s", -100)
	require.NoError(t, err)

	require.NoError(t, tg.Notify(context.Background(), "New pitch: Rice Cooker"))
	require.Len(t, *sent, 1)
	assert.Equal(t, "-100", (*sent)[0].Get("chat_id"))
	assert.Equal(t, "New pitch: Rice Cooker", (*sent)[0].Get("text"))
}

func TestTelegram_RequiresChat(t *testing.T) {
	_, err := NewTelegramWithEndpoint("TOKEN", "http://127.0.0.1:1/bot%s/%s", 0)
	assert.Error(t, err)
}

func TestTelegram_CancelledContext(t *testing.T) {
	srv, sent := fakeBotAPI(t)
	tg, err := NewTelegramWithEndpoint("TOKEN", srv.URL+"/bot%s/%s", -100)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, tg.Notify(ctx, "x"))
	assert.Empty(t, *sent)
}
