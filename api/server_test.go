package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inkblog/model"
	"inkblog/posts"
)

func newTestServer(t *testing.T) (*httptest.Server, *WSConnectionManager) {
	t.Helper()
	lib := posts.NewLibrary(fstest.MapFS{
		"posts/first.md":  {Data: []byte("---\ntitle: First\ndate: 2024-01-01\ntags: [go]\n---\n## Hello\n")},
		"posts/second.md": {Data: []byte("---\ntitle: Second\ndate: 2024-02-01\ntags: [Go Tips, go]\n---\nBody\n")},
	}, zap.NewNop())
	_, err := lib.Reload()
	require.NoError(t, err)

	ws := NewWSConnectionManager(zap.NewNop())
	mux := http.NewServeMux()
	NewServer(lib, ws, zap.NewNop()).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, ws
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	var got healthResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/health", &got))
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, 2, got.Posts)
}

func TestPosts(t *testing.T) {
	srv, _ := newTestServer(t)

	var list []postSummary
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/posts", &list))
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Slug)
	assert.Equal(t, "first", list[1].Slug)

	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/posts?tag=go-tips", &list))
	require.Len(t, list, 1)
	assert.Equal(t, "second", list[0].Slug)
}

func TestPost(t *testing.T) {
	srv, _ := newTestServer(t)

	var got postResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/posts/first", &got))
	assert.Equal(t, "First", got.Title)
	assert.Equal(t, "2024-01-01", got.Date)
	assert.Contains(t, got.HTML, `<h2 id="hello">Hello</h2>`)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/posts/missing", &got))
}

func TestTags(t *testing.T) {
	srv, _ := newTestServer(t)
	var tags []string
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/tags", &tags))
	assert.Equal(t, []string{"Go Tips", "go"}, tags)
}

func TestWebsocketBroadcast(t *testing.T) {
	srv, ws := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var hello struct {
		Type model.MessageType `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, model.MessageHello, hello.Type)
	assert.NotEmpty(t, hello.Data["id"])
	assert.Equal(t, 1, ws.Count())

	ws.Broadcast(model.Message{Type: model.MessageReload, Data: model.Reload{Posts: 3}})

	var msg struct {
		Type model.MessageType `json:"type"`
		Data model.Reload      `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, model.MessageReload, msg.Type)
	assert.Equal(t, 3, msg.Data.Posts)

	conn.Close()
	assert.Eventually(t, func() bool { return ws.Count() == 0 }, 3*time.Second, 20*time.Millisecond)
}
