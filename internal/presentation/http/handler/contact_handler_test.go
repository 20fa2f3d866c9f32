package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sangkips/atelier-api/internal/application/service"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type customerList struct {
	repository.CustomerRepository
	customers []entity.Customer
}

func (r customerList) All(ctx context.Context) ([]entity.Customer, error) { return r.customers, nil }

type noSubscribers struct {
	repository.SubscriberRepository
}

func (noSubscribers) ListActive(ctx context.Context, ids []uuid.UUID) ([]entity.Subscriber, error) {
	return nil, nil
}

func suggestServer(t *testing.T, allowedOrigins []string) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	customers := customerList{customers: []entity.Customer{
		{ID: uuid.New(), Name: "Ayşe Yılmaz"},
		{ID: uuid.New(), Name: "Ayten Kaya"},
		{ID: uuid.New(), Name: "Burak Demir"},
	}}
	log := zap.NewNop()
	contacts := service.NewContactService(customers, noSubscribers{}, 5, log)
	h := NewContactHandler(contacts, 50*time.Millisecond, allowedOrigins, log)

	r := gin.New()
	r.GET("/api/contacts/suggest", h.Suggest)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/contacts/suggest"
}

func TestSuggestRepliesOnceForTypingBurst(t *testing.T) {
	url := suggestServer(t, []string{"*"})

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	for _, q := range []string{"a", "ay", "ayş"} {
		require.NoError(t, conn.WriteJSON(suggestQuery{Q: q}))
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var reply suggestReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "ayş", reply.Q)
	require.Len(t, reply.Results, 1)
	assert.Equal(t, "Ayşe Yılmaz", reply.Results[0].Name)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	var extra suggestReply
	assert.Error(t, conn.ReadJSON(&extra), "only the settled term is answered")
}

func TestSuggestAnswersEachPause(t *testing.T) {
	url := suggestServer(t, []string{"*"})

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	require.NoError(t, conn.WriteJSON(suggestQuery{Q: "ay"}))
	var reply suggestReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "ay", reply.Q)
	assert.Len(t, reply.Results, 2)

	require.NoError(t, conn.WriteJSON(suggestQuery{Q: "bur"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "bur", reply.Q)
	require.Len(t, reply.Results, 1)
	assert.Equal(t, "Burak Demir", reply.Results[0].Name)
}

func TestSuggestRejectsUnknownOrigin(t *testing.T) {
	url := suggestServer(t, []string{"https://admin.atelier.example"})

	header := http.Header{"Origin": {"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header = http.Header{"Origin": {"https://admin.atelier.example"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	_ = conn.Close()
}
