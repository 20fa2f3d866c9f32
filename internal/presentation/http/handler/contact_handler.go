package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sangkips/atelier-api/internal/application/service"
	"github.com/sangkips/atelier-api/internal/domain/contact"
	"github.com/sangkips/atelier-api/internal/presentation/http/dto/response"
	"github.com/sangkips/atelier-api/pkg/debounce"
	"go.uber.org/zap"
)

const suggestWriteTimeout = 5 * time.Second

// ContactHandler serves the merged customer and subscriber contact list
type ContactHandler struct {
	contactService *service.ContactService
	debounce       time.Duration
	upgrader       websocket.Upgrader
	log            *zap.Logger
}

// NewContactHandler creates a new contact handler. debounce is the quiet
// period before a live suggestion query runs.
func NewContactHandler(contactService *service.ContactService, debounce time.Duration, allowedOrigins []string, log *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		debounce:       debounce,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log,
	}
}

// List returns every contact
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.contactService.LoadContacts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Contacts retrieved successfully", contacts)
}

// Search returns the top matches for ?q=
func (h *ContactHandler) Search(c *gin.Context) {
	contacts, err := h.contactService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Contacts retrieved successfully", contacts)
}

type suggestQuery struct {
	Q string `json:"q"`
}

type suggestReply struct {
	Q       string            `json:"q"`
	Results []contact.Contact `json:"results"`
}

// Suggest upgrades to a websocket. Each {"q": "..."} message restarts the
// debounce timer; when typing pauses the matches for the last term are
// pushed back. Contacts are loaded once per connection.
func (h *ContactHandler) Suggest(c *gin.Context) {
	contacts, err := h.contactService.LoadContacts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	d := debounce.New(h.debounce)
	defer d.Stop()

	var writeMu sync.Mutex
	for {
		var q suggestQuery
		if err := conn.ReadJSON(&q); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("suggest connection closed", zap.Error(err))
			}
			return
		}

		term := q.Q
		d.Trigger(func() {
			reply := suggestReply{Q: term, Results: h.contactService.Match(contacts, term)}

			writeMu.Lock()
			defer writeMu.Unlock()
			_ = conn.SetWriteDeadline(time.Now().Add(suggestWriteTimeout))
			if err := conn.WriteJSON(reply); err != nil {
				h.log.Debug("suggest write failed", zap.Error(err))
			}
		})
	}
}

// originChecker accepts same-origin requests and the configured CORS origins.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
