package handlers

import (
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/api/dto"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/application/advisory"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// SuggestionsHandler receives advisor suggestions and serves the latest one.
type SuggestionsHandler struct {
	*Base
	advisor  Advisor
	secret   string
	upgrader websocket.Upgrader
}

// NewSuggestionsHandler creates a new suggestions handler. An empty secret
// accepts every callback. origins limits websocket clients the same way CORS
// limits browsers; "*" allows any.
func NewSuggestionsHandler(advisor Advisor, secret string, origins []string, logger *slog.Logger) *SuggestionsHandler {
	return &SuggestionsHandler{
		Base:    NewBase(logger),
		advisor: advisor,
		secret:  secret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(origins),
		},
	}
}

// Receive handles POST /coupon-result.
func (h *SuggestionsHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get(advisory.SecretHeader)), []byte(h.secret)) != 1 {
		h.WriteError(w, http.StatusUnauthorized, dto.UnauthorizedError())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("could not read body"))
		return
	}
	s, err := advisory.DecodeSuggestion(body)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}
	if s == nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("recommendedCoupon.code is required"))
		return
	}

	stored, err := h.advisor.Receive(*s)
	switch {
	case errors.Is(err, advisory.ErrSuggestionRejected):
		h.WriteError(w, http.StatusUnprocessableEntity, dto.NewAPIError(dto.ErrCodeSuggestionReject, err.Error()))
		return
	case err != nil:
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	h.logger.Info("advisor suggestion stored",
		"code", stored.RecommendedCoupon.Code,
		"discount", stored.RecommendedCoupon.Discount,
	)
	h.WriteJSON(w, http.StatusOK, stored)
}

// Latest handles GET /coupon-suggestion. It answers null before the first
// suggestion.
func (h *SuggestionsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	s, ok := h.advisor.Latest()
	if !ok {
		h.WriteJSON(w, http.StatusOK, nil)
		return
	}
	h.WriteJSON(w, http.StatusOK, s)
}

// Stream handles GET /coupon-suggestion/stream. Each stored suggestion is
// pushed as a JSON text frame; a slow client only ever sees the newest one.
// A cleared suggestion is pushed as null.
func (h *SuggestionsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.advisor.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go h.readPump(conn, done)
	h.writePump(conn, updates, done)
}

// readPump discards client frames and keeps the read deadline alive on pong.
func (h *SuggestionsHandler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}

func (h *SuggestionsHandler) writePump(conn *websocket.Conn, updates <-chan advisory.Suggestion, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case s, ok := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			var payload any = s
			if s.RecommendedCoupon.Code == "" {
				payload = nil
			}
			if err := conn.WriteJSON(payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}
