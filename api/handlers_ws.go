package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/status-im/market-dashboard/interfaces"
	"github.com/status-im/market-dashboard/metrics"
	"github.com/status-im/market-dashboard/query"
)

const (
	PING_INTERVAL = 20 * time.Second
	PONG_TIMEOUT  = 60 * time.Second
	WRITE_TIMEOUT = 10 * time.Second
)

// marketsMessage is pushed to stream clients on every change of the observed markets
type marketsMessage struct {
	Currency     string       `json:"currency"`
	Status       string       `json:"status"`
	Stale        bool         `json:"stale"`
	IsFetching   bool         `json:"is_fetching"`
	FailureCount int          `json:"failure_count"`
	Data         []marketItem `json:"data,omitempty"`
	UpdatedAt    *time.Time   `json:"updated_at,omitempty"`
	Error        *errorBody   `json:"error,omitempty"`
}

func newMarketsMessage(currency string, snap query.Snapshot) marketsMessage {
	msg := marketsMessage{
		Currency:     currency,
		Status:       snap.Status.String(),
		Stale:        snap.HasData() && snap.Status != query.StatusFresh,
		IsFetching:   snap.IsFetching,
		FailureCount: snap.FailureCount,
	}
	if markets, ok := query.Data[[]interfaces.Cryptocurrency](snap); ok && snap.HasData() {
		msg.Data = toMarketItems(markets, currency)
		updatedAt := snap.UpdatedAt
		msg.UpdatedAt = &updatedAt
	}
	if snap.Err != nil {
		body := toErrorBody(snap.Err)
		msg.Error = &body
	}
	return msg
}

// handleMarketsStream observes the markets of a currency while the socket is open
// and pushes every snapshot. Slow clients miss intermediate snapshots but always get the latest.
func (s *Server) handleMarketsStream(w http.ResponseWriter, r *http.Request) {
	currency := s.currencyParam(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("API: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	metrics.WebsocketClientsGauge.Inc()
	defer metrics.WebsocketClientsGauge.Dec()

	updates := make(chan query.Snapshot, 4)
	observer, err := s.dashboard.ObserveTopMarkets(currency, func(snap query.Snapshot) {
		pushLatest(updates, snap)
	})
	if err != nil {
		log.Warnf("API: failed to observe %s markets: %v", currency, err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "service stopping"),
			time.Now().Add(WRITE_TIMEOUT))
		return
	}
	defer observer.Stop()

	closed := make(chan struct{})
	go s.readUntilClosed(conn, closed)

	ticker := time.NewTicker(PING_INTERVAL)
	defer ticker.Stop()

	log.Debugf("API: %s markets stream opened (request %s)", currency, RequestID(r.Context()))

	for {
		select {
		case <-s.ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(WRITE_TIMEOUT))
			return
		case <-closed:
			log.Debugf("API: %s markets stream closed", currency)
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Debugf("API: ping failed: %v", err)
				return
			}
		case snap := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := conn.WriteJSON(newMarketsMessage(currency, snap)); err != nil {
				log.Debugf("API: write failed: %v", err)
				return
			}
		}
	}
}

// pushLatest queues snap without blocking, evicting the oldest queued snapshot when full
func pushLatest(updates chan query.Snapshot, snap query.Snapshot) {
	for {
		select {
		case updates <- snap:
			return
		default:
		}
		select {
		case <-updates:
		default:
		}
	}
}

// readUntilClosed drains client frames so control messages are processed and closes
// done once the connection fails
func (s *Server) readUntilClosed(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	_ = conn.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debugf("API: websocket read error: %v", err)
			}
			return
		}
	}
}
