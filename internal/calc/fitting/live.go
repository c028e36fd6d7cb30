package fitting

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Message types on the live channel.
const (
	MsgSelect  = "select"
	MsgCatalog = "catalog"
	MsgResult  = "result"
	MsgError   = "error"
)

const maxMessageSize = 4096

// Msg is one frame on the live fitting channel, in either direction.
type Msg struct {
	Type           string   `json:"type"`
	Fitting        string   `json:"fitting,omitempty"`
	BranchFraction *float64 `json:"branch_fraction,omitempty"`
	Content        string   `json:"content,omitempty"`
	Result         *Result  `json:"result,omitempty"`
	Names          []string `json:"names,omitempty"`
}

// Live upgrades to a websocket and recomputes K for every selection the
// client sends. Replies go out in request order.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("live: upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	entry := log.WithField("remote", r.RemoteAddr)
	entry.Debug("live: connected")
	for {
		var msg Msg
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				entry.WithError(err).Warn("live: read")
			}
			return
		}
		reply := h.reply(msg)
		if err := conn.WriteJSON(&reply); err != nil {
			entry.WithError(err).Warn("live: write")
			return
		}
	}
}

func (h *Handler) reply(msg Msg) Msg {
	switch msg.Type {
	case MsgSelect:
		res, err := CalculateWith(h.catalog(), Input{Fitting: msg.Fitting, BranchFraction: msg.BranchFraction})
		if err != nil {
			log.WithError(err).WithField("panel", "fitting").Warn("calculation failed")
			return Msg{Type: MsgError, Content: FailureMessage(err)}
		}
		return Msg{Type: MsgResult, Result: &res}
	case MsgCatalog:
		return Msg{Type: MsgCatalog, Names: h.catalog().Names()}
	default:
		return Msg{Type: MsgError, Content: fmt.Sprintf("unknown message type %q", msg.Type)}
	}
}
