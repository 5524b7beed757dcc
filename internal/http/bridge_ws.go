package http

import (
	"context"
	"log"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/Maagdy/Yaqeen-sub001/internal/connectivity"
)

// BridgeMessage is the wire format on the bridge socket, both directions.
// Inbound kinds: "native" (host network flag, uses Online) and "wake"
// (background worker drain request). Outbound kind: "transition" with the
// verified state.
type BridgeMessage struct {
	Kind   string `json:"kind"`
	Online bool   `json:"online,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type BridgeSocketController struct {
	bridge *connectivity.Bridge
}

func NewBridgeSocketController(bridge *connectivity.Bridge) *BridgeSocketController {
	return &BridgeSocketController{bridge: bridge}
}

// Serve upgrades to a websocket carrying the wake channel: the shell and
// its background worker push native transitions and wake requests, and
// receive verified connectivity transitions back.
// GET /ws/bridge
func (bc *BridgeSocketController) Serve(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // local shell connections only; the server binds loopback
	})
	if err != nil {
		log.Printf("[BRIDGE] websocket accept failed: %v", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Push verified transitions out while reading commands in.
	transitions := bc.bridge.Subscribe()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case online, ok := <-transitions:
				if !ok {
					return
				}
				msg := BridgeMessage{Kind: "transition", Online: online}
				if err := wsjson.Write(ctx, conn, msg); err != nil {
					return
				}
			}
		}
	}()

	for {
		var msg BridgeMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return
		}

		switch msg.Kind {
		case "native":
			bc.bridge.SetNativeOnline(ctx, msg.Online)
		case "wake":
			reason := msg.Reason
			if reason == "" {
				reason = "worker"
			}
			bc.bridge.Wake(reason)
		default:
			log.Printf("[BRIDGE] ignoring unknown message kind %q", msg.Kind)
		}
	}
}
