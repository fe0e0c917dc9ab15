package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/utils"
)

type HubController struct {
	Hub      *hub.Hub
	upgrader websocket.Upgrader
}

// NewHubController accepts upgrades only from the configured origins. An
// empty list accepts any origin.
func NewHubController(h *hub.Hub, origins []string) *HubController {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &HubController{
		Hub: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

// Serve upgrades an authenticated request and keeps the connection
// registered until the client goes away.
func (hc *HubController) Serve(c *gin.Context) {
	session, ok := utils.CurrentSession(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := hc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("websocket upgrade: %v", err)
		return
	}

	hc.Hub.Register(ws, hub.Subscriber{
		Role:        session.Role,
		HostelBlock: session.HostelBlock,
		PrincipalID: session.ID,
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	hc.Hub.Unregister(ws)
}
