package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Maagdy/Yaqeen-sub001/internal/connectivity"
)

type ConnectivityController struct {
	bridge *connectivity.Bridge
}

func NewConnectivityController(bridge *connectivity.Bridge) *ConnectivityController {
	return &ConnectivityController{bridge: bridge}
}

// Status reports the verified connectivity state.
// GET /api/connectivity
func (cc *ConnectivityController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": cc.bridge.Online()})
}

// NativeRequest is the host shell's raw network flag.
type NativeRequest struct {
	Online *bool `json:"online" binding:"required"`
}

// Native feeds a native online/offline transition into the bridge. An
// "online" report triggers a verification probe before the exposed state
// flips; the response carries the state after verification.
// POST /api/connectivity/native
func (cc *ConnectivityController) Native(c *gin.Context) {
	var req NativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid connectivity report: "+err.Error())
		return
	}

	cc.bridge.SetNativeOnline(c.Request.Context(), *req.Online)
	c.JSON(http.StatusOK, gin.H{"online": cc.bridge.Online()})
}

// Wake lets an out-of-process worker request an immediate drain.
// POST /api/connectivity/wake
func (cc *ConnectivityController) Wake(c *gin.Context) {
	cc.bridge.Wake("external")
	respondSuccess(c, "wake delivered")
}
