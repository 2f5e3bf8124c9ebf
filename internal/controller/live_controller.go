package controller

import (
	"debate_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type LiveController struct {
	Hub *service.VoteHub
}

func NewLiveController(hub *service.VoteHub) *LiveController {
	return &LiveController{Hub: hub}
}

// @Summary 实时投票推送
// @Description WebSocket 连接，每次投票后推送 {"type":"VOTE","data":{target,id,votesUp,votesDown}}
// @Tags 投票
// @Success 101 {string} string "Switching Protocols"
// @Router /ws/votes [get]
func (c *LiveController) Votes(ctx *gin.Context) {
	c.Hub.ServeWS(ctx.Writer, ctx.Request)
}
