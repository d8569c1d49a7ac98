package handler

import (
	"trac/internal/core"
	"trac/internal/pkg/response"
	"trac/internal/service"
	"trac/internal/telemetry"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	trace       *telemetry.Trace
	teamService *service.TeamService
}

func NewSessionHandler(trace *telemetry.Trace, teamService *service.TeamService) *SessionHandler {
	return &SessionHandler{trace: trace, teamService: teamService}
}

// SignIn 建立追蹤 session
// @Summary 登入並開始追蹤所屬組織
// @Description 已有 session 時直接沿用（created=false）
// @Tags Session
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SessionResponseDto
// @Failure 401 {object} response.Response
// @Router /api/session [post]
func (h *SessionHandler) SignIn(c *gin.Context) {
	ctx, span, end := h.trace.WithSpan(c)
	actor, err := requireActor(c)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}

	session, err := h.teamService.SignIn(ctx, actor)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	h.trace.ApplyTraceAttributes(span, core.TraceSessionMeta{
		SessionID: session.SessionID,
		ActorID:   session.ActorID,
		OrgID:     session.OrgID,
		Day:       session.Day,
	})
	end(nil)
	response.Success(c, session)
}

// SignOut 結束追蹤 session
// @Summary 登出並釋放所有訂閱
// @Tags Session
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/session [delete]
func (h *SessionHandler) SignOut(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	actor, err := requireActor(c)
	if err == nil {
		err = h.teamService.SignOut(ctx, actor.ID)
	}
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "signed out"})
}
