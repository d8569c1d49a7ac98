package handler

import (
	"trac/internal/dto"
	"trac/internal/pkg/response"
	"trac/internal/service"
	"trac/internal/telemetry"
	"trac/utils/validate"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	trace       *telemetry.Trace
	teamService *service.TeamService
}

func NewTeamHandler(trace *telemetry.Trace, teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{trace: trace, teamService: teamService}
}

// Organization 組織總覽
// @Summary 取得目前追蹤的組織與統計
// @Tags Organization
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.OverviewResponseDto
// @Failure 409 {object} response.Response
// @Router /api/org [get]
func (h *TeamHandler) Organization(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	actor, err := requireActor(c)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	overview, err := h.teamService.Overview(ctx, actor.ID)
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, overview)
}

// Stats 組織統計
// @Summary 取得組織即時統計
// @Tags Organization
// @Security BearerAuth
// @Produce json
// @Success 200 {object} aggregate.Stats
// @Failure 409 {object} response.Response
// @Router /api/org/stats [get]
func (h *TeamHandler) Stats(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	actor, err := requireActor(c)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	stats, err := h.teamService.Stats(ctx, actor.ID)
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, stats)
}

// CachedStats Redis 中最近一次發佈的統計
// @Summary 取得快取中的組織統計
// @Tags Organization
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CachedStatsResponseDto
// @Failure 404 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /api/org/stats/cached [get]
func (h *TeamHandler) CachedStats(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	actor, err := requireActor(c)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	cached, err := h.teamService.CachedStats(ctx, actor.ID)
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, cached)
}

// Employees 員工快照列表
// @Summary 取得組織員工即時狀態
// @Tags Organization
// @Security BearerAuth
// @Produce json
// @Success 200 {array} aggregate.EmployeeSnapshot
// @Failure 409 {object} response.Response
// @Router /api/org/employees [get]
func (h *TeamHandler) Employees(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	actor, err := requireActor(c)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	employees, err := h.teamService.Employees(ctx, actor.ID)
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, employees)
}

// Workforce 今日時段走勢與工作流向
// @Summary 取得 performance horizon 與 work-flow graph
// @Tags Organization
// @Security BearerAuth
// @Produce json
// @Success 200 {object} aggregate.Workforce
// @Failure 409 {object} response.Response
// @Router /api/org/workforce [get]
func (h *TeamHandler) Workforce(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	actor, err := requireActor(c)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	workforce, err := h.teamService.Workforce(ctx, actor.ID)
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, workforce)
}

// EmployeeDetail 單一員工明細
// @Summary 取得員工明細（出勤、產出、證據）
// @Description 第一次查詢會開啟該員工的訂閱，登出時一併關閉
// @Tags Employee
// @Security BearerAuth
// @Produce json
// @Param id path string true "員工 id"
// @Param joined query string false "加入日期 yyyy-MM-dd"
// @Param month query string false "出勤月份 yyyy-MM"
// @Success 200 {object} aggregate.Detail
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/employees/{id}/detail [get]
func (h *TeamHandler) EmployeeDetail(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	actor, err := requireActor(c)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	employeeID, cause, respErr := validate.ParseDocumentID(c, "id")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	var query dto.EmployeeDetailQueryDto
	if cause, respErr := validate.BindQuery(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	detail, err := h.teamService.EmployeeDetail(ctx, actor.ID, employeeID, query)
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, detail)
}
