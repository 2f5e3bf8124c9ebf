package controller

import (
	"debate_backend/internal/service"
	"debate_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AuthService      *service.AuthService
	GuidelineService *service.GuidelineService
}

func NewAdminController(authService *service.AuthService, guidelineService *service.GuidelineService) *AdminController {
	return &AdminController{AuthService: authService, GuidelineService: guidelineService}
}

// Login godoc
// @Summary 管理员登录
// @Description 用户名不存在和密码错误返回相同的 401 响应
// @Tags 管理员
// @Accept json
// @Produce json
// @Param body body service.LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=model.LoginResponse}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /admin/login [post]
func (c *AdminController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AuthService.Authenticate(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, resp)
}

// @Summary 校验管理员令牌
// @Description 始终返回 200，通过 valid 字段表示结果
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /admin/verify [post]
func (c *AdminController) Verify(ctx *gin.Context) {
	token := util.BearerToken(ctx.GetHeader("Authorization"))
	if token == "" {
		util.Success(ctx, gin.H{"valid": false, "message": "Missing or invalid token"})
		return
	}

	admin, err := c.AuthService.VerifyAdmin(ctx.Request.Context(), token)
	if err != nil {
		util.Success(ctx, gin.H{"valid": false, "message": "Invalid or expired token"})
		return
	}

	util.Success(ctx, gin.H{"valid": true, "username": admin.Username})
}

// @Summary 获取社区守则
// @Description 返回启用的守则文本，按显示顺序排列
// @Tags 管理员
// @Produce json
// @Success 200 {object} util.Response{data=[]string}
// @Router /admin/guidelines [get]
func (c *AdminController) Guidelines(ctx *gin.Context) {
	texts, err := c.GuidelineService.ActiveTexts(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, texts)
}

// @Summary 获取全部守则
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Guideline}
// @Router /admin/guidelines/all [get]
func (c *AdminController) AllGuidelines(ctx *gin.Context) {
	guidelines, err := c.GuidelineService.ListAll(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, guidelines)
}

// @Summary 新增守则
// @Description 自动追加到末尾
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.GuidelineRequest true "守则内容"
// @Success 201 {object} util.Response{data=model.Guideline}
// @Router /admin/guidelines [post]
func (c *AdminController) CreateGuideline(ctx *gin.Context) {
	var req service.GuidelineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	guideline, err := c.GuidelineService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, guideline)
}

// @Summary 修改守则
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "守则ID"
// @Param body body service.GuidelineUpdateRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Guideline}
// @Failure 404 {object} util.Response
// @Router /admin/guidelines/{id} [put]
func (c *AdminController) UpdateGuideline(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid guideline id")
		return
	}

	var req service.GuidelineUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	guideline, err := c.GuidelineService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, guideline)
}

// @Summary 删除守则
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Param id path int true "守则ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/guidelines/{id} [delete]
func (c *AdminController) DeleteGuideline(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid guideline id")
		return
	}

	if err := c.GuidelineService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 常见问题
// @Tags 管理员
// @Produce json
// @Success 200 {object} util.Response{data=[]model.FAQItem}
// @Router /admin/faq [get]
func (c *AdminController) FAQ(ctx *gin.Context) {
	util.Success(ctx, service.FAQ())
}
