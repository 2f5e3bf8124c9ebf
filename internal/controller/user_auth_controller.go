package controller

import (
	"debate_backend/internal/model"
	"debate_backend/internal/service"
	"debate_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserAuthController 终端用户 Google 登录
type UserAuthController struct {
	UserAuthService *service.UserAuthService
}

func NewUserAuthController(userAuthService *service.UserAuthService) *UserAuthController {
	return &UserAuthController{UserAuthService: userAuthService}
}

// @Summary Google 登录
// @Description 校验 Google ID token，首次登录自动注册
// @Tags 用户认证
// @Accept json
// @Produce json
// @Param body body service.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} util.Response{data=model.UserLoginResponse}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /auth/google [post]
func (c *UserAuthController) GoogleLogin(ctx *gin.Context) {
	var req service.GoogleLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.UserAuthService.AuthenticateWithGoogle(ctx.Request.Context(), req.Token)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, resp)
}

// @Summary 当前用户
// @Tags 用户认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.UserInfo}
// @Failure 401 {object} util.Response
// @Router /auth/me [get]
func (c *UserAuthController) Me(ctx *gin.Context) {
	user, err := c.UserAuthService.CurrentUser(ctx.Request.Context(), util.GetUserFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, model.NewUserInfo(user))
}

// @Summary 校验用户令牌
// @Description 始终返回 200，通过 valid 字段表示结果
// @Tags 用户认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /auth/validate [get]
func (c *UserAuthController) Validate(ctx *gin.Context) {
	token := util.BearerToken(ctx.GetHeader("Authorization"))
	if token == "" {
		util.Success(ctx, gin.H{"valid": false, "message": "Missing or invalid token"})
		return
	}

	user, err := c.UserAuthService.ValidateToken(ctx.Request.Context(), token)
	if err != nil {
		util.Success(ctx, gin.H{"valid": false, "message": "Invalid or expired token"})
		return
	}

	util.Success(ctx, gin.H{"valid": true, "user": model.NewUserInfo(user)})
}

// @Summary 退出登录
// @Description 令牌无状态，由客户端丢弃
// @Tags 用户认证
// @Produce json
// @Success 200 {object} util.Response
// @Router /auth/logout [post]
func (c *UserAuthController) Logout(ctx *gin.Context) {
	util.Success(ctx, gin.H{"success": true, "message": "Logged out successfully"})
}
