package controller

import (
	"debate_backend/internal/service"
	"debate_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContactController struct {
	ContactService *service.ContactService
}

func NewContactController(contactService *service.ContactService) *ContactController {
	return &ContactController{ContactService: contactService}
}

// @Summary 提交联系留言
// @Tags 联系
// @Accept json
// @Produce json
// @Param body body service.ContactRequest true "留言内容"
// @Success 201 {object} util.Response{data=model.ContactMessage}
// @Failure 400 {object} util.Response
// @Router /contact [post]
func (c *ContactController) Submit(ctx *gin.Context) {
	var req service.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	msg, err := c.ContactService.Submit(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, msg)
}

// @Summary 获取全部留言
// @Tags 联系
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ContactMessage}
// @Router /contact/messages [get]
func (c *ContactController) ListMessages(ctx *gin.Context) {
	c.list(ctx, false)
}

// @Summary 获取未读留言
// @Tags 联系
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ContactMessage}
// @Router /contact/messages/unread [get]
func (c *ContactController) ListUnread(ctx *gin.Context) {
	c.list(ctx, true)
}

func (c *ContactController) list(ctx *gin.Context, unreadOnly bool) {
	messages, err := c.ContactService.List(ctx.Request.Context(), unreadOnly)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, messages)
}

// @Summary 标记为已读
// @Tags 联系
// @Produce json
// @Security BearerAuth
// @Param id path string true "留言ID"
// @Success 200 {object} util.Response{data=model.ContactMessage}
// @Failure 404 {object} util.Response
// @Router /contact/messages/{id}/read [put]
func (c *ContactController) MarkRead(ctx *gin.Context) {
	c.setRead(ctx, true)
}

// @Summary 标记为未读
// @Tags 联系
// @Produce json
// @Security BearerAuth
// @Param id path string true "留言ID"
// @Success 200 {object} util.Response{data=model.ContactMessage}
// @Failure 404 {object} util.Response
// @Router /contact/messages/{id}/unread [put]
func (c *ContactController) MarkUnread(ctx *gin.Context) {
	c.setRead(ctx, false)
}

func (c *ContactController) setRead(ctx *gin.Context, read bool) {
	msg, err := c.ContactService.SetRead(ctx.Request.Context(), ctx.Param("id"), read)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, msg)
}

// @Summary 删除留言
// @Tags 联系
// @Produce json
// @Security BearerAuth
// @Param id path string true "留言ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /contact/messages/{id} [delete]
func (c *ContactController) DeleteMessage(ctx *gin.Context) {
	if err := c.ContactService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
