package controller

import (
	"debate_backend/internal/model"
	"debate_backend/internal/service"
	"debate_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReplyController struct {
	ReplyService *service.ReplyService
	VoteService  *service.VoteService
}

func NewReplyController(replyService *service.ReplyService, voteService *service.VoteService) *ReplyController {
	return &ReplyController{ReplyService: replyService, VoteService: voteService}
}

// @Summary 获取问题的直接回复
// @Description 每条回复带完整子树
// @Tags 回复
// @Produce json
// @Param questionId path string true "问题ID"
// @Success 200 {object} util.Response{data=[]model.ReplyView}
// @Failure 404 {object} util.Response
// @Router /replies/question/{questionId} [get]
func (c *ReplyController) ListByQuestion(ctx *gin.Context) {
	replies, err := c.ReplyService.ListByQuestion(ctx.Request.Context(), ctx.Param("questionId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, replies)
}

// @Summary 获取回复及其子树
// @Tags 回复
// @Produce json
// @Param id path string true "回复ID"
// @Success 200 {object} util.Response{data=model.ReplyView}
// @Failure 404 {object} util.Response
// @Router /replies/{id} [get]
func (c *ReplyController) GetReply(ctx *gin.Context) {
	reply, err := c.ReplyService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, reply)
}

// @Summary 发表回复
// @Description questionId 与 parentReplyId 必须且只能提供一个，层级由服务端计算
// @Tags 回复
// @Accept json
// @Produce json
// @Param body body service.ReplyRequest true "回复内容"
// @Success 201 {object} util.Response{data=model.ReplyView}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /replies [post]
func (c *ReplyController) CreateReply(ctx *gin.Context) {
	var req service.ReplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.ReplyService.Create(ctx.Request.Context(), req, util.GetUserFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, reply)
}

// @Summary 修改回复
// @Tags 回复
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "回复ID"
// @Param body body service.ReplyUpdateRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.ReplyView}
// @Failure 404 {object} util.Response
// @Router /replies/{id} [put]
func (c *ReplyController) UpdateReply(ctx *gin.Context) {
	var req service.ReplyUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.ReplyService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, reply)
}

// @Summary 删除回复
// @Description 级联删除所有子回复及附件
// @Tags 回复
// @Produce json
// @Security BearerAuth
// @Param id path string true "回复ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /replies/{id} [delete]
func (c *ReplyController) DeleteReply(ctx *gin.Context) {
	if err := c.ReplyService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 为回复投票
// @Tags 回复
// @Accept json
// @Produce json
// @Param id path string true "回复ID"
// @Param body body service.VoteRequest true "投票方向"
// @Success 200 {object} util.Response{data=model.VoteResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /replies/{id}/vote [put]
func (c *ReplyController) Vote(ctx *gin.Context) {
	var req service.VoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	target := model.ParentRef{Kind: model.ParentReply, ID: ctx.Param("id")}
	result, err := c.VoteService.Vote(ctx.Request.Context(), target, req.VoteType)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
