package controller

import (
	"debate_backend/internal/model"
	"debate_backend/internal/service"
	"debate_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	VoteService     *service.VoteService
}

func NewQuestionController(questionService *service.QuestionService, voteService *service.VoteService) *QuestionController {
	return &QuestionController{QuestionService: questionService, VoteService: voteService}
}

// @Summary 获取辩题下的问题
// @Description 每个问题带完整的嵌套回复树、附件和证据链接
// @Tags 问题
// @Produce json
// @Param topicId path string true "辩题ID"
// @Success 200 {object} util.Response{data=[]model.QuestionView}
// @Failure 404 {object} util.Response
// @Router /questions/topic/{topicId} [get]
func (c *QuestionController) ListByTopic(ctx *gin.Context) {
	questions, err := c.QuestionService.ListByTopic(ctx.Request.Context(), ctx.Param("topicId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

// @Summary 获取单个问题
// @Tags 问题
// @Produce json
// @Param id path string true "问题ID"
// @Success 200 {object} util.Response{data=model.QuestionView}
// @Failure 404 {object} util.Response
// @Router /questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	question, err := c.QuestionService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

// @Summary 提出问题
// @Description 可匿名提交；登录用户未填写作者时使用令牌中的身份
// @Tags 问题
// @Accept json
// @Produce json
// @Param body body service.QuestionRequest true "问题内容"
// @Success 201 {object} util.Response{data=model.QuestionView}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Create(ctx.Request.Context(), req, util.GetUserFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, question)
}

// @Summary 修改问题
// @Tags 问题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Param body body service.QuestionUpdateRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.QuestionView}
// @Failure 404 {object} util.Response
// @Router /questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	var req service.QuestionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

// @Summary 删除问题
// @Description 级联删除所有层级的回复及其附件
// @Tags 问题
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	if err := c.QuestionService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 为问题投票
// @Description voteType 为 up 或 down（不区分大小写），允许重复投票
// @Tags 问题
// @Accept json
// @Produce json
// @Param id path string true "问题ID"
// @Param body body service.VoteRequest true "投票方向"
// @Success 200 {object} util.Response{data=model.VoteResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /questions/{id}/vote [put]
func (c *QuestionController) Vote(ctx *gin.Context) {
	var req service.VoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	target := model.ParentRef{Kind: model.ParentQuestion, ID: ctx.Param("id")}
	result, err := c.VoteService.Vote(ctx.Request.Context(), target, req.VoteType)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
