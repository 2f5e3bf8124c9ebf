package controller

import (
	"debate_backend/internal/service"
	"debate_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TopicController 辩题管理
type TopicController struct {
	TopicService *service.TopicService
}

func NewTopicController(topicService *service.TopicService) *TopicController {
	return &TopicController{TopicService: topicService}
}

// @Summary 获取辩题列表
// @Description 按创建时间倒序返回辩题，可按启用状态过滤
// @Tags 辩题
// @Produce json
// @Param active query bool false "只返回启用/停用的辩题"
// @Success 200 {object} util.Response{data=[]model.Topic}
// @Failure 400 {object} util.Response
// @Router /topics [get]
func (c *TopicController) ListTopics(ctx *gin.Context) {
	active, err := util.ParseOptionalBool(ctx.Query("active"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	topics, err := c.TopicService.List(ctx.Request.Context(), active)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, topics)
}

// @Summary 获取辩题详情
// @Tags 辩题
// @Produce json
// @Param id path string true "辩题ID"
// @Success 200 {object} util.Response{data=model.Topic}
// @Failure 404 {object} util.Response
// @Router /topics/{id} [get]
func (c *TopicController) GetTopic(ctx *gin.Context) {
	topic, err := c.TopicService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, topic)
}

// @Summary 创建辩题
// @Description 标题重复时返回 409
// @Tags 辩题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.TopicRequest true "辩题信息"
// @Success 201 {object} util.Response{data=model.Topic}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /topics [post]
func (c *TopicController) CreateTopic(ctx *gin.Context) {
	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.TopicService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, topic)
}

// @Summary 更新辩题
// @Tags 辩题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "辩题ID"
// @Param body body service.TopicUpdateRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Topic}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /topics/{id} [put]
func (c *TopicController) UpdateTopic(ctx *gin.Context) {
	var req service.TopicUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.TopicService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, topic)
}

// @Summary 删除辩题
// @Description 级联删除其下所有问题、回复、附件和证据链接
// @Tags 辩题
// @Produce json
// @Security BearerAuth
// @Param id path string true "辩题ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /topics/{id} [delete]
func (c *TopicController) DeleteTopic(ctx *gin.Context) {
	if err := c.TopicService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
