package controller

import (
	"debate_backend/internal/service"
	"debate_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// FileController 附件上传和证据链接
type FileController struct {
	AttachmentService *service.AttachmentService
}

func NewFileController(attachmentService *service.AttachmentService) *FileController {
	return &FileController{AttachmentService: attachmentService}
}

// @Summary 上传附件
// @Description questionId 与 replyId 必须且只能提供一个，超过大小上限返回 400
// @Tags 文件
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "文件"
// @Param questionId formData string false "问题ID"
// @Param replyId formData string false "回复ID"
// @Param uploadedBy formData string false "上传者"
// @Param displayOrder formData int false "显示顺序"
// @Success 201 {object} util.Response{data=model.AttachmentView}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/files/upload [post]
func (c *FileController) Upload(ctx *gin.Context) {
	var req service.UploadRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	attachment, err := c.AttachmentService.Upload(ctx.Request.Context(), req, file)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, attachment)
}

// @Summary 获取附件列表
// @Tags 文件
// @Produce json
// @Param questionId query string false "问题ID"
// @Param replyId query string false "回复ID"
// @Success 200 {object} util.Response{data=[]model.AttachmentView}
// @Failure 400 {object} util.Response
// @Router /api/files/attachments [get]
func (c *FileController) ListAttachments(ctx *gin.Context) {
	attachments, err := c.AttachmentService.ListAttachments(ctx.Request.Context(), ctx.Query("questionId"), ctx.Query("replyId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, attachments)
}

// @Summary 删除附件
// @Description 同时删除存储中的文件
// @Tags 文件
// @Produce json
// @Security BearerAuth
// @Param id path string true "附件ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/files/attachments/{id} [delete]
func (c *FileController) DeleteAttachment(ctx *gin.Context) {
	if err := c.AttachmentService.DeleteAttachment(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 添加证据链接
// @Description 只接受 http/https 链接，questionId 与 replyId 必须且只能提供一个
// @Tags 文件
// @Accept json
// @Produce json
// @Param body body service.EvidenceRequest true "证据链接"
// @Success 201 {object} util.Response{data=model.EvidenceView}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/files/evidence-url [post]
func (c *FileController) AddEvidence(ctx *gin.Context) {
	var req service.EvidenceRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	evidence, err := c.AttachmentService.AddEvidence(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, evidence)
}

// @Summary 获取证据链接列表
// @Tags 文件
// @Produce json
// @Param questionId query string false "问题ID"
// @Param replyId query string false "回复ID"
// @Success 200 {object} util.Response{data=[]model.EvidenceView}
// @Failure 400 {object} util.Response
// @Router /api/files/evidence-urls [get]
func (c *FileController) ListEvidence(ctx *gin.Context) {
	evidence, err := c.AttachmentService.ListEvidence(ctx.Request.Context(), ctx.Query("questionId"), ctx.Query("replyId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, evidence)
}

// @Summary 删除证据链接
// @Tags 文件
// @Produce json
// @Security BearerAuth
// @Param id path string true "证据链接ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/files/evidence-url/{id} [delete]
func (c *FileController) DeleteEvidence(ctx *gin.Context) {
	if err := c.AttachmentService.DeleteEvidence(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
