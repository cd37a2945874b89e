package controller

import (
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

// QuizAttemptController 学生侧作答接口
type QuizAttemptController struct {
	AttemptService *service.QuizAttemptService
}

func NewQuizAttemptController(attemptService *service.QuizAttemptService) *QuizAttemptController {
	return &QuizAttemptController{AttemptService: attemptService}
}

// SubmitRequest 提交作答请求
// swagger:model SubmitRequest
type SubmitRequest struct {
	Answers []service.AnswerSubmission `json:"answers" binding:"required"`
}

// StartAttempt godoc
// @Summary 开始作答
// @Description 返回测验内容（不含正确答案）。已通过的用户直接返回通过记录。
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验 ID"
// @Success 200 {object} util.Response{data=service.StartResult}
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response "测验不存在"
// @Failure 422 {object} util.Response "测验未发布或次数已用尽"
// @Router /api/quizzes/{id}/attempt [post]
func (c *QuizAttemptController) StartAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID := util.MustParseUint(ctx.Param("id"))
	result, err := c.AttemptService.StartAttempt(claims.UserID, quizID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	if result.AlreadyPassed {
		util.SuccessWithMessage(ctx, result.Message, result)
		return
	}
	util.Created(ctx, result)
}

// SubmitAttempt godoc
// @Summary 提交作答
// @Description 评分并返回结果。答案中任何无效的题目/选项组合都会整体拒绝。
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作答 ID"
// @Param   body body SubmitRequest true "答案列表"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 403 {object} util.Response "不是本人的作答"
// @Failure 422 {object} util.Response "作答已完成或答案无效"
// @Router /api/attempts/{id}/submit [post]
func (c *QuizAttemptController) SubmitAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attemptID := util.MustParseUint(ctx.Param("id"))
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AttemptService.SubmitAttempt(claims.UserID, attemptID, req.Answers)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	monitoring.QuizSubmissions.WithLabelValues(strconv.FormatBool(result.IsPassed)).Inc()
	util.SuccessWithMessage(ctx, result.Message, result)
}

// AttemptHistory godoc
// @Summary 我的作答历史
// @Description quizId 省略时返回全部测验的作答
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Param   quizId query int false "测验 ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/attempts [get]
func (c *QuizAttemptController) AttemptHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID := util.MustParseUint(ctx.DefaultQuery("quizId", "0"))
	attempts, err := c.AttemptService.AttemptHistory(claims.UserID, quizID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// AttemptDetails godoc
// @Summary 作答详情
// @Description 已完成作答的逐题批改，包含正确答案
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作答 ID"
// @Success 200 {object} util.Response{data=service.AttemptReview}
// @Failure 403 {object} util.Response "不是本人的作答"
// @Failure 422 {object} util.Response "作答尚未完成"
// @Router /api/attempts/{id} [get]
func (c *QuizAttemptController) AttemptDetails(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attemptID := util.MustParseUint(ctx.Param("id"))
	review, err := c.AttemptService.AttemptDetails(claims.UserID, attemptID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, review)
}
