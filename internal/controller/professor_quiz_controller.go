package controller

import (
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ProfessorQuizController 教师侧测验、题目、选项管理及作答统计
type ProfessorQuizController struct {
	QuizService    *service.QuizService
	AttemptService *service.QuizAttemptService
	Access         *service.AccessService
}

func NewProfessorQuizController(
	quizService *service.QuizService,
	attemptService *service.QuizAttemptService,
	access *service.AccessService,
) *ProfessorQuizController {
	return &ProfessorQuizController{
		QuizService:    quizService,
		AttemptService: attemptService,
		Access:         access,
	}
}

func (c *ProfessorQuizController) requireCourseOwner(ctx *gin.Context, courseID uint) bool {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return false
	}
	if claims.Role == model.Admin {
		return true
	}
	owner, err := c.Access.IsCourseOwner(claims.UserID, courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return false
	}
	if !owner {
		util.Forbidden(ctx)
		return false
	}
	return true
}

func (c *ProfessorQuizController) requireQuizOwner(ctx *gin.Context, quizID uint) bool {
	courseID, err := c.Access.CourseIDForQuiz(quizID)
	if err != nil {
		handleServiceError(ctx, err)
		return false
	}
	return c.requireCourseOwner(ctx, courseID)
}

func (c *ProfessorQuizController) requireQuestionOwner(ctx *gin.Context, questionID uint) bool {
	question, err := c.QuizService.QuizRepo.FindQuestionByID(questionID)
	if err != nil {
		handleServiceError(ctx, err)
		return false
	}
	return c.requireQuizOwner(ctx, question.QuizID)
}

// CreateQuiz godoc
// @Summary 创建测验
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Param   body body service.QuizRequest true "测验信息"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 403 {object} util.Response "非课程教师"
// @Router /api/professor/modules/{id}/quizzes [post]
func (c *ProfessorQuizController) CreateQuiz(ctx *gin.Context) {
	moduleID := util.MustParseUint(ctx.Param("id"))
	courseID, err := c.Access.CourseIDForModule(moduleID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.requireCourseOwner(ctx, courseID) {
		return
	}

	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(moduleID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// ModuleQuizzes godoc
// @Summary 模块下的测验列表（含未发布）
// @Tags 测验管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/professor/modules/{id}/quizzes [get]
func (c *ProfessorQuizController) ModuleQuizzes(ctx *gin.Context) {
	moduleID := util.MustParseUint(ctx.Param("id"))
	courseID, err := c.Access.CourseIDForModule(moduleID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.requireCourseOwner(ctx, courseID) {
		return
	}

	quizzes, err := c.QuizService.QuizzesByModule(moduleID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// UpdateQuiz godoc
// @Summary 更新测验
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验 ID"
// @Param   body body service.QuizRequest true "测验信息"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/professor/quizzes/{id} [put]
func (c *ProfessorQuizController) UpdateQuiz(ctx *gin.Context) {
	quizID := util.MustParseUint(ctx.Param("id"))
	if !c.requireQuizOwner(ctx, quizID) {
		return
	}

	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateQuiz(quizID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// QuizDetail godoc
// @Summary 测验详情（含正确答案）
// @Tags 测验管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验 ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/professor/quizzes/{id} [get]
func (c *ProfessorQuizController) QuizDetail(ctx *gin.Context) {
	quizID := util.MustParseUint(ctx.Param("id"))
	if !c.requireQuizOwner(ctx, quizID) {
		return
	}

	quiz, err := c.QuizService.QuizWithQuestions(quizID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Description 连同题目、选项和历史作答一起删除
// @Tags 测验管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验 ID"
// @Success 200 {object} util.Response
// @Router /api/professor/quizzes/{id} [delete]
func (c *ProfessorQuizController) DeleteQuiz(ctx *gin.Context) {
	quizID := util.MustParseUint(ctx.Param("id"))
	if !c.requireQuizOwner(ctx, quizID) {
		return
	}

	if err := c.QuizService.DeleteQuiz(quizID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "quiz deleted", nil)
}

// AddQuestion godoc
// @Summary 添加题目
// @Description 题目与选项一起创建，至少 2 个选项
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验 ID"
// @Param   body body service.QuestionRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.QuizQuestion}
// @Failure 422 {object} util.Response "选项不足"
// @Router /api/professor/quizzes/{id}/questions [post]
func (c *ProfessorQuizController) AddQuestion(ctx *gin.Context) {
	quizID := util.MustParseUint(ctx.Param("id"))
	if !c.requireQuizOwner(ctx, quizID) {
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuizService.AddQuestion(quizID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// UpdateQuestionRequest 题目更新请求
type UpdateQuestionRequest struct {
	QuestionText string  `json:"questionText" binding:"required"`
	QuestionType string  `json:"questionType"`
	Points       float64 `json:"points"`
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目 ID"
// @Param   body body UpdateQuestionRequest true "题目信息"
// @Success 200 {object} util.Response{data=model.QuizQuestion}
// @Router /api/professor/questions/{id} [put]
func (c *ProfessorQuizController) UpdateQuestion(ctx *gin.Context) {
	questionID := util.MustParseUint(ctx.Param("id"))
	if !c.requireQuestionOwner(ctx, questionID) {
		return
	}

	var req UpdateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuizService.UpdateQuestion(questionID, req.QuestionText, req.QuestionType, req.Points)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 测验管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目 ID"
// @Success 200 {object} util.Response
// @Router /api/professor/questions/{id} [delete]
func (c *ProfessorQuizController) DeleteQuestion(ctx *gin.Context) {
	questionID := util.MustParseUint(ctx.Param("id"))
	if !c.requireQuestionOwner(ctx, questionID) {
		return
	}

	if err := c.QuizService.DeleteQuestion(questionID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "question deleted", nil)
}

// AddOption godoc
// @Summary 添加选项
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目 ID"
// @Param   body body service.OptionRequest true "选项信息"
// @Success 201 {object} util.Response{data=model.QuestionOption}
// @Router /api/professor/questions/{id}/options [post]
func (c *ProfessorQuizController) AddOption(ctx *gin.Context) {
	questionID := util.MustParseUint(ctx.Param("id"))
	if !c.requireQuestionOwner(ctx, questionID) {
		return
	}

	var req service.OptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	option, err := c.QuizService.AddOption(questionID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, option)
}

// UpdateOption godoc
// @Summary 更新选项
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "选项 ID"
// @Param   body body service.OptionRequest true "选项信息"
// @Success 200 {object} util.Response{data=model.QuestionOption}
// @Router /api/professor/options/{id} [put]
func (c *ProfessorQuizController) UpdateOption(ctx *gin.Context) {
	optionID := util.MustParseUint(ctx.Param("id"))
	option, err := c.QuizService.QuizRepo.FindOptionByID(optionID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.requireQuestionOwner(ctx, option.QuestionID) {
		return
	}

	var req service.OptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.QuizService.UpdateOption(optionID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// DeleteOption godoc
// @Summary 删除选项
// @Description 题目至少保留 2 个选项
// @Tags 测验管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "选项 ID"
// @Success 200 {object} util.Response
// @Failure 422 {object} util.Response "选项数量已到下限"
// @Router /api/professor/options/{id} [delete]
func (c *ProfessorQuizController) DeleteOption(ctx *gin.Context) {
	optionID := util.MustParseUint(ctx.Param("id"))
	option, err := c.QuizService.QuizRepo.FindOptionByID(optionID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.requireQuestionOwner(ctx, option.QuestionID) {
		return
	}

	if err := c.QuizService.DeleteOption(optionID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "option deleted", nil)
}

// QuizAttempts godoc
// @Summary 测验作答列表
// @Tags 测验管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验 ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/professor/quizzes/{id}/attempts [get]
func (c *ProfessorQuizController) QuizAttempts(ctx *gin.Context) {
	quizID := util.MustParseUint(ctx.Param("id"))
	if !c.requireQuizOwner(ctx, quizID) {
		return
	}

	attempts, err := c.AttemptService.AttemptsByQuiz(quizID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// ReviewAttempt godoc
// @Summary 查看单次作答
// @Tags 测验管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作答 ID"
// @Success 200 {object} util.Response{data=service.AttemptReview}
// @Router /api/professor/attempts/{id} [get]
func (c *ProfessorQuizController) ReviewAttempt(ctx *gin.Context) {
	attemptID := util.MustParseUint(ctx.Param("id"))
	attempt, err := c.AttemptService.AttemptRepo.FindByID(attemptID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.requireQuizOwner(ctx, attempt.QuizID) {
		return
	}

	review, err := c.AttemptService.ReviewAttempt(attemptID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, review)
}

// QuizStatistics godoc
// @Summary 测验统计
// @Description 完成人数、平均分、通过率及逐题正确率
// @Tags 测验管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验 ID"
// @Success 200 {object} util.Response{data=service.QuizStatistics}
// @Router /api/professor/quizzes/{id}/statistics [get]
func (c *ProfessorQuizController) QuizStatistics(ctx *gin.Context) {
	quizID := util.MustParseUint(ctx.Param("id"))
	if !c.requireQuizOwner(ctx, quizID) {
		return
	}

	stats, err := c.AttemptService.Statistics(quizID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
