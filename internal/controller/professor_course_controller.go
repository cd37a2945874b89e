package controller

import (
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ProfessorCourseController 教师侧课程、模块、课时管理。
// 除创建课程外，所有操作都要求调用者是该课程的教师（管理员放行）。
type ProfessorCourseController struct {
	CourseService *service.CourseService
	Access        *service.AccessService
}

func NewProfessorCourseController(courseService *service.CourseService, access *service.AccessService) *ProfessorCourseController {
	return &ProfessorCourseController{CourseService: courseService, Access: access}
}

// requireCourseOwner 校验课程归属，不通过时已写响应
func (c *ProfessorCourseController) requireCourseOwner(ctx *gin.Context, courseID uint) bool {
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

// MyTaughtCourses godoc
// @Summary 我教授的课程
// @Tags 教师端
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/professor/courses [get]
func (c *ProfessorCourseController) MyTaughtCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courses, err := c.CourseService.CoursesByProfessor(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 教师端
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/professor/courses [post]
func (c *ProfessorCourseController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 教师端
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程 ID"
// @Param   body body service.CourseRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response "非课程教师"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/professor/courses/{id} [put]
func (c *ProfessorCourseController) UpdateCourse(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))
	if !c.requireCourseOwner(ctx, courseID) {
		return
	}

	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(courseID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Tags 教师端
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程 ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "非课程教师"
// @Router /api/professor/courses/{id} [delete]
func (c *ProfessorCourseController) DeleteCourse(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))
	if !c.requireCourseOwner(ctx, courseID) {
		return
	}

	if err := c.CourseService.DeleteCourse(courseID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "course deleted", nil)
}

// CourseEnrollments godoc
// @Summary 课程选课名单
// @Tags 教师端
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程 ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Failure 403 {object} util.Response "非课程教师"
// @Router /api/professor/courses/{id}/enrollments [get]
func (c *ProfessorCourseController) CourseEnrollments(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))
	if !c.requireCourseOwner(ctx, courseID) {
		return
	}

	enrollments, err := c.CourseService.CourseEnrollments(courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// AddModule godoc
// @Summary 创建课程模块
// @Tags 教师端
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程 ID"
// @Param   body body service.ModuleRequest true "模块信息"
// @Success 201 {object} util.Response{data=model.CourseModule}
// @Failure 403 {object} util.Response "非课程教师"
// @Router /api/professor/courses/{id}/modules [post]
func (c *ProfessorCourseController) AddModule(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))
	if !c.requireCourseOwner(ctx, courseID) {
		return
	}

	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.AddModule(courseID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// UpdateModule godoc
// @Summary 更新课程模块
// @Tags 教师端
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Param   body body service.ModuleRequest true "模块信息"
// @Success 200 {object} util.Response{data=model.CourseModule}
// @Router /api/professor/modules/{id} [put]
func (c *ProfessorCourseController) UpdateModule(ctx *gin.Context) {
	moduleID := util.MustParseUint(ctx.Param("id"))
	courseID, err := c.Access.CourseIDForModule(moduleID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.requireCourseOwner(ctx, courseID) {
		return
	}

	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.UpdateModule(moduleID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// DeleteModule godoc
// @Summary 删除课程模块
// @Tags 教师端
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Success 200 {object} util.Response
// @Router /api/professor/modules/{id} [delete]
func (c *ProfessorCourseController) DeleteModule(ctx *gin.Context) {
	moduleID := util.MustParseUint(ctx.Param("id"))
	courseID, err := c.Access.CourseIDForModule(moduleID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.requireCourseOwner(ctx, courseID) {
		return
	}

	if err := c.CourseService.DeleteModule(moduleID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "module deleted", nil)
}

// AddLesson godoc
// @Summary 创建课时
// @Tags 教师端
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Param   body body service.LessonRequest true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Router /api/professor/modules/{id}/lessons [post]
func (c *ProfessorCourseController) AddLesson(ctx *gin.Context) {
	moduleID := util.MustParseUint(ctx.Param("id"))
	courseID, err := c.Access.CourseIDForModule(moduleID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.requireCourseOwner(ctx, courseID) {
		return
	}

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CourseService.AddLesson(moduleID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary 更新课时
// @Tags 教师端
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时 ID"
// @Param   body body service.LessonRequest true "课时信息"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/professor/lessons/{id} [put]
func (c *ProfessorCourseController) UpdateLesson(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	lesson, err := c.CourseService.CourseRepo.FindLessonByID(lessonID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	courseID, err := c.Access.CourseIDForModule(lesson.ModuleID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.requireCourseOwner(ctx, courseID) {
		return
	}

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.CourseService.UpdateLesson(lessonID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// DeleteLesson godoc
// @Summary 删除课时
// @Tags 教师端
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时 ID"
// @Success 200 {object} util.Response
// @Router /api/professor/lessons/{id} [delete]
func (c *ProfessorCourseController) DeleteLesson(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	lesson, err := c.CourseService.CourseRepo.FindLessonByID(lessonID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	courseID, err := c.Access.CourseIDForModule(lesson.ModuleID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.requireCourseOwner(ctx, courseID) {
		return
	}

	if err := c.CourseService.DeleteLesson(lessonID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "lesson deleted", nil)
}
