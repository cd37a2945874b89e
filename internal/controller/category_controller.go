package controller

import (
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryController 课程分类，写操作仅管理员可用
type CategoryController struct {
	CourseService *service.CourseService
}

func NewCategoryController(courseService *service.CourseService) *CategoryController {
	return &CategoryController{CourseService: courseService}
}

// CategoryRequest 分类请求
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ListCategories godoc
// @Summary 分类列表
// @Tags 分类
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Category}
// @Router /api/categories [get]
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	categories, err := c.CourseService.ListCategories()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// CreateCategory godoc
// @Summary 创建分类
// @Tags 分类
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CategoryRequest true "分类信息"
// @Success 201 {object} util.Response{data=model.Category}
// @Router /api/admin/categories [post]
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category := &model.Category{Name: req.Name, Description: req.Description}
	if err := c.CourseService.CreateCategory(category); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// UpdateCategory godoc
// @Summary 更新分类
// @Tags 分类
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "分类 ID"
// @Param   body body CategoryRequest true "分类信息"
// @Success 200 {object} util.Response{data=model.Category}
// @Failure 404 {object} util.Response "分类不存在"
// @Router /api/admin/categories/{id} [put]
func (c *CategoryController) UpdateCategory(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	category, err := c.CourseService.CategoryByID(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	var req CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := c.CourseService.UpdateCategory(category); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

// DeleteCategory godoc
// @Summary 删除分类
// @Tags 分类
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "分类 ID"
// @Success 200 {object} util.Response
// @Router /api/admin/categories/{id} [delete]
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.CourseService.DeleteCategory(id); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "category deleted", nil)
}
