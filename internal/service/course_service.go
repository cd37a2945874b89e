package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	CategoryRepo   *repository.CategoryRepository
	EnrollmentRepo *repository.EnrollmentRepository
	DB             *gorm.DB
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	categoryRepo *repository.CategoryRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	db *gorm.DB,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		CategoryRepo:   categoryRepo,
		EnrollmentRepo: enrollmentRepo,
		DB:             db,
	}
}

type CourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	CategoryID  *uint   `json:"categoryId"`
	CoverURL    string  `json:"coverUrl"`
	Price       float64 `json:"price"`
	IsPublished bool    `json:"isPublished"`
}

type ModuleRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type LessonRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	Duration int    `json:"duration"`
	Order    int    `json:"order"`
}

func (s *CourseService) ListPublished(page, limit int) ([]model.Course, int64, error) {
	return s.CourseRepo.ListPublished(page, limit)
}

func (s *CourseService) CourseDetail(id uint) (*model.Course, error) {
	return s.CourseRepo.FindByIDWithContent(id)
}

// Enroll 选课，重复选课返回 ErrAlreadyEnrolled
func (s *CourseService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, util.ErrPermissionDenied
	}

	exists, err := s.EnrollmentRepo.Exists(userID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrAlreadyEnrolled
	}

	enrollment := &model.Enrollment{UserID: userID, CourseID: courseID}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *CourseService) MyCourses(userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByUser(userID)
}

func (s *CourseService) CoursesByProfessor(userID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByProfessor(userID)
}

func (s *CourseService) CourseEnrollments(courseID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByCourse(courseID)
}

// CreateCourse 创建课程并把创建者登记为课程教师
func (s *CourseService) CreateCourse(professorID uint, req CourseRequest) (*model.Course, error) {
	var created *model.Course
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		course := &model.Course{
			Title:       req.Title,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			CoverURL:    req.CoverURL,
			Price:       req.Price,
			IsPublished: req.IsPublished,
		}
		if err := tx.Create(course).Error; err != nil {
			return err
		}
		link := &model.CourseProfessor{CourseID: course.ID, UserID: professorID}
		if err := tx.Create(link).Error; err != nil {
			return err
		}
		created = course
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *CourseService) UpdateCourse(courseID uint, req CourseRequest) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, err
	}
	course.Title = req.Title
	course.Description = req.Description
	course.CategoryID = req.CategoryID
	course.CoverURL = req.CoverURL
	course.Price = req.Price
	course.IsPublished = req.IsPublished
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse 软删除课程及其模块、课时
func (s *CourseService) DeleteCourse(courseID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var modules []model.CourseModule
		if err := tx.Where("course_id = ?", courseID).Find(&modules).Error; err != nil {
			return err
		}
		for _, m := range modules {
			if err := tx.Where("module_id = ?", m.ID).Delete(&model.Lesson{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.CourseModule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, courseID).Error
	})
}

func (s *CourseService) AddModule(courseID uint, req ModuleRequest) (*model.CourseModule, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, err
	}
	m := &model.CourseModule{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	}
	if err := s.CourseRepo.CreateModule(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CourseService) UpdateModule(moduleID uint, req ModuleRequest) (*model.CourseModule, error) {
	m, err := s.CourseRepo.FindModuleByID(moduleID)
	if err != nil {
		return nil, err
	}
	m.Title = req.Title
	m.Description = req.Description
	m.Order = req.Order
	if err := s.CourseRepo.UpdateModule(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CourseService) DeleteModule(moduleID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", moduleID).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.CourseModule{}, moduleID).Error
	})
}

func (s *CourseService) AddLesson(moduleID uint, req LessonRequest) (*model.Lesson, error) {
	if _, err := s.CourseRepo.FindModuleByID(moduleID); err != nil {
		return nil, err
	}
	l := &model.Lesson{
		ModuleID: moduleID,
		Title:    req.Title,
		Content:  req.Content,
		Duration: req.Duration,
		Order:    req.Order,
	}
	if err := s.CourseRepo.CreateLesson(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *CourseService) UpdateLesson(lessonID uint, req LessonRequest) (*model.Lesson, error) {
	l, err := s.CourseRepo.FindLessonByID(lessonID)
	if err != nil {
		return nil, err
	}
	l.Title = req.Title
	l.Content = req.Content
	l.Duration = req.Duration
	l.Order = req.Order
	if err := s.CourseRepo.UpdateLesson(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *CourseService) DeleteLesson(lessonID uint) error {
	return s.CourseRepo.DeleteLesson(lessonID)
}

// --- 课程分类（管理员） ---

func (s *CourseService) ListCategories() ([]model.Category, error) {
	return s.CategoryRepo.List()
}

func (s *CourseService) CreateCategory(c *model.Category) error {
	return s.CategoryRepo.Create(c)
}

func (s *CourseService) UpdateCategory(c *model.Category) error {
	return s.CategoryRepo.Update(c)
}

func (s *CourseService) DeleteCategory(id uint) error {
	return s.CategoryRepo.Delete(id)
}

func (s *CourseService) CategoryByID(id uint) (*model.Category, error) {
	return s.CategoryRepo.FindByID(id)
}
