package service

import (
	"lms_backend/internal/repository"
)

// AccessService 集中处理选课与课程归属的访问判定，
// 供作答引擎和教师端接口在进入业务逻辑前调用。
type AccessService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	QuizRepo       *repository.QuizRepository
}

func NewAccessService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	quizRepo *repository.QuizRepository,
) *AccessService {
	return &AccessService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		QuizRepo:       quizRepo,
	}
}

func (s *AccessService) IsEnrolled(userID, courseID uint) (bool, error) {
	return s.EnrollmentRepo.Exists(userID, courseID)
}

func (s *AccessService) IsCourseOwner(userID, courseID uint) (bool, error) {
	return s.CourseRepo.IsProfessorOf(userID, courseID)
}

// CourseIDForModule 返回模块所属课程
func (s *AccessService) CourseIDForModule(moduleID uint) (uint, error) {
	module, err := s.CourseRepo.FindModuleByID(moduleID)
	if err != nil {
		return 0, err
	}
	return module.CourseID, nil
}

// CourseIDForQuiz 通过 quiz -> module -> course 链路定位课程
func (s *AccessService) CourseIDForQuiz(quizID uint) (uint, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return 0, err
	}
	return s.CourseIDForModule(quiz.ModuleID)
}
