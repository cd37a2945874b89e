package service

import (
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo   *repository.QuizRepository
	CourseRepo *repository.CourseRepository
	DB         *gorm.DB
}

func NewQuizService(quizRepo *repository.QuizRepository, courseRepo *repository.CourseRepository, db *gorm.DB) *QuizService {
	return &QuizService{QuizRepo: quizRepo, CourseRepo: courseRepo, DB: db}
}

type QuizRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	TimeLimit    *int     `json:"timeLimit"`
	PassingScore float64  `json:"passingScore" binding:"gte=0,lte=100"`
	IsPublished  bool     `json:"isPublished"`
	MaxAttempts  *int     `json:"maxAttempts"`
	DueDate      *string  `json:"dueDate"`
}

type OptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionRequest struct {
	QuestionText string          `json:"questionText" binding:"required"`
	QuestionType string          `json:"questionType"`
	Points       float64         `json:"points"`
	Options      []OptionRequest `json:"options" binding:"required,min=2"`
}

// parseDueDate 空字符串视为不设截止时间
func parseDueDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(util.TimeFormat, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateQuiz 在模块下创建测验
func (s *QuizService) CreateQuiz(moduleID uint, req QuizRequest) (*model.Quiz, error) {
	if _, err := s.CourseRepo.FindModuleByID(moduleID); err != nil {
		return nil, err
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}
	quiz := &model.Quiz{
		ModuleID:     moduleID,
		Title:        req.Title,
		Description:  req.Description,
		TimeLimit:    req.TimeLimit,
		PassingScore: req.PassingScore,
		IsPublished:  req.IsPublished,
		MaxAttempts:  req.MaxAttempts,
		DueDate:      dueDate,
	}
	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(quizID uint, req QuizRequest) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}
	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.TimeLimit = req.TimeLimit
	quiz.PassingScore = req.PassingScore
	quiz.IsPublished = req.IsPublished
	quiz.MaxAttempts = req.MaxAttempts
	quiz.DueDate = dueDate
	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) QuizWithQuestions(quizID uint) (*model.Quiz, error) {
	return s.QuizRepo.FindByIDWithQuestions(quizID)
}

func (s *QuizService) QuizzesByModule(moduleID uint) ([]model.Quiz, error) {
	return s.QuizRepo.ListByModule(moduleID)
}

// DeleteQuiz 删除测验及其全部题目、选项和作答记录
func (s *QuizService) DeleteQuiz(quizID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var attemptIDs []uint
		if err := tx.Model(&model.QuizAttempt{}).Where("quiz_id = ?", quizID).
			Pluck("id", &attemptIDs).Error; err != nil {
			return err
		}
		if len(attemptIDs) > 0 {
			if err := tx.Where("attempt_id IN ?", attemptIDs).
				Delete(&model.StudentAnswer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.QuizAttempt{}).Error; err != nil {
			return err
		}

		var questionIDs []uint
		if err := tx.Model(&model.QuizQuestion{}).Where("quiz_id = ?", quizID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).
				Delete(&model.QuestionOption{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, quizID).Error
	})
}

// AddQuestion 添加题目，选项随题目一并写入
func (s *QuizService) AddQuestion(quizID uint, req QuestionRequest) (*model.QuizQuestion, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		return nil, err
	}
	if len(req.Options) < 2 {
		return nil, util.ErrMinimumOptions
	}

	qType := model.QuestionType(req.QuestionType)
	if qType == "" {
		qType = model.SingleSelect
	}
	points := req.Points
	if points <= 0 {
		points = 1
	}

	var created *model.QuizQuestion
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		question := &model.QuizQuestion{
			QuizID:       quizID,
			QuestionText: req.QuestionText,
			QuestionType: qType,
			Points:       points,
		}
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		for _, o := range req.Options {
			option := &model.QuestionOption{
				QuestionID: question.ID,
				OptionText: o.Text,
				IsCorrect:  o.IsCorrect,
			}
			if err := tx.Create(option).Error; err != nil {
				return err
			}
		}
		created = question
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.QuizRepo.FindQuestionByID(created.ID)
}

func (s *QuizService) UpdateQuestion(questionID uint, text, qType string, points float64) (*model.QuizQuestion, error) {
	question, err := s.QuizRepo.FindQuestionByID(questionID)
	if err != nil {
		return nil, err
	}
	question.QuestionText = text
	if qType != "" {
		question.QuestionType = model.QuestionType(qType)
	}
	if points > 0 {
		question.Points = points
	}
	if err := s.QuizRepo.UpdateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuizService) DeleteQuestion(questionID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).
			Delete(&model.QuestionOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.QuizQuestion{}, questionID).Error
	})
}

func (s *QuizService) AddOption(questionID uint, req OptionRequest) (*model.QuestionOption, error) {
	if _, err := s.QuizRepo.FindQuestionByID(questionID); err != nil {
		return nil, err
	}
	option := &model.QuestionOption{
		QuestionID: questionID,
		OptionText: req.Text,
		IsCorrect:  req.IsCorrect,
	}
	if err := s.QuizRepo.CreateOption(option); err != nil {
		return nil, err
	}
	return option, nil
}

func (s *QuizService) UpdateOption(optionID uint, req OptionRequest) (*model.QuestionOption, error) {
	option, err := s.QuizRepo.FindOptionByID(optionID)
	if err != nil {
		return nil, err
	}
	option.OptionText = req.Text
	option.IsCorrect = req.IsCorrect
	if err := s.QuizRepo.UpdateOption(option); err != nil {
		return nil, err
	}
	return option, nil
}

// DeleteOption 题目至少保留两个选项
func (s *QuizService) DeleteOption(optionID uint) error {
	option, err := s.QuizRepo.FindOptionByID(optionID)
	if err != nil {
		return err
	}
	count, err := s.QuizRepo.CountOptions(option.QuestionID)
	if err != nil {
		return err
	}
	if count <= 2 {
		return util.ErrMinimumOptions
	}
	return s.QuizRepo.DeleteOption(optionID)
}
