package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

func (r *QuizAttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *QuizAttemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByIDWithAnswers 加载作答及其答案、题目、所选选项
func (r *QuizAttemptRepository) FindByIDWithAnswers(id uint) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	err := r.DB.Preload("Quiz").
		Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.SelectedOption").
		First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindPassedAttempt 查找用户在该测验下已通过的作答，不存在时返回 (nil, nil)
func (r *QuizAttemptRepository) FindPassedAttempt(userID, quizID uint) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ? AND is_passed = ?", userID, quizID, true).First(&a).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *QuizAttemptRepository) CountByUserAndQuiz(userID, quizID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return count, err
}

// ListByUser 按时间倒序返回用户的历史作答，quizID 为 0 时不过滤
func (r *QuizAttemptRepository) ListByUser(userID, quizID uint) ([]model.QuizAttempt, error) {
	query := r.DB.Preload("Quiz").Where("user_id = ?", userID)
	if quizID > 0 {
		query = query.Where("quiz_id = ?", quizID)
	}
	var attempts []model.QuizAttempt
	err := query.Order("created_at DESC").Find(&attempts).Error
	return attempts, err
}

func (r *QuizAttemptRepository) ListByQuiz(quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.SelectedOption").
		Where("quiz_id = ?", quizID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

// --- 统计只读查询 ---

func (r *QuizAttemptRepository) CountCompleted(quizID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("quiz_id = ? AND status = ?", quizID, model.AttemptCompleted).
		Count(&count).Error
	return count, err
}

func (r *QuizAttemptRepository) CountPassed(quizID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("quiz_id = ? AND status = ? AND is_passed = ?", quizID, model.AttemptCompleted, true).
		Count(&count).Error
	return count, err
}

func (r *QuizAttemptRepository) AverageScore(quizID uint) (float64, error) {
	var avg float64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("quiz_id = ? AND status = ?", quizID, model.AttemptCompleted).
		Select("AVG(score)").
		Scan(&avg).Error
	return avg, err
}

// CountAnswers 统计某题收到的作答数，通过 attempt 反查约束在该测验范围内
func (r *QuizAttemptRepository) CountAnswers(quizID, questionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.StudentAnswer{}).
		Joins("JOIN quiz_attempts ON quiz_attempts.id = student_answers.attempt_id").
		Where("student_answers.question_id = ? AND quiz_attempts.quiz_id = ?", questionID, quizID).
		Count(&count).Error
	return count, err
}

// CountCorrectAnswers 统计某题选中正确选项的作答数
func (r *QuizAttemptRepository) CountCorrectAnswers(quizID, questionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.StudentAnswer{}).
		Joins("JOIN quiz_attempts ON quiz_attempts.id = student_answers.attempt_id").
		Joins("JOIN question_options ON question_options.id = student_answers.option_id").
		Where("student_answers.question_id = ? AND quiz_attempts.quiz_id = ? AND question_options.is_correct = ?",
			questionID, quizID, true).
		Count(&count).Error
	return count, err
}
