package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.DB.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// FindByIDWithQuestions 加载测验及题目、选项
func (r *QuizRepository) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions").Preload("Questions.Options").First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) ListByModule(moduleID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("module_id = ?", moduleID).Order("created_at DESC").Find(&quizzes).Error
	return quizzes, err
}

// --- 题目 ---

func (r *QuizRepository) CreateQuestion(q *model.QuizQuestion) error {
	return r.DB.Create(q).Error
}

func (r *QuizRepository) UpdateQuestion(q *model.QuizQuestion) error {
	return r.DB.Save(q).Error
}

func (r *QuizRepository) FindQuestionByID(id uint) (*model.QuizQuestion, error) {
	var q model.QuizQuestion
	if err := r.DB.Preload("Options").First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuizRepository) QuestionsByQuiz(quizID uint) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Preload("Options").Where("quiz_id = ?", quizID).Find(&questions).Error
	return questions, err
}

// --- 选项 ---

func (r *QuizRepository) CreateOption(o *model.QuestionOption) error {
	return r.DB.Create(o).Error
}

func (r *QuizRepository) UpdateOption(o *model.QuestionOption) error {
	return r.DB.Save(o).Error
}

func (r *QuizRepository) DeleteOption(id uint) error {
	return r.DB.Delete(&model.QuestionOption{}, id).Error
}

func (r *QuizRepository) FindOptionByID(id uint) (*model.QuestionOption, error) {
	var o model.QuestionOption
	if err := r.DB.First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *QuizRepository) CountOptions(questionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuestionOption{}).Where("question_id = ?", questionID).Count(&count).Error
	return count, err
}

// CorrectOption 返回题目的正确选项。没有任何选项被标记为正确时返回 (nil, nil)，
// 由调用方自行决定如何降级处理。
func (r *QuizRepository) CorrectOption(questionID uint) (*model.QuestionOption, error) {
	var o model.QuestionOption
	err := r.DB.Where("question_id = ? AND is_correct = ?", questionID, true).First(&o).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
