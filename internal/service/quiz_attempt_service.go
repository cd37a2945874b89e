package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const statsCacheTTL = 5 * time.Minute

// QuizAttemptService 作答引擎：开始作答、提交评分、历史查询与统计。
// 提交是唯一的写热点，评分在一个事务里通过状态守卫更新保证只成功一次。
type QuizAttemptService struct {
	AttemptRepo *repository.QuizAttemptRepository
	QuizRepo    *repository.QuizRepository
	Access      *AccessService
	DB          *gorm.DB
	Redis       *redis.Client // 可为 nil，此时统计不走缓存
}

func NewQuizAttemptService(
	attemptRepo *repository.QuizAttemptRepository,
	quizRepo *repository.QuizRepository,
	access *AccessService,
	db *gorm.DB,
	rdb *redis.Client,
) *QuizAttemptService {
	return &QuizAttemptService{
		AttemptRepo: attemptRepo,
		QuizRepo:    quizRepo,
		Access:      access,
		DB:          db,
		Redis:       rdb,
	}
}

// --- 学生侧 DTO，开始作答的响应不暴露 is_correct ---

type OptionView struct {
	ID         uint   `json:"id"`
	OptionText string `json:"optionText"`
}

type QuestionView struct {
	ID           uint               `json:"id"`
	QuestionText string             `json:"questionText"`
	QuestionType model.QuestionType `json:"questionType"`
	Points       float64            `json:"points"`
	Options      []OptionView       `json:"options"`
}

type QuizView struct {
	ID           uint           `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	TimeLimit    *int           `json:"timeLimit,omitempty"`
	PassingScore float64        `json:"passingScore"`
	MaxAttempts  *int           `json:"maxAttempts,omitempty"`
	DueDate      *time.Time     `json:"dueDate,omitempty"`
	Questions    []QuestionView `json:"questions"`
}

type StartResult struct {
	Attempt       *model.QuizAttempt `json:"attempt"`
	Quiz          *QuizView          `json:"quiz,omitempty"`
	AlreadyPassed bool               `json:"alreadyPassed"`
	Message       string             `json:"message,omitempty"`
}

type AnswerSubmission struct {
	QuestionID uint `json:"questionId" binding:"required"`
	OptionID   uint `json:"optionId" binding:"required"`
}

type SubmitResult struct {
	AttemptID      uint    `json:"attemptId"`
	Score          float64 `json:"score"`
	CorrectCount   int     `json:"correctCount"`
	TotalQuestions int     `json:"totalQuestions"`
	IsPassed       bool    `json:"isPassed"`
	Message        string  `json:"message"`
}

type AnswerReview struct {
	QuestionID     uint        `json:"questionId"`
	QuestionText   string      `json:"questionText"`
	SelectedOption *OptionView `json:"selectedOption,omitempty"`
	IsCorrect      bool        `json:"isCorrect"`
	CorrectOption  *OptionView `json:"correctOption,omitempty"`
}

type AttemptReview struct {
	Attempt *model.QuizAttempt `json:"attempt"`
	Answers []AnswerReview     `json:"answers"`
}

type QuestionStat struct {
	QuestionID     uint    `json:"questionId"`
	QuestionText   string  `json:"questionText"`
	TotalAnswers   int64   `json:"totalAnswers"`
	CorrectAnswers int64   `json:"correctAnswers"`
	CorrectRate    float64 `json:"correctRate"`
}

type QuizStatistics struct {
	QuizID        uint           `json:"quizId"`
	TotalAttempts int64          `json:"totalAttempts"`
	AverageScore  float64        `json:"averageScore"`
	PassRate      float64        `json:"passRate"`
	Questions     []QuestionStat `json:"questions"`
}

// StartAttempt 开始一次作答。已通过的用户直接返回通过记录而不是新建；
// 达到次数上限返回 ErrAttemptLimitReached。
func (s *QuizAttemptService) StartAttempt(userID, quizID uint) (*StartResult, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}

	courseID, err := s.Access.CourseIDForQuiz(quizID)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.Access.IsEnrolled(userID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	passed, err := s.AttemptRepo.FindPassedAttempt(userID, quizID)
	if err != nil {
		return nil, err
	}
	if passed != nil {
		return &StartResult{
			Attempt:       passed,
			AlreadyPassed: true,
			Message:       "You have already passed this quiz",
		}, nil
	}

	if quiz.MaxAttempts != nil && *quiz.MaxAttempts > 0 {
		count, err := s.AttemptRepo.CountByUserAndQuiz(userID, quizID)
		if err != nil {
			return nil, err
		}
		if count >= int64(*quiz.MaxAttempts) {
			return nil, util.ErrAttemptLimitReached
		}
	}

	attempt := &model.QuizAttempt{
		UserID:    userID,
		QuizID:    quizID,
		StartTime: time.Now(),
		Status:    model.AttemptInProgress,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	return &StartResult{Attempt: attempt, Quiz: studentQuizView(quiz)}, nil
}

// studentQuizView 组装学生侧的测验内容，选项不带 is_correct
func studentQuizView(quiz *model.Quiz) *QuizView {
	view := &QuizView{
		ID:           quiz.ID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		TimeLimit:    quiz.TimeLimit,
		PassingScore: quiz.PassingScore,
		MaxAttempts:  quiz.MaxAttempts,
		DueDate:      quiz.DueDate,
		Questions:    make([]QuestionView, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		qv := QuestionView{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Points:       q.Points,
			Options:      make([]OptionView, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			qv.Options = append(qv.Options, OptionView{ID: o.ID, OptionText: o.OptionText})
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}

// SubmitAttempt 提交作答并评分。任意一条答案不合法则整体拒绝，不落任何答案；
// 并发重复提交时只有第一个事务能把状态从 in_progress 改成 completed。
func (s *QuizAttemptService) SubmitAttempt(userID, attemptID uint, answers []AnswerSubmission) (*SubmitResult, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotOwned
	}
	if attempt.Completed() {
		return nil, util.ErrAttemptAlreadyCompleted
	}

	quiz, err := s.QuizRepo.FindByIDWithQuestions(attempt.QuizID)
	if err != nil {
		return nil, err
	}
	totalQuestions := len(quiz.Questions)

	// question -> {option -> isCorrect}
	optionsByQuestion := make(map[uint]map[uint]bool, totalQuestions)
	for _, q := range quiz.Questions {
		opts := make(map[uint]bool, len(q.Options))
		for _, o := range q.Options {
			opts[o.ID] = o.IsCorrect
		}
		optionsByQuestion[q.ID] = opts
	}

	correctCount := 0
	seen := make(map[uint]bool, len(answers))
	for _, a := range answers {
		opts, ok := optionsByQuestion[a.QuestionID]
		if !ok || seen[a.QuestionID] {
			return nil, util.ErrInvalidAnswer
		}
		isCorrect, ok := opts[a.OptionID]
		if !ok {
			return nil, util.ErrInvalidAnswer
		}
		seen[a.QuestionID] = true
		if isCorrect {
			correctCount++
		}
	}

	// 未作答的题按错误计分，分母始终是题目总数；空测验直接计 0 分
	score := 0.0
	if totalQuestions > 0 {
		score = float64(correctCount) / float64(totalQuestions) * 100
	}
	isPassed := score >= quiz.PassingScore
	now := time.Now()

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.QuizAttempt{}).
			Where("id = ? AND status = ?", attemptID, model.AttemptInProgress).
			Updates(map[string]interface{}{
				"status":    model.AttemptCompleted,
				"end_time":  now,
				"score":     score,
				"is_passed": isPassed,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 另一个并发提交已经完成了这次作答
			return util.ErrAttemptAlreadyCompleted
		}
		for _, a := range answers {
			record := &model.StudentAnswer{
				AttemptID:  attemptID,
				QuestionID: a.QuestionID,
				OptionID:   a.OptionID,
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(attempt.QuizID)

	message := "Quiz completed. Better luck next time!"
	if isPassed {
		message = "Congratulations! You passed the quiz."
	}
	return &SubmitResult{
		AttemptID:      attemptID,
		Score:          score,
		CorrectCount:   correctCount,
		TotalQuestions: totalQuestions,
		IsPassed:       isPassed,
		Message:        message,
	}, nil
}

// AttemptHistory 当前用户的历史作答，quizID 为 0 时返回全部
func (s *QuizAttemptService) AttemptHistory(userID, quizID uint) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListByUser(userID, quizID)
}

// AttemptDetails 学生查看已完成作答的逐题批改，只能看自己的
func (s *QuizAttemptService) AttemptDetails(userID, attemptID uint) (*AttemptReview, error) {
	attempt, err := s.AttemptRepo.FindByIDWithAnswers(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotOwned
	}
	if !attempt.Completed() {
		return nil, util.ErrAttemptNotCompleted
	}
	return s.buildReview(attempt)
}

// ReviewAttempt 教师侧查看任意作答，归属校验由控制器完成
func (s *QuizAttemptService) ReviewAttempt(attemptID uint) (*AttemptReview, error) {
	attempt, err := s.AttemptRepo.FindByIDWithAnswers(attemptID)
	if err != nil {
		return nil, err
	}
	return s.buildReview(attempt)
}

func (s *QuizAttemptService) buildReview(attempt *model.QuizAttempt) (*AttemptReview, error) {
	review := &AttemptReview{
		Attempt: attempt,
		Answers: make([]AnswerReview, 0, len(attempt.Answers)),
	}
	for _, ans := range attempt.Answers {
		ar := AnswerReview{QuestionID: ans.QuestionID}
		if ans.Question != nil {
			ar.QuestionText = ans.Question.QuestionText
		}
		if ans.SelectedOption != nil {
			ar.SelectedOption = &OptionView{ID: ans.SelectedOption.ID, OptionText: ans.SelectedOption.OptionText}
			ar.IsCorrect = ans.SelectedOption.IsCorrect
		}
		// 题目可能没有任何正确选项，此时 correctOption 为空且该题按错误处理
		correct, err := s.QuizRepo.CorrectOption(ans.QuestionID)
		if err != nil {
			return nil, err
		}
		if correct != nil {
			ar.CorrectOption = &OptionView{ID: correct.ID, OptionText: correct.OptionText}
		}
		review.Answers = append(review.Answers, ar)
	}
	return review, nil
}

// AttemptsByQuiz 教师侧拉取某测验的全部作答
func (s *QuizAttemptService) AttemptsByQuiz(quizID uint) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListByQuiz(quizID)
}

// Statistics 测验统计，只统计已完成的作答。结果在 Redis 中缓存，
// 每次提交都会使缓存失效。
func (s *QuizAttemptService) Statistics(quizID uint) (*QuizStatistics, error) {
	if cached := s.cachedStats(quizID); cached != nil {
		return cached, nil
	}

	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	total, err := s.AttemptRepo.CountCompleted(quiz.ID)
	if err != nil {
		return nil, err
	}
	stats := &QuizStatistics{QuizID: quiz.ID, Questions: []QuestionStat{}}
	stats.TotalAttempts = total
	if total > 0 {
		avg, err := s.AttemptRepo.AverageScore(quiz.ID)
		if err != nil {
			return nil, err
		}
		passed, err := s.AttemptRepo.CountPassed(quiz.ID)
		if err != nil {
			return nil, err
		}
		stats.AverageScore = avg
		stats.PassRate = float64(passed) / float64(total) * 100
	}

	questions, err := s.QuizRepo.QuestionsByQuiz(quiz.ID)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		totalAnswers, err := s.AttemptRepo.CountAnswers(quiz.ID, q.ID)
		if err != nil {
			return nil, err
		}
		correctAnswers, err := s.AttemptRepo.CountCorrectAnswers(quiz.ID, q.ID)
		if err != nil {
			return nil, err
		}
		stat := QuestionStat{
			QuestionID:     q.ID,
			QuestionText:   q.QuestionText,
			TotalAnswers:   totalAnswers,
			CorrectAnswers: correctAnswers,
		}
		if totalAnswers > 0 {
			stat.CorrectRate = float64(correctAnswers) / float64(totalAnswers) * 100
		}
		stats.Questions = append(stats.Questions, stat)
	}

	s.cacheStats(stats)
	return stats, nil
}

func statsCacheKey(quizID uint) string {
	return fmt.Sprintf("quiz:stats:%d", quizID)
}

func (s *QuizAttemptService) cachedStats(quizID uint) *QuizStatistics {
	if s.Redis == nil {
		return nil
	}
	data, err := s.Redis.Get(context.Background(), statsCacheKey(quizID)).Bytes()
	if err != nil {
		return nil
	}
	var stats QuizStatistics
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *QuizAttemptService) cacheStats(stats *QuizStatistics) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	s.Redis.Set(context.Background(), statsCacheKey(stats.QuizID), data, statsCacheTTL)
}

func (s *QuizAttemptService) invalidateStats(quizID uint) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(context.Background(), statsCacheKey(quizID))
}
