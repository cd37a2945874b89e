package service

import (
	"path/filepath"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的 sqlite 文件库。
// _txlock=immediate 让写事务在开始时就拿锁，配合 busy_timeout
// 才能在并发提交测试里复现串行化行为。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

type testEnv struct {
	db       *gorm.DB
	users    *repository.UserRepository
	courses  *repository.CourseRepository
	enrolls  *repository.EnrollmentRepository
	quizzes  *repository.QuizRepository
	attempts *repository.QuizAttemptRepository

	access  *AccessService
	course  *CourseService
	quiz    *QuizService
	attempt *QuizAttemptService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	env := &testEnv{
		db:       db,
		users:    repository.NewUserRepository(db),
		courses:  repository.NewCourseRepository(db),
		enrolls:  repository.NewEnrollmentRepository(db),
		quizzes:  repository.NewQuizRepository(db),
		attempts: repository.NewQuizAttemptRepository(db),
	}
	categories := repository.NewCategoryRepository(db)

	env.access = NewAccessService(env.enrolls, env.courses, env.quizzes)
	env.course = NewCourseService(env.courses, categories, env.enrolls, db)
	env.quiz = NewQuizService(env.quizzes, env.courses, db)
	// Redis 置空，统计不走缓存
	env.attempt = NewQuizAttemptService(env.attempts, env.quizzes, env.access, db, nil)
	return env
}

func (e *testEnv) createUser(t *testing.T, name string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "irrelevant",
		Role:     role,
	}
	if err := e.users.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// createCourse 创建已发布课程、单个模块，并返回两者
func (e *testEnv) createCourse(t *testing.T, professorID uint) (*model.Course, *model.CourseModule) {
	t.Helper()
	course, err := e.course.CreateCourse(professorID, CourseRequest{
		Title:       "Intro to Go",
		IsPublished: true,
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	module, err := e.course.AddModule(course.ID, ModuleRequest{Title: "Basics"})
	if err != nil {
		t.Fatalf("create module: %v", err)
	}
	return course, module
}

type questionSpec struct {
	text         string
	correctIndex int // -1 表示没有正确选项
	optionCount  int
}

// createQuiz 创建发布状态的测验及题目，每题固定选项数，返回测验（含题目选项）
func (e *testEnv) createQuiz(t *testing.T, moduleID uint, passingScore float64, maxAttempts *int, specs []questionSpec) *model.Quiz {
	t.Helper()
	quiz, err := e.quiz.CreateQuiz(moduleID, QuizRequest{
		Title:        "Checkpoint",
		PassingScore: passingScore,
		IsPublished:  true,
		MaxAttempts:  maxAttempts,
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	for _, spec := range specs {
		opts := make([]OptionRequest, 0, spec.optionCount)
		for i := 0; i < spec.optionCount; i++ {
			opts = append(opts, OptionRequest{
				Text:      spec.text + " option",
				IsCorrect: i == spec.correctIndex,
			})
		}
		if _, err := e.quiz.AddQuestion(quiz.ID, QuestionRequest{
			QuestionText: spec.text,
			Options:      opts,
		}); err != nil {
			t.Fatalf("add question: %v", err)
		}
	}

	full, err := e.quiz.QuizWithQuestions(quiz.ID)
	if err != nil {
		t.Fatalf("reload quiz: %v", err)
	}
	return full
}

func (e *testEnv) enroll(t *testing.T, userID, courseID uint) {
	t.Helper()
	if _, err := e.course.Enroll(userID, courseID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
}

// correctAnswers 按题目顺序取每题的正确选项作为答案
func correctAnswers(t *testing.T, quiz *model.Quiz) []AnswerSubmission {
	t.Helper()
	answers := make([]AnswerSubmission, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		found := false
		for _, o := range q.Options {
			if o.IsCorrect {
				answers = append(answers, AnswerSubmission{QuestionID: q.ID, OptionID: o.ID})
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("question %d has no correct option", q.ID)
		}
	}
	return answers
}

// wrongAnswers 每题选第一个错误选项
func wrongAnswers(t *testing.T, quiz *model.Quiz) []AnswerSubmission {
	t.Helper()
	answers := make([]AnswerSubmission, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		for _, o := range q.Options {
			if !o.IsCorrect {
				answers = append(answers, AnswerSubmission{QuestionID: q.ID, OptionID: o.ID})
				break
			}
		}
	}
	return answers
}
