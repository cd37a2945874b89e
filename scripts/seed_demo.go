// 本地开发演示数据脚本
//
// 创建一名教师、一门已发布课程（含模块和课时）和一份已发布测验，
// 方便前端联调时不用手动走完整的建课流程。重复执行是幂等的。
//
// 用法: go run scripts/seed_demo.go
package main

import (
	"log"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	users := repository.NewUserRepository(db)
	courses := repository.NewCourseRepository(db)
	categories := repository.NewCategoryRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	quizzes := repository.NewQuizRepository(db)

	courseService := service.NewCourseService(courses, categories, enrollments, db)
	quizService := service.NewQuizService(quizzes, courses, db)

	professor, err := users.FindByEmail("demo.professor@example.com")
	if err == gorm.ErrRecordNotFound {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		professor = &model.User{
			Name:     "Demo Professor",
			Email:    "demo.professor@example.com",
			Password: string(hashed),
			Role:     model.Professor,
		}
		if err := users.Create(professor); err != nil {
			log.Fatalf("创建演示教师失败: %v", err)
		}
	} else if err != nil {
		log.Fatalf("查询演示教师失败: %v", err)
	}

	existing, err := courses.ListByProfessor(professor.ID)
	if err != nil {
		log.Fatalf("查询演示课程失败: %v", err)
	}
	if len(existing) > 0 {
		log.Println("演示数据已存在，跳过")
		return
	}

	course, err := courseService.CreateCourse(professor.ID, service.CourseRequest{
		Title:       "Go 入门",
		Description: "从零开始的 Go 语言课程",
		IsPublished: true,
	})
	if err != nil {
		log.Fatalf("创建演示课程失败: %v", err)
	}

	module, err := courseService.AddModule(course.ID, service.ModuleRequest{Title: "基础语法", Order: 1})
	if err != nil {
		log.Fatalf("创建演示模块失败: %v", err)
	}
	if _, err := courseService.AddLesson(module.ID, service.LessonRequest{
		Title: "变量与类型", Duration: 30, Order: 1,
	}); err != nil {
		log.Fatalf("创建演示课时失败: %v", err)
	}

	quiz, err := quizService.CreateQuiz(module.ID, service.QuizRequest{
		Title:        "基础语法测验",
		PassingScore: 60,
		IsPublished:  true,
	})
	if err != nil {
		log.Fatalf("创建演示测验失败: %v", err)
	}

	questions := []service.QuestionRequest{
		{
			QuestionText: "Go 的零值中，string 类型是什么？",
			Options: []service.OptionRequest{
				{Text: "空字符串", IsCorrect: true},
				{Text: "nil"},
				{Text: "\"0\""},
			},
		},
		{
			QuestionText: "哪个关键字用于声明常量？",
			Options: []service.OptionRequest{
				{Text: "var"},
				{Text: "const", IsCorrect: true},
				{Text: "let"},
			},
		},
	}
	for _, q := range questions {
		if _, err := quizService.AddQuestion(quiz.ID, q); err != nil {
			log.Fatalf("创建演示题目失败: %v", err)
		}
	}

	log.Printf("演示数据就绪: 课程 #%d / 测验 #%d (demo.professor@example.com / password123)", course.ID, quiz.ID)
}
