package service

import (
	"errors"
	"sync"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

func fourQuestionQuiz(t *testing.T, env *testEnv, moduleID uint, passingScore float64, maxAttempts *int) *model.Quiz {
	return env.createQuiz(t, moduleID, passingScore, maxAttempts, []questionSpec{
		{text: "q1", correctIndex: 0, optionCount: 3},
		{text: "q2", correctIndex: 1, optionCount: 3},
		{text: "q3", correctIndex: 2, optionCount: 3},
		{text: "q4", correctIndex: 0, optionCount: 3},
	})
}

func TestStartAttemptRequiresEnrollment(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	_, module := env.createCourse(t, professor.ID)
	quiz := fourQuestionQuiz(t, env, module.ID, 70, nil)

	_, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if !errors.Is(err, util.ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}
}

func TestStartAttemptUnpublishedQuiz(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)

	quiz, err := env.quiz.CreateQuiz(module.ID, QuizRequest{Title: "draft", PassingScore: 50})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	_, err = env.attempt.StartAttempt(student.ID, quiz.ID)
	if !errors.Is(err, util.ErrQuizNotPublished) {
		t.Fatalf("expected ErrQuizNotPublished, got %v", err)
	}
}

func TestStartAttemptHidesCorrectOptions(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)
	quiz := fourQuestionQuiz(t, env, module.ID, 70, nil)

	result, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}
	if result.AlreadyPassed {
		t.Fatal("fresh attempt flagged as already passed")
	}
	if result.Attempt.Status != model.AttemptInProgress {
		t.Fatalf("expected in_progress, got %s", result.Attempt.Status)
	}
	if result.Quiz == nil || len(result.Quiz.Questions) != 4 {
		t.Fatalf("expected 4 questions in quiz view, got %+v", result.Quiz)
	}
	for _, q := range result.Quiz.Questions {
		if len(q.Options) != 3 {
			t.Fatalf("question %d: expected 3 options, got %d", q.ID, len(q.Options))
		}
	}
}

func TestSubmitScoringWorkedExample(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)
	quiz := fourQuestionQuiz(t, env, module.ID, 70, nil)

	started, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}

	// 4 题答对 3 题：75 分，通过线 70
	answers := correctAnswers(t, quiz)
	wrong := wrongAnswers(t, quiz)
	answers[3] = wrong[3]

	result, err := env.attempt.SubmitAttempt(student.ID, started.Attempt.ID, answers)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 75 {
		t.Fatalf("expected score 75, got %v", result.Score)
	}
	if result.CorrectCount != 3 || result.TotalQuestions != 4 {
		t.Fatalf("expected 3/4, got %d/%d", result.CorrectCount, result.TotalQuestions)
	}
	if !result.IsPassed {
		t.Fatal("expected attempt to pass")
	}

	stored, err := env.attempts.FindByID(started.Attempt.ID)
	if err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if stored.Status != model.AttemptCompleted || stored.EndTime == nil {
		t.Fatalf("attempt not finalized: %+v", stored)
	}
	if stored.Score == nil || *stored.Score != 75 {
		t.Fatalf("stored score mismatch: %+v", stored.Score)
	}
	if stored.IsPassed == nil || !*stored.IsPassed {
		t.Fatal("stored is_passed mismatch")
	}
}

func TestSubmitUnansweredQuestionsCountAgainst(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)
	quiz := fourQuestionQuiz(t, env, module.ID, 70, nil)

	started, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}

	// 只答对 2 题，剩下 2 题不交：50 分
	answers := correctAnswers(t, quiz)[:2]
	result, err := env.attempt.SubmitAttempt(student.ID, started.Attempt.ID, answers)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 50 {
		t.Fatalf("expected score 50, got %v", result.Score)
	}
	if result.IsPassed {
		t.Fatal("50 should not pass a 70 threshold")
	}
}

func TestSubmitScoreEqualToThresholdPasses(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)
	quiz := fourQuestionQuiz(t, env, module.ID, 50, nil)

	started, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}

	result, err := env.attempt.SubmitAttempt(student.ID, started.Attempt.ID, correctAnswers(t, quiz)[:2])
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 50 || !result.IsPassed {
		t.Fatalf("score equal to passing_score must pass, got %v passed=%v", result.Score, result.IsPassed)
	}
}

func TestSubmitQuizWithoutQuestionsScoresZero(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)
	quiz := env.createQuiz(t, module.ID, 70, nil, nil)

	started, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}

	// 没有题目的测验也要能交卷：0 分完成，而不是卡在 in_progress
	result, err := env.attempt.SubmitAttempt(student.ID, started.Attempt.ID, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 0 || result.TotalQuestions != 0 || result.CorrectCount != 0 {
		t.Fatalf("expected zero score on empty quiz, got %+v", result)
	}
	if result.IsPassed {
		t.Fatal("0 should not pass a 70 threshold")
	}

	stored, err := env.attempts.FindByID(started.Attempt.ID)
	if err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if stored.Status != model.AttemptCompleted {
		t.Fatalf("expected completed attempt, got %s", stored.Status)
	}
}

func TestStartAfterPassIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)
	quiz := fourQuestionQuiz(t, env, module.ID, 70, nil)

	started, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}
	if _, err := env.attempt.SubmitAttempt(student.ID, started.Attempt.ID, correctAnswers(t, quiz)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	again, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("restart after pass: %v", err)
	}
	if !again.AlreadyPassed {
		t.Fatal("expected already-passed short circuit")
	}
	if again.Attempt.ID != started.Attempt.ID {
		t.Fatalf("expected the passed attempt back, got %d", again.Attempt.ID)
	}

	count, err := env.attempts.CountByUserAndQuiz(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if count != 1 {
		t.Fatalf("no new attempt should be created after passing, got %d", count)
	}
}

func TestStartAttemptLimit(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)
	max := 2
	quiz := fourQuestionQuiz(t, env, module.ID, 70, &max)

	for i := 0; i < max; i++ {
		started, err := env.attempt.StartAttempt(student.ID, quiz.ID)
		if err != nil {
			t.Fatalf("start attempt %d: %v", i, err)
		}
		if _, err := env.attempt.SubmitAttempt(student.ID, started.Attempt.ID, wrongAnswers(t, quiz)); err != nil {
			t.Fatalf("submit attempt %d: %v", i, err)
		}
	}

	_, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if !errors.Is(err, util.ErrAttemptLimitReached) {
		t.Fatalf("expected ErrAttemptLimitReached, got %v", err)
	}
}

func TestSubmitNotOwnedAttempt(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	other := env.createUser(t, "other", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)
	quiz := fourQuestionQuiz(t, env, module.ID, 70, nil)

	started, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}

	_, err = env.attempt.SubmitAttempt(other.ID, started.Attempt.ID, correctAnswers(t, quiz))
	if !errors.Is(err, util.ErrAttemptNotOwned) {
		t.Fatalf("expected ErrAttemptNotOwned, got %v", err)
	}
}

func TestSubmitAlreadyCompletedKeepsFirstResult(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)
	quiz := fourQuestionQuiz(t, env, module.ID, 70, nil)

	started, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}
	first, err := env.attempt.SubmitAttempt(student.ID, started.Attempt.ID, wrongAnswers(t, quiz))
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err = env.attempt.SubmitAttempt(student.ID, started.Attempt.ID, correctAnswers(t, quiz))
	if !errors.Is(err, util.ErrAttemptAlreadyCompleted) {
		t.Fatalf("expected ErrAttemptAlreadyCompleted, got %v", err)
	}

	stored, err := env.attempts.FindByID(started.Attempt.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Score == nil || *stored.Score != first.Score {
		t.Fatalf("second submit must not change the score: %+v", stored.Score)
	}
}

func TestSubmitInvalidAnswerIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)
	quiz := fourQuestionQuiz(t, env, module.ID, 70, nil)

	started, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}

	cases := map[string][]AnswerSubmission{
		"unknown question": {{QuestionID: 99999, OptionID: quiz.Questions[0].Options[0].ID}},
		"foreign option": {{
			QuestionID: quiz.Questions[0].ID,
			OptionID:   quiz.Questions[1].Options[0].ID,
		}},
		"duplicate question": {
			{QuestionID: quiz.Questions[0].ID, OptionID: quiz.Questions[0].Options[0].ID},
			{QuestionID: quiz.Questions[0].ID, OptionID: quiz.Questions[0].Options[1].ID},
		},
	}

	for name, answers := range cases {
		if _, err := env.attempt.SubmitAttempt(student.ID, started.Attempt.ID, answers); !errors.Is(err, util.ErrInvalidAnswer) {
			t.Fatalf("%s: expected ErrInvalidAnswer, got %v", name, err)
		}
	}

	// 被拒绝的提交不留任何痕迹
	stored, err := env.attempts.FindByID(started.Attempt.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != model.AttemptInProgress {
		t.Fatalf("attempt must stay in_progress after rejected submits, got %s", stored.Status)
	}
	var answerCount int64
	env.db.Model(&model.StudentAnswer{}).Where("attempt_id = ?", started.Attempt.ID).Count(&answerCount)
	if answerCount != 0 {
		t.Fatalf("rejected submit wrote %d answers", answerCount)
	}
}

func TestConcurrentSubmitSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)
	quiz := fourQuestionQuiz(t, env, module.ID, 70, nil)

	started, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}

	const submitters = 4
	errs := make([]error, submitters)
	var wg sync.WaitGroup
	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = env.attempt.SubmitAttempt(student.ID, started.Attempt.ID, correctAnswers(t, quiz))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else if !errors.Is(err, util.ErrAttemptAlreadyCompleted) {
			t.Fatalf("unexpected error from concurrent submit: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winning submit, got %d", winners)
	}

	var answerCount int64
	env.db.Model(&model.StudentAnswer{}).Where("attempt_id = ?", started.Attempt.ID).Count(&answerCount)
	if answerCount != int64(len(quiz.Questions)) {
		t.Fatalf("expected %d stored answers, got %d", len(quiz.Questions), answerCount)
	}
}

func TestAttemptDetails(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	other := env.createUser(t, "other", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)
	quiz := fourQuestionQuiz(t, env, module.ID, 70, nil)

	started, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}

	// 完成前不可见
	if _, err := env.attempt.AttemptDetails(student.ID, started.Attempt.ID); !errors.Is(err, util.ErrAttemptNotCompleted) {
		t.Fatalf("expected ErrAttemptNotCompleted, got %v", err)
	}

	answers := correctAnswers(t, quiz)
	wrong := wrongAnswers(t, quiz)
	answers[0] = wrong[0]
	if _, err := env.attempt.SubmitAttempt(student.ID, started.Attempt.ID, answers); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// 他人不可见
	if _, err := env.attempt.AttemptDetails(other.ID, started.Attempt.ID); !errors.Is(err, util.ErrAttemptNotOwned) {
		t.Fatalf("expected ErrAttemptNotOwned, got %v", err)
	}

	review, err := env.attempt.AttemptDetails(student.ID, started.Attempt.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(review.Answers) != 4 {
		t.Fatalf("expected 4 annotated answers, got %d", len(review.Answers))
	}
	correct := 0
	for _, ar := range review.Answers {
		if ar.CorrectOption == nil {
			t.Fatalf("question %d missing correct option annotation", ar.QuestionID)
		}
		if ar.IsCorrect {
			correct++
		}
	}
	if correct != 3 {
		t.Fatalf("expected 3 correct annotations, got %d", correct)
	}
}

func TestAttemptDetailsQuestionWithoutCorrectOption(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)

	// 一道题没有任何正确选项
	quiz := env.createQuiz(t, module.ID, 50, nil, []questionSpec{
		{text: "good", correctIndex: 0, optionCount: 2},
		{text: "broken", correctIndex: -1, optionCount: 2},
	})

	started, err := env.attempt.StartAttempt(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}

	answers := []AnswerSubmission{
		{QuestionID: quiz.Questions[0].ID, OptionID: quiz.Questions[0].Options[0].ID},
		{QuestionID: quiz.Questions[1].ID, OptionID: quiz.Questions[1].Options[0].ID},
	}
	if _, err := env.attempt.SubmitAttempt(student.ID, started.Attempt.ID, answers); err != nil {
		t.Fatalf("submit: %v", err)
	}

	review, err := env.attempt.AttemptDetails(student.ID, started.Attempt.ID)
	if err != nil {
		t.Fatalf("details must not fail on a question without correct option: %v", err)
	}
	for _, ar := range review.Answers {
		if ar.QuestionID == quiz.Questions[1].ID {
			if ar.IsCorrect {
				t.Fatal("answer to a question without correct option must count as wrong")
			}
			if ar.CorrectOption != nil {
				t.Fatal("expected nil correct option annotation")
			}
		}
	}
}

func TestAttemptHistory(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	student := env.createUser(t, "student", model.Student)
	course, module := env.createCourse(t, professor.ID)
	env.enroll(t, student.ID, course.ID)
	quizA := fourQuestionQuiz(t, env, module.ID, 70, nil)
	quizB := env.createQuiz(t, module.ID, 50, nil, []questionSpec{
		{text: "only", correctIndex: 0, optionCount: 2},
	})

	for _, quiz := range []*model.Quiz{quizA, quizB} {
		started, err := env.attempt.StartAttempt(student.ID, quiz.ID)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := env.attempt.SubmitAttempt(student.ID, started.Attempt.ID, wrongAnswers(t, quiz)); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	all, err := env.attempt.AttemptHistory(student.ID, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(all))
	}

	filtered, err := env.attempt.AttemptHistory(student.ID, quizB.ID)
	if err != nil {
		t.Fatalf("filtered history: %v", err)
	}
	if len(filtered) != 1 || filtered[0].QuizID != quizB.ID {
		t.Fatalf("quiz filter not applied: %+v", filtered)
	}
}

func TestStatistics(t *testing.T) {
	env := newTestEnv(t)
	professor := env.createUser(t, "prof", model.Professor)
	course, module := env.createCourse(t, professor.ID)
	quiz := fourQuestionQuiz(t, env, module.ID, 70, nil)

	// 没有任何作答时全部为零
	empty, err := env.attempt.Statistics(quiz.ID)
	if err != nil {
		t.Fatalf("empty statistics: %v", err)
	}
	if empty.TotalAttempts != 0 || empty.AverageScore != 0 || empty.PassRate != 0 {
		t.Fatalf("expected zeroed statistics, got %+v", empty)
	}
	if len(empty.Questions) != 4 {
		t.Fatalf("expected per-question rows even without attempts, got %d", len(empty.Questions))
	}

	// 两个学生：一个 100 分通过，一个 0 分不通过
	for i, score := range []bool{true, false} {
		student := env.createUser(t, []string{"alice", "bob"}[i], model.Student)
		env.enroll(t, student.ID, course.ID)
		started, err := env.attempt.StartAttempt(student.ID, quiz.ID)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		answers := wrongAnswers(t, quiz)
		if score {
			answers = correctAnswers(t, quiz)
		}
		if _, err := env.attempt.SubmitAttempt(student.ID, started.Attempt.ID, answers); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	stats, err := env.attempt.Statistics(quiz.ID)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalAttempts != 2 {
		t.Fatalf("expected 2 completed attempts, got %d", stats.TotalAttempts)
	}
	if stats.AverageScore != 50 {
		t.Fatalf("expected average 50, got %v", stats.AverageScore)
	}
	if stats.PassRate != 50 {
		t.Fatalf("expected pass rate 50, got %v", stats.PassRate)
	}
	for _, q := range stats.Questions {
		if q.TotalAnswers != 2 || q.CorrectAnswers != 1 {
			t.Fatalf("question %d: expected 2 answers / 1 correct, got %d/%d",
				q.QuestionID, q.TotalAnswers, q.CorrectAnswers)
		}
		if q.CorrectRate != 50 {
			t.Fatalf("question %d: expected 50%% correct rate, got %v", q.QuestionID, q.CorrectRate)
		}
	}

	// 进行中的作答不进统计
	carol := env.createUser(t, "carol", model.Student)
	env.enroll(t, carol.ID, course.ID)
	if _, err := env.attempt.StartAttempt(carol.ID, quiz.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	stats, err = env.attempt.Statistics(quiz.ID)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalAttempts != 2 {
		t.Fatalf("in-progress attempt leaked into statistics: %d", stats.TotalAttempts)
	}
}

func TestStartAttemptUnknownQuiz(t *testing.T) {
	env := newTestEnv(t)
	student := env.createUser(t, "student", model.Student)

	_, err := env.attempt.StartAttempt(student.ID, 424242)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}
