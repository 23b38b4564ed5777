package dto

import (
	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// ExamRequest - запрос на создание или обновление экзамена
type ExamRequest struct {
	Title        string `json:"title" binding:"required,max=200"`
	Description  string `json:"description" binding:"max=1000"`
	Subject      string `json:"subject" binding:"required,max=100"`
	StudentClass string `json:"student_class"`
	Duration     int    `json:"duration" binding:"required,min=1"`
	IsActive     *bool  `json:"is_active"`
}

// ToEntity превращает запрос в сущность экзамена
func (r *ExamRequest) ToEntity() *entity.Exam {
	exam := &entity.Exam{
		Title:        r.Title,
		Description:  r.Description,
		Subject:      r.Subject,
		StudentClass: r.StudentClass,
		Duration:     r.Duration,
		IsActive:     true,
	}
	if r.IsActive != nil {
		exam.IsActive = *r.IsActive
	}
	if exam.StudentClass == "" {
		exam.StudentClass = "12"
	}
	return exam
}

// OptionRequest - один вариант ответа в запросе на создание вопроса
type OptionRequest struct {
	ID        int    `json:"id"`
	Text      string `json:"text" binding:"required"`
	TextHindi string `json:"text_hindi"`
}

// QuestionRequest - запрос на добавление вопроса к экзамену
type QuestionRequest struct {
	Text          string          `json:"text" binding:"required,max=1000"`
	TextHindi     string          `json:"text_hindi"`
	Options       []OptionRequest `json:"options" binding:"required,min=2,dive"`
	CorrectOption int             `json:"correct_option"`
	NegativeMarks float64         `json:"negative_marks" binding:"min=0"`
	Difficulty    string          `json:"difficulty"`
}

// ToEntity превращает запрос в сущность вопроса
func (r *QuestionRequest) ToEntity() entity.Question {
	options := make(entity.OptionArray, 0, len(r.Options))
	for i, opt := range r.Options {
		id := opt.ID
		if id == 0 && opt.Text != "" {
			// Клиент может не присылать ID вариантов, нумеруем по порядку
			id = i
		}
		options = append(options, entity.Option{
			ID:        id,
			Text:      opt.Text,
			TextHindi: opt.TextHindi,
		})
	}
	return entity.Question{
		Text:          r.Text,
		TextHindi:     r.TextHindi,
		Options:       options,
		CorrectOption: r.CorrectOption,
		Marks:         1,
		NegativeMarks: r.NegativeMarks,
		Difficulty:    r.Difficulty,
	}
}

// BulkQuestionsRequest - запрос на добавление вопросов пачкой
type BulkQuestionsRequest struct {
	Questions []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// StartExamResponse - экзамен с вопросами для сдачи.
// Правильные ответы не сериализуются (json:"-" на CorrectOption).
type StartExamResponse struct {
	Exam      *entity.Exam      `json:"exam"`
	Questions []entity.Question `json:"questions"`
}

// AnswerRequest - один ответ студента
type AnswerRequest struct {
	QuestionID     uint `json:"question_id" binding:"required"`
	SelectedOption int  `json:"selected_option"`
}

// SubmitRequest - запрос на сдачу экзамена.
// Вопросы без ответа можно не присылать: они засчитываются как пропущенные.
type SubmitRequest struct {
	Answers []AnswerRequest `json:"answers"`
}

// AnswersMap превращает список ответов в map по ID вопроса.
// Дубликат вопроса в запросе перетирает предыдущий ответ.
func (r *SubmitRequest) AnswersMap() map[uint]int {
	answers := make(map[uint]int, len(r.Answers))
	for _, a := range r.Answers {
		answers[a.QuestionID] = a.SelectedOption
	}
	return answers
}
