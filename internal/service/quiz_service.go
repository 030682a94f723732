package service

import (
	"fmt"
	"strings"

	"study_buddy_backend/pkg/logger"
	"study_buddy_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// 测验行协议的字面量。提示词里让模型按此格式输出，解析端按同样的
// 字面量切分，两边必须保持一致。注意类型标签里 SA 用的是 [%%]，
// 字段切分统一用 [&&]。
const (
	quizFieldDelimiter = "[&&]"
	quizPrefixMC       = "MC[&&]"
	quizPrefixSA       = "SA[%%]"
)

// Question 单道解析出的题目
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// QuizResult 以 question_N 为键的有序映射，N 从 1 开始按解析顺序递增
type QuizResult map[string]Question

type quizLineKind int

const (
	quizLineUnrecognized quizLineKind = iota
	quizLineMultipleChoice
	quizLineShortAnswer
)

// quizLine 是单行解析结果的带标签变体
type quizLine struct {
	kind    quizLineKind
	prompt  string
	options []string
	answer  string
}

// Completer 是大模型协作方：给一段提示词，返回一段补全文本
type Completer interface {
	Chat(prompt string, systemContext string) (string, error)
}

type QuizService struct {
	AI Completer
}

func NewQuizService(ai Completer) *QuizService {
	return &QuizService{AI: ai}
}

// GenerateQuestions 根据主题生成题目。对调用方永不失败：
// 模型调用出错时记日志并返回空结果。
func (s *QuizService) GenerateQuestions(topic string, count int) QuizResult {
	questions := QuizResult{}

	completion, err := s.AI.Chat(buildQuizPrompt(topic, count), "")
	if err != nil {
		logger.Log.Error("Failed to generate questions", zap.String("topic", topic), zap.Error(err))
		return questions
	}

	for _, line := range strings.Split(strings.TrimSpace(completion), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		parsed := parseQuizLine(line)
		switch parsed.kind {
		case quizLineMultipleChoice:
			monitoring.QuizLineCounter.WithLabelValues("multiple_choice").Inc()
		case quizLineShortAnswer:
			monitoring.QuizLineCounter.WithLabelValues("short_answer").Inc()
		default:
			// 尽力而为：无法识别的行直接丢弃，不影响整批结果
			monitoring.QuizLineCounter.WithLabelValues("skipped").Inc()
			continue
		}

		key := fmt.Sprintf("question_%d", len(questions)+1)
		questions[key] = Question{
			Question:      parsed.prompt,
			Options:       parsed.options,
			CorrectAnswer: parsed.answer,
		}
	}

	return questions
}

// buildQuizPrompt 构造给模型的格式说明。这只是对生成模型的提示，
// 不是可强制执行的语法，解析端必须容忍偏差。
func buildQuizPrompt(topic string, count int) string {
	return fmt.Sprintf(
		"Generate %d questions about %s either along with four answer choices, or one short answer. "+
			"Split each question-answer pair on a separate line. "+
			"Split the question and the options each by the text [&&]. "+
			"Also mention whether it's multiple choice (MC) or short answer (SA). "+
			"Ex: MC[&&]Question?[&&]Answer1[&&]Answer2[&&]Answer3[&&]Answer4, new line, then question 2. "+
			"For SA, ex: SA[%%%%]Question?[&&]Answer",
		count, topic,
	)
}

// parseQuizLine 把一行补全文本解析成带标签变体。纯函数，不做任何 IO。
// 类型标签在行首原样匹配，不吃前导空白。
func parseQuizLine(line string) quizLine {
	switch {
	case strings.HasPrefix(line, quizPrefixMC):
		parts := strings.Split(line[len(quizPrefixMC):], quizFieldDelimiter)
		options := []string{}
		for _, opt := range parts[1:min(len(parts), 5)] {
			options = append(options, strings.TrimSpace(opt))
		}
		// 模型少给字段时允许不足四个选项；一个都没有则答案取空串
		answer := ""
		if len(options) > 0 {
			answer = options[0]
		}
		return quizLine{
			kind:    quizLineMultipleChoice,
			prompt:  strings.TrimSpace(parts[0]),
			options: options,
			answer:  answer,
		}

	case strings.HasPrefix(line, quizPrefixSA):
		parts := strings.Split(line[len(quizPrefixSA):], quizFieldDelimiter)
		answer := ""
		if len(parts) > 1 {
			answer = strings.TrimSpace(parts[1])
		}
		return quizLine{
			kind:    quizLineShortAnswer,
			prompt:  strings.TrimSpace(parts[0]),
			options: []string{},
			answer:  answer,
		}

	default:
		return quizLine{kind: quizLineUnrecognized}
	}
}
