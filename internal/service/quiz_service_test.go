package service

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"study_buddy_backend/pkg/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type fakeCompleter struct {
	completion string
	err        error
	lastPrompt string
}

func (f *fakeCompleter) Chat(prompt string, systemContext string) (string, error) {
	f.lastPrompt = prompt
	return f.completion, f.err
}

func TestParseQuizLineMultipleChoice(t *testing.T) {
	cases := []struct {
		name    string
		line    string
		prompt  string
		options []string
		answer  string
	}{
		{
			name:    "four options",
			line:    "MC[&&]What is 2+2?[&&]3[&&]4[&&]5[&&]6",
			prompt:  "What is 2+2?",
			options: []string{"3", "4", "5", "6"},
			answer:  "3",
		},
		{
			name:    "extra trailing fields are dropped",
			line:    "MC[&&]Pick one[&&]a[&&]b[&&]c[&&]d[&&]e[&&]f",
			prompt:  "Pick one",
			options: []string{"a", "b", "c", "d"},
			answer:  "a",
		},
		{
			name:    "short line keeps fewer options",
			line:    "MC[&&]Only two[&&]yes[&&]no",
			prompt:  "Only two",
			options: []string{"yes", "no"},
			answer:  "yes",
		},
		{
			name:    "no options falls back to empty answer",
			line:    "MC[&&]Lonely question",
			prompt:  "Lonely question",
			options: []string{},
			answer:  "",
		},
		{
			name:    "fields are trimmed",
			line:    "MC[&&] spaced? [&&] a [&&] b ",
			prompt:  "spaced?",
			options: []string{"a", "b"},
			answer:  "a",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseQuizLine(tc.line)
			if got.kind != quizLineMultipleChoice {
				t.Fatalf("kind = %v, want multiple choice", got.kind)
			}
			if got.prompt != tc.prompt {
				t.Errorf("prompt = %q, want %q", got.prompt, tc.prompt)
			}
			if !reflect.DeepEqual(got.options, tc.options) {
				t.Errorf("options = %v, want %v", got.options, tc.options)
			}
			if got.answer != tc.answer {
				t.Errorf("answer = %q, want %q", got.answer, tc.answer)
			}
		})
	}
}

func TestParseQuizLineShortAnswer(t *testing.T) {
	got := parseQuizLine("SA[%%]Name a planet.[&&]Mars")
	if got.kind != quizLineShortAnswer {
		t.Fatalf("kind = %v, want short answer", got.kind)
	}
	if got.prompt != "Name a planet." {
		t.Errorf("prompt = %q", got.prompt)
	}
	if len(got.options) != 0 {
		t.Errorf("options = %v, want empty", got.options)
	}
	if got.answer != "Mars" {
		t.Errorf("answer = %q, want Mars", got.answer)
	}

	// 缺答案字段时答案为空串
	got = parseQuizLine("SA[%%]Name a planet.")
	if got.kind != quizLineShortAnswer || got.answer != "" {
		t.Errorf("missing answer: kind = %v answer = %q", got.kind, got.answer)
	}
}

func TestParseQuizLineUnrecognized(t *testing.T) {
	for _, line := range []string{
		"garbage line",
		"mc[&&]lowercase tag",
		"SA[&&]wrong tag delimiter",
		"MC[%%]wrong tag delimiter",
		"  MC[&&]leading whitespace is not stripped",
	} {
		if got := parseQuizLine(line); got.kind != quizLineUnrecognized {
			t.Errorf("parseQuizLine(%q).kind = %v, want unrecognized", line, got.kind)
		}
	}
}

func TestGenerateQuestions(t *testing.T) {
	ai := &fakeCompleter{
		completion: "MC[&&]What is 2+2?[&&]3[&&]4[&&]5[&&]6\nSA[%%]Name a planet.[&&]Mars\ngarbage line\n",
	}
	s := NewQuizService(ai)

	got := s.GenerateQuestions("arithmetic", 2)

	want := QuizResult{
		"question_1": {
			Question:      "What is 2+2?",
			Options:       []string{"3", "4", "5", "6"},
			CorrectAnswer: "3",
		},
		"question_2": {
			Question:      "Name a planet.",
			Options:       []string{},
			CorrectAnswer: "Mars",
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GenerateQuestions = %#v, want %#v", got, want)
	}
}

func TestGenerateQuestionsOrdinalsSkipGarbage(t *testing.T) {
	ai := &fakeCompleter{
		completion: "noise\n\nMC[&&]Q1[&&]a[&&]b[&&]c[&&]d\n\nmore noise\nSA[%%]Q2[&&]x\nSA[%%]Q3\n",
	}
	s := NewQuizService(ai)

	got := s.GenerateQuestions("anything", 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// 序号密集且按解析顺序分配，跳过的行不占序号
	for i, wantPrompt := range []string{"Q1", "Q2", "Q3"} {
		key := "question_" + string(rune('1'+i))
		q, ok := got[key]
		if !ok {
			t.Fatalf("missing key %s", key)
		}
		if q.Question != wantPrompt {
			t.Errorf("%s.Question = %q, want %q", key, q.Question, wantPrompt)
		}
	}
}

func TestGenerateQuestionsLLMFailure(t *testing.T) {
	ai := &fakeCompleter{err: errors.New("upstream down")}
	s := NewQuizService(ai)

	got := s.GenerateQuestions("history", 5)
	if got == nil {
		t.Fatal("result is nil, want empty map")
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestBuildQuizPromptMentionsProtocol(t *testing.T) {
	p := buildQuizPrompt("biology", 4)
	for _, want := range []string{
		"Generate 4 questions about biology",
		"[&&]",
		"MC[&&]Question?[&&]Answer1[&&]Answer2[&&]Answer3[&&]Answer4",
		"SA[%%]Question?[&&]Answer",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
