// ABOUTME: Tests for the quiz session state machine
// ABOUTME: Covers both modes, immutable answers, skips, failed fetches, and scoring
package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/harper/quizsmith/internal/models"
)

func newTopicSession(gen *fakeGenerator, max int) *Session {
	return NewSession(Options{Generator: gen, MaxQuestions: max})
}

func TestSession_TopicFlow(t *testing.T) {
	ctx := context.Background()
	s := newTopicSession(&fakeGenerator{}, 3)

	if s.State() != Idle {
		t.Fatalf("new session state = %v, want idle", s.State())
	}
	if err := s.Start(ctx, StartOptions{Mode: ModeTopic, Topic: "Lists"}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if s.State() != InProgress {
		t.Fatalf("state = %v, want in_progress", s.State())
	}

	fb, err := s.Submit(0, "b")
	if err != nil || !fb.Correct {
		t.Fatalf("Submit(0, b) = %+v, %v", fb, err)
	}
	if err := s.Advance(ctx); err != nil {
		t.Fatal(err)
	}

	// Leave question 1 unanswered: skipped
	if err := s.Advance(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Submit(2, "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Advance(ctx); err != nil {
		t.Fatal(err)
	}

	if s.State() != Complete {
		t.Fatalf("state = %v, want complete", s.State())
	}

	v := s.Snapshot()
	if len(v.Records) != 3 {
		t.Fatalf("records = %d, want 3", len(v.Records))
	}
	if !v.Records[1].Skipped || v.Records[1].Correct {
		t.Errorf("record 1 = %+v, want skipped and wrong", v.Records[1])
	}
	if v.Question != nil {
		t.Error("completed session should not expose a current question")
	}

	sc := s.Score()
	if sc.Correct != 1 || sc.Incorrect != 2 {
		t.Errorf("Score() = %+v, want 1 correct 2 incorrect", sc)
	}
	if sc.Percent < 33.3 || sc.Percent > 33.4 {
		t.Errorf("Percent = %v, want ~33.3", sc.Percent)
	}

	if err := s.Advance(ctx); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("Advance() after completion error = %v, want ErrNotInProgress", err)
	}
}

func TestSession_AnswersAreImmutable(t *testing.T) {
	s := newTopicSession(&fakeGenerator{}, 5)
	if err := s.Start(context.Background(), StartOptions{Topic: "Lists"}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Submit(0, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(0, "b"); !errors.Is(err, ErrAlreadyAnswered) {
		t.Errorf("second Submit() error = %v, want ErrAlreadyAnswered", err)
	}
	if v := s.Snapshot(); v.Choice != "a" {
		t.Errorf("choice = %q, want the first answer a", v.Choice)
	}
}

func TestSession_SubmitValidation(t *testing.T) {
	s := newTopicSession(&fakeGenerator{}, 5)

	if _, err := s.Submit(0, "a"); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("Submit() before start error = %v, want ErrNotInProgress", err)
	}
	if err := s.Start(context.Background(), StartOptions{Topic: "Lists"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(4, "a"); !errors.Is(err, ErrNoSuchQuestion) {
		t.Errorf("Submit(4) error = %v, want ErrNoSuchQuestion", err)
	}
	if _, err := s.Submit(0, "z"); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("Submit(z) error = %v, want ErrInvalidChoice", err)
	}
}

func TestSession_FailedAdvanceLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{failAt: map[int]bool{2: true}}
	s := newTopicSession(gen, 5)

	if err := s.Start(ctx, StartOptions{Topic: "Lists"}); err != nil {
		t.Fatal(err)
	}
	before := s.Snapshot()

	if err := s.Advance(ctx); !errors.Is(err, errGenerate) {
		t.Fatalf("Advance() error = %v, want generation failure", err)
	}

	after := s.Snapshot()
	if after.Index != before.Index || len(after.Records) != 0 || after.Answered {
		t.Errorf("failed advance mutated session: %+v", after)
	}

	// The unanswered question can still be answered, and the retry works
	if _, err := s.Submit(0, "b"); err != nil {
		t.Fatalf("Submit() after failed advance error = %v", err)
	}
	if err := s.Advance(ctx); err != nil {
		t.Fatal(err)
	}
	if v := s.Snapshot(); v.Index != 1 || v.Question.Question != "Question 3?" {
		t.Errorf("after retry index = %d question = %q", v.Index, v.Question.Question)
	}
}

func TestSession_FailedStartKeepsPreviousQuiz(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{failAt: map[int]bool{2: true}}
	s := newTopicSession(gen, 5)

	if err := s.Start(ctx, StartOptions{Topic: "Lists"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(0, "b"); err != nil {
		t.Fatal(err)
	}

	if err := s.Start(ctx, StartOptions{Topic: "Dicts"}); err == nil {
		t.Fatal("Start() should surface the generation failure")
	}

	v := s.Snapshot()
	if v.Topic != "Lists" || !v.Answered || v.State != "in_progress" {
		t.Errorf("failed start should keep the old quiz, got %+v", v)
	}
	if sc := s.Score(); sc.Correct != 1 {
		t.Errorf("Score() = %+v, want the earlier answer counted", sc)
	}
}

func TestSession_RandomMode(t *testing.T) {
	ctx := context.Background()
	bank := &memBank{}
	for i := 1; i <= 4; i++ {
		if _, err := bank.Save(ctx, "Lists", numbered(i)); err != nil {
			t.Fatal(err)
		}
	}

	s := NewSession(Options{Bank: bank, MaxQuestions: 50, RandomBatch: 10})
	if err := s.Start(ctx, StartOptions{Mode: ModeRandom}); err != nil {
		t.Fatalf("Start(random) error = %v", err)
	}
	if v := s.Snapshot(); v.Max != 4 {
		t.Errorf("Max = %d, want batch size 4", v.Max)
	}

	for i := 0; i < 4; i++ {
		if err := s.Advance(ctx); err != nil {
			t.Fatalf("Advance() #%d error = %v", i, err)
		}
	}
	if s.State() != Complete {
		t.Errorf("state = %v, want complete after the batch", s.State())
	}
	if sc := s.Score(); sc.Incorrect != 4 {
		t.Errorf("all skipped should score 4 incorrect, got %+v", sc)
	}
}

func TestSession_RandomModeEmptyBank(t *testing.T) {
	s := NewSession(Options{Bank: &memBank{}})
	if err := s.Start(context.Background(), StartOptions{Mode: ModeRandom}); !errors.Is(err, ErrEmptyBank) {
		t.Errorf("Start() error = %v, want ErrEmptyBank", err)
	}
	if s.State() != Idle {
		t.Error("failed start should leave the session idle")
	}
}

func TestSession_SaveToBank(t *testing.T) {
	ctx := context.Background()
	bank := &memBank{}
	s := NewSession(Options{Generator: &fakeGenerator{}, Bank: bank, SaveToBank: true, MaxQuestions: 3})

	if err := s.Start(ctx, StartOptions{Topic: "Lists"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Advance(ctx); err != nil {
		t.Fatal(err)
	}
	if bank.saves != 2 {
		t.Errorf("saves = %d, want 2", bank.saves)
	}

	// The next question is already banked and is not stored twice
	bank.questions = append(bank.questions, models.StoredQuestion{Topic: "Lists", QuizQuestion: *numbered(3)})
	if err := s.Start(ctx, StartOptions{Topic: "Lists"}); err != nil {
		t.Fatal(err)
	}
	if bank.saves != 2 {
		t.Errorf("saves = %d, want 2", bank.saves)
	}
}

func TestSession_BankErrorsAreNotFatal(t *testing.T) {
	bank := &memBank{existsErr: errors.New("disk on fire")}
	s := NewSession(Options{Generator: &fakeGenerator{}, Bank: bank, SaveToBank: true})

	if err := s.Start(context.Background(), StartOptions{Topic: "Lists"}); err != nil {
		t.Fatalf("Start() error = %v, bank failures should only be logged", err)
	}
	if bank.saves != 0 {
		t.Error("nothing should be saved when the lookup fails")
	}
}

func TestSession_StartValidation(t *testing.T) {
	s := newTopicSession(&fakeGenerator{}, 5)
	if err := s.Start(context.Background(), StartOptions{Mode: ModeTopic}); !errors.Is(err, ErrNoTopic) {
		t.Errorf("Start() without topic error = %v, want ErrNoTopic", err)
	}
	if err := s.Start(context.Background(), StartOptions{Mode: "weekly"}); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Start() unknown mode error = %v, want ErrUnknownMode", err)
	}
}

func TestScore_CountsCurrentAnswer(t *testing.T) {
	s := newTopicSession(&fakeGenerator{}, 5)
	if err := s.Start(context.Background(), StartOptions{Topic: "Lists"}); err != nil {
		t.Fatal(err)
	}
	if sc := s.Score(); sc.Total() != 0 || sc.Percent != 0 {
		t.Errorf("empty score = %+v", sc)
	}
	if _, err := s.Submit(0, "b"); err != nil {
		t.Fatal(err)
	}
	if sc := s.Score(); sc.Correct != 1 || sc.Percent != 100 {
		t.Errorf("Score() = %+v, want 1 correct at 100%%", sc)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeTopic, false},
		{"topic", ModeTopic, false},
		{"random", ModeRandom, false},
		{"shuffle", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseMode(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

func TestPrompt_ResolveChoice(t *testing.T) {
	p := &Prompt{Question: "Q?", Options: []string{"append", "insert", "extend", "pop"}}
	tests := []struct {
		in   string
		want string
	}{
		{"a", "append"},
		{"C", "extend"},
		{" d ", "pop"},
		{"Insert", "insert"},
		{"e", "e"},
		{"remove", "remove"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := p.ResolveChoice(tt.in); got != tt.want {
				t.Errorf("ResolveChoice(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
