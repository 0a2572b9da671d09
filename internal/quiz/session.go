// ABOUTME: Quiz session state machine: start, submit, advance, score
// ABOUTME: Fetches each question before mutating so failures leave the session unchanged
package quiz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/harper/quizsmith/internal/logger"
	"github.com/harper/quizsmith/internal/models"
	"github.com/harper/quizsmith/internal/storage"
)

var (
	ErrNotInProgress   = errors.New("quiz is not in progress")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNoSuchQuestion  = errors.New("no such question")
	ErrInvalidChoice   = errors.New("choice is not one of the options")
	ErrEmptyBank       = errors.New("question bank is empty")
	ErrNoTopic         = errors.New("topic mode requires a topic")
	ErrUnknownMode     = errors.New("unknown quiz mode")
)

// State of a session
type State int

const (
	Idle State = iota
	InProgress
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InProgress:
		return "in_progress"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// Mode selects where questions come from
type Mode string

const (
	ModeTopic  Mode = "topic"
	ModeRandom Mode = "random"
)

// ParseMode accepts "topic" and "random", defaulting to topic
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeTopic:
		return ModeTopic, nil
	case ModeRandom:
		return ModeRandom, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// QuestionGenerator produces a fresh question for a topic
type QuestionGenerator interface {
	GenerateForTopic(ctx context.Context, topic string) (*models.QuizQuestion, error)
}

// Record is the scored outcome of one question
type Record struct {
	Index    int                 `json:"index"`
	Question models.QuizQuestion `json:"question"`
	Choice   string              `json:"choice,omitempty"`
	Correct  bool                `json:"correct"`
	Skipped  bool                `json:"skipped"`
}

// Score is recomputed from the answer history
type Score struct {
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Percent   float64 `json:"percent"`
}

// Total is the number of scored questions
func (s Score) Total() int {
	return s.Correct + s.Incorrect
}

// Feedback is returned when an answer is submitted
type Feedback struct {
	Correct     bool   `json:"correct"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
}

// StartOptions selects the quiz source
type StartOptions struct {
	Mode  Mode
	Topic string
}

// Options configures a Session
type Options struct {
	Generator    QuestionGenerator
	Bank         storage.Provider
	MaxQuestions int
	RandomBatch  int
	SaveToBank   bool
	Logger       *logger.Logger
}

const (
	DefaultMaxQuestions = 10
	DefaultRandomBatch  = 10
)

// Session is one user's quiz. All methods are safe for concurrent use;
// mutations are serialized per session.
type Session struct {
	id   string
	opts Options
	log  *logger.Logger

	mu        sync.Mutex
	state     State
	mode      Mode
	topic     string
	questions []*models.QuizQuestion
	answers   map[int]string
	records   []Record
	current   int
	max       int
	updatedAt time.Time
}

func NewSession(opts Options) *Session {
	if opts.MaxQuestions <= 0 {
		opts.MaxQuestions = DefaultMaxQuestions
	}
	if opts.RandomBatch <= 0 {
		opts.RandomBatch = DefaultRandomBatch
	}
	id := uuid.New().String()
	return &Session{
		id:        id,
		opts:      opts,
		log:       logger.OrNop(opts.Logger).With("session", id),
		answers:   make(map[int]string),
		max:       opts.MaxQuestions,
		updatedAt: time.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Start begins a new quiz. The first question (or batch) is fetched before
// any state is reset, so a failed start leaves the previous quiz intact.
func (s *Session) Start(ctx context.Context, opts StartOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		questions []*models.QuizQuestion
		limit     = s.opts.MaxQuestions
	)

	switch opts.Mode {
	case ModeTopic, "":
		if opts.Topic == "" {
			return ErrNoTopic
		}
		q, err := s.generate(ctx, opts.Topic)
		if err != nil {
			return err
		}
		questions = []*models.QuizQuestion{q}
		opts.Mode = ModeTopic
	case ModeRandom:
		if s.opts.Bank == nil {
			return ErrEmptyBank
		}
		batch, err := s.opts.Bank.Sample(ctx, s.opts.RandomBatch)
		if err != nil {
			return fmt.Errorf("sampling question bank: %w", err)
		}
		if len(batch) == 0 {
			return ErrEmptyBank
		}
		for i := range batch {
			questions = append(questions, batch[i].QuizQuestion.Clone())
		}
		limit = len(questions)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, opts.Mode)
	}

	s.mode = opts.Mode
	s.topic = opts.Topic
	s.questions = questions
	s.answers = make(map[int]string)
	s.records = nil
	s.current = 0
	s.max = limit
	s.state = InProgress
	s.touch()

	s.log.Info("quiz started", "mode", s.mode, "topic", s.topic, "max", s.max)
	return nil
}

// Submit records a choice for the question at index. Choices are final.
func (s *Session) Submit(index int, choice string) (*Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != InProgress {
		return nil, ErrNotInProgress
	}
	if index < 0 || index >= len(s.questions) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchQuestion, index)
	}
	if _, ok := s.answers[index]; ok {
		return nil, fmt.Errorf("%w: %d", ErrAlreadyAnswered, index)
	}

	q := s.questions[index]
	valid := false
	for _, opt := range q.Options {
		if opt == choice {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}

	s.answers[index] = choice
	s.touch()

	return &Feedback{
		Correct:     choice == q.Answer,
		Answer:      q.Answer,
		Explanation: q.Explanation,
	}, nil
}

// Advance scores the current question and moves on. An unanswered question
// counts as skipped. Reaching the maximum completes the quiz; otherwise the
// next question is fetched first and nothing changes if that fails.
func (s *Session) Advance(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != InProgress {
		return ErrNotInProgress
	}

	record := s.recordFor(s.current)

	if len(s.records)+1 >= s.max {
		s.records = append(s.records, record)
		s.state = Complete
		s.touch()
		s.log.Info("quiz complete", "score", s.score().Percent)
		return nil
	}

	next := s.current + 1
	if next >= len(s.questions) {
		q, err := s.generate(ctx, s.topic)
		if err != nil {
			return err
		}
		s.questions = append(s.questions, q)
	}

	s.records = append(s.records, record)
	s.current = next
	s.touch()
	return nil
}

// Score counts recorded questions plus the current one once answered
func (s *Session) Score() Score {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score()
}

func (s *Session) score() Score {
	var sc Score
	tally := func(correct bool) {
		if correct {
			sc.Correct++
		} else {
			sc.Incorrect++
		}
	}
	for _, r := range s.records {
		tally(r.Correct)
	}
	if s.state == InProgress {
		if choice, ok := s.answers[s.current]; ok {
			tally(choice == s.questions[s.current].Answer)
		}
	}
	if total := sc.Total(); total > 0 {
		sc.Percent = float64(sc.Correct) / float64(total) * 100
	}
	return sc
}

func (s *Session) recordFor(index int) Record {
	q := s.questions[index]
	r := Record{Index: index, Question: *q.Clone()}
	choice, ok := s.answers[index]
	if !ok {
		r.Skipped = true
		return r
	}
	r.Choice = choice
	r.Correct = choice == q.Answer
	return r
}

// generate asks the generator for a question and banks it when enabled
func (s *Session) generate(ctx context.Context, topic string) (*models.QuizQuestion, error) {
	if s.opts.Generator == nil {
		return nil, errors.New("no question generator configured")
	}
	q, err := s.opts.Generator.GenerateForTopic(ctx, topic)
	if err != nil {
		return nil, err
	}
	s.bank(ctx, topic, q)
	return q, nil
}

func (s *Session) bank(ctx context.Context, topic string, q *models.QuizQuestion) {
	if !s.opts.SaveToBank || s.opts.Bank == nil {
		return
	}
	exists, err := s.opts.Bank.Exists(ctx, q)
	if err != nil {
		s.log.Warn("bank lookup failed", "error", err)
		return
	}
	if exists {
		return
	}
	if _, err := s.opts.Bank.Save(ctx, topic, q); err != nil {
		s.log.Warn("saving question to bank failed", "error", err)
	}
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}

// Prompt is a question as shown to the player, without its answer
type Prompt struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// ResolveChoice maps a letter (a-d) or option text to the option text.
// Unknown input is returned unchanged for Submit to reject.
func (p *Prompt) ResolveChoice(input string) string {
	input = strings.TrimSpace(input)
	if len(input) == 1 {
		i := int(unicode.ToLower(rune(input[0])) - 'a')
		if i >= 0 && i < len(p.Options) {
			return p.Options[i]
		}
	}
	for _, opt := range p.Options {
		if strings.EqualFold(opt, input) {
			return opt
		}
	}
	return input
}

// View is a point-in-time copy of the session for display
type View struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	Mode      Mode      `json:"mode,omitempty"`
	Topic     string    `json:"topic,omitempty"`
	Index     int       `json:"index"`
	Max       int       `json:"max"`
	Question  *Prompt   `json:"question,omitempty"`
	Choice    string    `json:"choice,omitempty"`
	Answered  bool      `json:"answered"`
	Records   []Record  `json:"records,omitempty"`
	Score     Score     `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot copies the session state
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:        s.id,
		State:     s.state.String(),
		Mode:      s.mode,
		Topic:     s.topic,
		Index:     s.current,
		Max:       s.max,
		Records:   append([]Record(nil), s.records...),
		Score:     s.score(),
		UpdatedAt: s.updatedAt,
	}
	if s.state == InProgress {
		q := s.questions[s.current]
		v.Question = &Prompt{Question: q.Question, Options: slices.Clone(q.Options)}
		v.Choice, v.Answered = s.answers[s.current]
	}
	return v
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
