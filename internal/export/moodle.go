// ABOUTME: Moodle XML export of question bank records
// ABOUTME: Writes one multichoice question per valid record, skipping and reporting invalid ones
package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/harper/quizsmith/internal/models"
)

// MoodleOptions controls the generated quiz file
type MoodleOptions struct {
	// Category places questions under $course$/<Category> when set
	Category       string
	ShuffleAnswers bool
}

// Skipped describes a record left out of an export
type Skipped struct {
	Index  int
	Reason string
}

// MoodleResult reports what was written
type MoodleResult struct {
	Written int
	Skipped []Skipped
}

type moodleQuiz struct {
	XMLName   xml.Name         `xml:"quiz"`
	Questions []moodleQuestion `xml:"question"`
}

type moodleText struct {
	Text string `xml:"text"`
}

type moodleFormatted struct {
	Format string `xml:"format,attr"`
	Text   string `xml:"text"`
}

type moodleQuestion struct {
	Type            string           `xml:"type,attr"`
	Category        *moodleText      `xml:"category,omitempty"`
	Name            *moodleText      `xml:"name,omitempty"`
	QuestionText    *moodleFormatted `xml:"questiontext,omitempty"`
	GeneralFeedback *moodleText      `xml:"generalfeedback,omitempty"`
	DefaultGrade    string           `xml:"defaultgrade,omitempty"`
	Penalty         string           `xml:"penalty,omitempty"`
	Single          string           `xml:"single,omitempty"`
	ShuffleAnswers  string           `xml:"shuffleanswers,omitempty"`
	AnswerNumbering string           `xml:"answernumbering,omitempty"`
	Answers         []moodleAnswer   `xml:"answer"`
}

type moodleAnswer struct {
	Fraction string     `xml:"fraction,attr"`
	Format   string     `xml:"format,attr"`
	Text     string     `xml:"text"`
	Feedback moodleText `xml:"feedback"`
}

// WriteMoodle writes questions as a Moodle XML quiz. Records failing
// validation are skipped and listed in the result.
func WriteMoodle(w io.Writer, questions []models.StoredQuestion, opts MoodleOptions) (*MoodleResult, error) {
	quiz := moodleQuiz{}
	result := &MoodleResult{}

	if category := strings.TrimSpace(opts.Category); category != "" {
		quiz.Questions = append(quiz.Questions, moodleQuestion{
			Type:     "category",
			Category: &moodleText{Text: "$course$/" + category},
		})
	}

	for i := range questions {
		idx := i + 1
		q := &questions[i]
		if err := q.Validate(); err != nil {
			result.Skipped = append(result.Skipped, Skipped{Index: idx, Reason: err.Error()})
			continue
		}
		quiz.Questions = append(quiz.Questions, multichoice(idx, q, opts.ShuffleAnswers))
		result.Written++
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return nil, err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(quiz); err != nil {
		return nil, fmt.Errorf("failed to encode Moodle XML: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return nil, err
	}
	return result, nil
}

func multichoice(idx int, q *models.StoredQuestion, shuffle bool) moodleQuestion {
	name := fmt.Sprintf("Q%d", idx)
	if topic := strings.TrimSpace(q.Topic); topic != "" {
		name = fmt.Sprintf("Q%d: %s", idx, topic)
	}

	mq := moodleQuestion{
		Type:            "multichoice",
		Name:            &moodleText{Text: name},
		QuestionText:    &moodleFormatted{Format: "html", Text: strings.TrimSpace(q.Question)},
		GeneralFeedback: &moodleText{Text: strings.TrimSpace(q.Explanation)},
		DefaultGrade:    "1.0000000",
		Penalty:         "0.0000000",
		Single:          "true",
		ShuffleAnswers:  boolText(shuffle),
		AnswerNumbering: "abc",
	}

	for _, opt := range q.Options {
		a := moodleAnswer{Fraction: "0", Format: "html", Text: opt, Feedback: moodleText{Text: "Incorrect."}}
		if opt == q.Answer {
			a.Fraction = "100"
			a.Feedback.Text = "Correct."
		}
		mq.Answers = append(mq.Answers, a)
	}
	return mq
}

func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
