// ABOUTME: Prompt construction for quiz question generation
// ABOUTME: Varies style and difficulty and lists stems and terms to avoid
package core

import (
	"fmt"
	"strings"
)

var difficulties = []string{"easy", "medium", "hard"}

var questionStyles = []string{
	"concept check",
	"predict-the-output",
	"spot-the-bug",
	"fill-in-the-blank",
	"true-vs-false",
}

// contextSeparator joins sampled chunks into one study-material block
const contextSeparator = "\n\n---\n\n"

const generatorSystemPrompt = `You are a REST API server with an endpoint /generate-random-question/:topic.
The endpoint returns one multiple-choice quiz question as a JSON object with exactly these fields:
- question (string)
- options (array of exactly 4 distinct strings)
- answer (string, must be identical to one of the options)
- explanation (string)

Example:
{"question": "Which of the following is a valid variable name in Python?", "options": ["2nd_var", "my-var", "_value", "None"], "answer": "_value", "explanation": "Variable names must begin with a letter or underscore and cannot be a reserved keyword like 'None'."}

Return ONLY the JSON object. No markdown, no extra keys.`

type promptSpec struct {
	Topic      string
	Context    string
	Style      string
	Difficulty string
	Avoid      []string
	Excluded   []string
}

func buildGeneratorPrompt(p promptSpec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Use the following study material to create a %s %s question about %q.\n\n",
		p.Difficulty, p.Style, p.Topic)
	b.WriteString("Study Material:\n")
	b.WriteString(p.Context)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Question style: %s\nDifficulty: %s\n", p.Style, p.Difficulty)

	if len(p.Avoid) > 0 {
		b.WriteString("\nDo NOT repeat or paraphrase any of these recent questions:\n")
		for _, s := range p.Avoid {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	if len(p.Excluded) > 0 {
		b.WriteString("\nDo NOT mention or build the question around any of these subtopics:\n")
		for _, t := range p.Excluded {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}

	b.WriteString("\nAnswer with a single JSON object with keys \"question\", \"options\" (exactly 4), \"answer\", \"explanation\".")
	return b.String()
}
