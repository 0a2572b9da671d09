// ABOUTME: Course definition: the topic list and the subtopics the course skips
// ABOUTME: Read from an optional TOML file, with the Python textbook chapters as default
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Course describes what a quiz covers
type Course struct {
	Title         string   `toml:"title"`
	Topics        []string `toml:"topics"`
	ExcludedTerms []string `toml:"excluded_terms"`
	MaxQuestions  int      `toml:"max_questions"`
}

// DefaultCourse returns the built-in Python fundamentals course
func DefaultCourse() *Course {
	return &Course{
		Title: "Python Quiz",
		Topics: []string{
			"Chapter01 Introduction to Computers and Programming",
			"Chapter02 Input, Processing, and Output",
			"Chapter03 Decision Structures and Boolean Logic",
			"Chapter04 Repetition Structures",
			"Chapter05 Functions",
			"Chapter06 Files and Exceptions",
			"Chapter07 Lists and Tuples",
			"Chapter08 More About Strings",
			"Chapter09 Dictionaries and Sets",
		},
		ExcludedTerms: []string{
			"turtle graphics", "turtle", "turtle module",
			"turtle.forward", "turtle.backward", "turtle.left", "turtle.right",
		},
	}
}

// LoadCourse reads a course definition from a TOML file
func LoadCourse(path string) (*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading course file: %w", err)
	}

	var course Course
	if err := toml.Unmarshal(data, &course); err != nil {
		return nil, fmt.Errorf("parsing course file %s: %w", path, err)
	}

	if len(course.Topics) == 0 {
		return nil, fmt.Errorf("course file %s defines no topics", path)
	}
	if strings.TrimSpace(course.Title) == "" {
		course.Title = "Quiz"
	}
	if course.MaxQuestions < 0 {
		return nil, fmt.Errorf("course file %s: max_questions must not be negative", path)
	}

	return &course, nil
}
