// ABOUTME: MCP tool handler implementations for the quiz server
// ABOUTME: Failures are returned as tool errors so the client sees a clear message
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/quizsmith/internal/core"
	"github.com/harper/quizsmith/internal/logger"
	"github.com/harper/quizsmith/internal/quiz"
	"github.com/harper/quizsmith/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	generator quiz.QuestionGenerator
	tutor     Asker
	bank      storage.Provider
	sessions  *quiz.Registry
	title     string
	topics    []string
	log       *logger.Logger
}

// GenerateQuestion handles the generate_question tool
func (h *Handlers) GenerateQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("topic argument is required and must be a string"), nil
	}
	if h.generator == nil {
		return mcp.NewToolResultError(core.ErrServiceUnavailable.Error()), nil
	}

	q, err := h.generator.GenerateForTopic(ctx, topic)
	if err != nil {
		h.log.Warn("question generation failed", "topic", topic, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("question generation failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"topic":    topic,
		"question": q,
	})
}

// AskDocument handles the ask_document tool
func (h *Handlers) AskDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	document, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError("document argument is required and must be a string"), nil
	}
	if h.tutor == nil {
		return mcp.NewToolResultError(core.ErrServiceUnavailable.Error()), nil
	}

	preset := core.Preset(request.GetString("preset", string(core.PresetCustom)))
	custom := request.GetString("question", "")

	if request.GetBool("clear_history", false) {
		h.tutor.ClearHistory(document)
		if (preset == core.PresetCustom || preset == "") && strings.TrimSpace(custom) == "" {
			return jsonResult(map[string]interface{}{
				"document": document,
				"cleared":  true,
			})
		}
	}

	question, err := core.PresetQuestion(preset, custom)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	answer, err := h.tutor.Ask(ctx, document, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to answer: %v", err)), nil
	}

	result := askResult{TutorAnswer: answer}
	if request.GetBool("include_history", false) {
		result.History = h.tutor.History(answer.Document)
	}
	return jsonResult(result)
}

type askResult struct {
	*core.TutorAnswer
	History []core.Turn `json:"history,omitempty"`
}

// ListTopics handles the list_topics tool
func (h *Handlers) ListTopics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topics := h.topics
	if topics == nil {
		topics = []string{}
	}
	return jsonResult(map[string]interface{}{
		"title":  h.title,
		"topics": topics,
	})
}

// StartQuiz handles the start_quiz tool
func (h *Handlers) StartQuiz(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode, err := quiz.ParseMode(request.GetString("mode", string(quiz.ModeTopic)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var (
		s       *quiz.Session
		created bool
	)
	if id := request.GetString("session_id", ""); id != "" {
		var ok bool
		if s, ok = h.sessions.Get(id); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("session not found: %s", id)), nil
		}
	} else {
		s = h.sessions.Create()
		created = true
	}

	opts := quiz.StartOptions{Mode: mode, Topic: request.GetString("topic", "")}
	if err := s.Start(ctx, opts); err != nil {
		if created {
			h.sessions.Delete(s.ID())
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to start quiz: %v", err)), nil
	}

	return jsonResult(s.Snapshot())
}

// SubmitAnswer handles the submit_answer tool
func (h *Handlers) SubmitAnswer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, errResult := h.session(request)
	if errResult != nil {
		return errResult, nil
	}
	choice, err := request.RequireString("choice")
	if err != nil {
		return mcp.NewToolResultError("choice argument is required and must be a string"), nil
	}

	view := s.Snapshot()
	index := request.GetInt("index", view.Index)
	if view.Question != nil && index == view.Index {
		choice = view.Question.ResolveChoice(choice)
	}

	feedback, err := s.Submit(index, choice)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to submit answer: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"index":    index,
		"choice":   choice,
		"feedback": feedback,
		"score":    s.Score(),
	})
}

// NextQuestion handles the next_question tool
func (h *Handlers) NextQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, errResult := h.session(request)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.Advance(ctx); err != nil {
		if errors.Is(err, quiz.ErrNotInProgress) {
			return mcp.NewToolResultError("quiz is not in progress; start a new quiz"), nil
		}
		// The session is unchanged; the caller may retry
		return mcp.NewToolResultError(fmt.Sprintf("failed to load next question: %v", err)), nil
	}

	return jsonResult(s.Snapshot())
}

// QuizScore handles the quiz_score tool
func (h *Handlers) QuizScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, errResult := h.session(request)
	if errResult != nil {
		return errResult, nil
	}

	view := s.Snapshot()
	return jsonResult(map[string]interface{}{
		"session_id": view.ID,
		"state":      view.State,
		"answered":   len(view.Records),
		"max":        view.Max,
		"score":      view.Score,
	})
}

// BankCount handles the bank_count tool
func (h *Handlers) BankCount(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.bank == nil {
		return mcp.NewToolResultError("no question bank configured"), nil
	}
	n, err := h.bank.Count(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to count questions: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{"count": n})
}

func (h *Handlers) session(request mcp.CallToolRequest) (*quiz.Session, *mcp.CallToolResult) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return nil, mcp.NewToolResultError("session_id argument is required and must be a string")
	}
	s, ok := h.sessions.Get(id)
	if !ok {
		return nil, mcp.NewToolResultError(fmt.Sprintf("session not found: %s", id))
	}
	return s, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
