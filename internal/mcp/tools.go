// ABOUTME: MCP tool definitions and registration for the quiz server
// ABOUTME: Defines JSON schemas for question generation, document chat, and quiz sessions
package mcp

import (
	"context"

	"github.com/harper/quizsmith/internal/core"
	"github.com/harper/quizsmith/internal/logger"
	"github.com/harper/quizsmith/internal/quiz"
	"github.com/harper/quizsmith/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Asker answers questions about one document and keeps its chat history
type Asker interface {
	Ask(ctx context.Context, document, question string) (*core.TutorAnswer, error)
	History(document string) []core.Turn
	ClearHistory(document string)
}

// Deps are the services the tools call into
type Deps struct {
	Generator quiz.QuestionGenerator
	Tutor     Asker
	Bank      storage.Provider
	Sessions  *quiz.Registry
	Title     string
	Topics    []string
	Logger    *logger.Logger
}

// NewHandlers builds the tool handlers without registering them
func NewHandlers(deps Deps) *Handlers {
	return &Handlers{
		generator: deps.Generator,
		tutor:     deps.Tutor,
		bank:      deps.Bank,
		sessions:  deps.Sessions,
		title:     deps.Title,
		topics:    deps.Topics,
		log:       logger.OrNop(deps.Logger),
	}
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, deps Deps) *Handlers {
	handlers := NewHandlers(deps)

	// 1. generate_question - One fresh question grounded in a topic's document
	server.AddTool(mcp.Tool{
		Name:        "generate_question",
		Description: "Generate one multiple-choice question for a course topic, grounded in the topic's document. The answer and explanation are included.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Course topic or document name",
				},
			},
			Required: []string{"topic"},
		},
	}, handlers.GenerateQuestion)

	// 2. ask_document - Chat with one document
	server.AddTool(mcp.Tool{
		Name:        "ask_document",
		Description: "Answer a question about one document using its most relevant excerpts. The chat history is kept per document.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document": map[string]interface{}{
					"type":        "string",
					"description": "Document name or topic",
				},
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to ask (required when preset is custom)",
				},
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Canned question: summary, concepts, code, pitfalls, or custom",
					"enum":        []string{"summary", "concepts", "code", "pitfalls", "custom"},
					"default":     "custom",
				},
				"include_history": map[string]interface{}{
					"type":        "boolean",
					"description": "Return the document's chat history with the answer",
					"default":     false,
				},
				"clear_history": map[string]interface{}{
					"type":        "boolean",
					"description": "Forget the document's chat history first; with no question, only clears",
					"default":     false,
				},
			},
			Required: []string{"document"},
		},
	}, handlers.AskDocument)

	// 3. list_topics - Course topics
	server.AddTool(mcp.Tool{
		Name:        "list_topics",
		Description: "List the course topics questions can be generated for.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListTopics)

	// 4. start_quiz - Begin a quiz session
	server.AddTool(mcp.Tool{
		Name:        "start_quiz",
		Description: "Start a quiz. Topic mode generates questions for one topic; random mode draws a batch from the question bank. Returns the session and its first question.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "topic or random (default: topic)",
					"enum":        []string{"topic", "random"},
					"default":     "topic",
				},
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Course topic (topic mode)",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Restart an existing session instead of creating one",
				},
			},
		},
	}, handlers.StartQuiz)

	// 5. submit_answer - Answer the current question
	server.AddTool(mcp.Tool{
		Name:        "submit_answer",
		Description: "Submit an answer for a question in a quiz session. Answers cannot be changed once submitted.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Quiz session id",
				},
				"choice": map[string]interface{}{
					"type":        "string",
					"description": "Option text or letter a-d",
				},
				"index": map[string]interface{}{
					"type":        "number",
					"description": "Question index (default: current question)",
				},
			},
			Required: []string{"session_id", "choice"},
		},
	}, handlers.SubmitAnswer)

	// 6. next_question - Advance the session
	server.AddTool(mcp.Tool{
		Name:        "next_question",
		Description: "Move to the next question. An unanswered question counts as skipped. Completes the quiz at the question limit.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Quiz session id",
				},
			},
			Required: []string{"session_id"},
		},
	}, handlers.NextQuestion)

	// 7. quiz_score - Current score
	server.AddTool(mcp.Tool{
		Name:        "quiz_score",
		Description: "Get the score of a quiz session: correct, incorrect (including skips), and percentage.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Quiz session id",
				},
			},
			Required: []string{"session_id"},
		},
	}, handlers.QuizScore)

	// 8. bank_count - Question bank size
	server.AddTool(mcp.Tool{
		Name:        "bank_count",
		Description: "Count the questions stored in the question bank.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.BankCount)

	return handlers
}
