package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/AswinRaj1123/NyayaAI/internal/core/api"
	"github.com/AswinRaj1123/NyayaAI/internal/core/config"
	"github.com/AswinRaj1123/NyayaAI/internal/core/docs"
	"github.com/AswinRaj1123/NyayaAI/internal/core/session"
)

// AskQuestionArgs defines arguments for the ask_question tool
type AskQuestionArgs struct {
	DocumentID string `json:"document_id" jsonschema:"description=Id of a ready document,required"`
	Question   string `json:"question" jsonschema:"description=Natural-language question about the document,required"`
}

// GetHistoryArgs defines arguments for the get_history tool
type GetHistoryArgs struct {
	DocumentID string `json:"document_id" jsonschema:"description=Id of the document,required"`
}

// DocumentSummary represents one document in the list view
type DocumentSummary struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	Ready      bool   `json:"ready"`
	UploadedAt string `json:"uploaded_at,omitempty"`
}

// AnswerResult represents the answer to one question
type AnswerResult struct {
	Answer  string `json:"answer"`
	Sources int    `json:"sources"`
}

// HistoryEntry represents one past question/answer pair
type HistoryEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Sources  int    `json:"sources"`
	AskedAt  string `json:"asked_at,omitempty"`
}

// StartServer starts the MCP server over stdio. It needs a stored session;
// the token is restored once at startup and a rejected token ends the server
// rather than looping.
func StartServer() error {
	cfg := config.Load()
	client := api.New(cfg.AuthURL, cfg.UploadURL, cfg.QueryURL)
	sess := session.New(client, session.NewFileTokenStore(cfg.TokenPath))

	ok, err := sess.Restore(context.Background())
	if err != nil {
		return fmt.Errorf("could not reach auth service: %w", err)
	}
	if !ok {
		return fmt.Errorf("not logged in — run 'nyaya login' first")
	}
	dc := docs.New(client, sess, cfg.PollInterval)

	s := server.NewMCPServer(
		"NyayaAI",
		"1.0.0",
	)

	listTool := mcp.NewTool("list_documents",
		mcp.WithDescription("List the user's uploaded legal documents with their processing status. Only documents with status 'ready' can be questioned."),
	)
	s.AddTool(listTool, makeListDocumentsHandler(dc))

	askTool := mcp.NewTool("ask_question",
		mcp.WithDescription("Ask a natural-language question about a ready document and get an answer with the number of source sections used"),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("Id of a ready document (from list_documents)")),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Question about the document, in English or Hindi")),
	)
	s.AddTool(askTool, makeAskQuestionHandler(dc))

	historyTool := mcp.NewTool("get_history",
		mcp.WithDescription("Get the full question/answer history for a document, oldest first"),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("Id of the document")),
	)
	s.AddTool(historyTool, makeGetHistoryHandler(dc))

	return server.ServeStdio(s)
}

func makeListDocumentsHandler(dc *docs.Client) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		documents, err := dc.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %s", api.Detail(err, "request failed"))), nil
		}

		results := make([]DocumentSummary, 0, len(documents))
		for _, d := range documents {
			summary := DocumentSummary{
				ID:       d.ID,
				Filename: d.Filename,
				Status:   string(d.Status),
				Ready:    d.Selectable(),
			}
			if !d.UploadedAt.IsZero() {
				summary.UploadedAt = d.UploadedAt.Format("2006-01-02T15:04:05Z07:00")
			}
			results = append(results, summary)
		}

		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeAskQuestionHandler(dc *docs.Client) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args AskQuestionArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		answer, err := dc.AskDocument(ctx, args.DocumentID, args.Question)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %s", api.Detail(err, "request failed"))), nil
		}

		data, err := json.MarshalIndent(AnswerResult{Answer: answer.Answer, Sources: answer.Sources}, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal answer: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeGetHistoryHandler(dc *docs.Client) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args GetHistoryArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		entries, err := dc.History(ctx, args.DocumentID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("history failed: %s", api.Detail(err, "request failed"))), nil
		}

		results := make([]HistoryEntry, 0, len(entries))
		for _, e := range entries {
			entry := HistoryEntry{
				Question: e.Question,
				Answer:   e.Answer,
				Sources:  e.Sources,
			}
			if !e.AskedAt.IsZero() {
				entry.AskedAt = e.AskedAt.Format("2006-01-02T15:04:05Z07:00")
			}
			results = append(results, entry)
		}

		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal history: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
