package api

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
)

// Upload sends one file to the upload service and returns the initial
// document record (status "uploaded").
func (c *Client) Upload(ctx context.Context, token, filename string, r io.Reader) (models.Document, error) {
	var doc models.Document
	if err := c.doMultipart(ctx, c.uploadURL+"/upload", token, "upload", KindUpload, filename, r, &doc); err != nil {
		return models.Document{}, err
	}
	if doc.Filename == "" {
		doc.Filename = filename
	}
	if doc.Status == "" {
		doc.Status = models.StatusUploaded
	}
	return doc, nil
}

// Documents fetches the caller's document list, newest state included.
func (c *Client) Documents(ctx context.Context, token string) ([]models.Document, error) {
	var docs []models.Document
	if err := c.doJSON(ctx, http.MethodGet, c.uploadURL+"/documents", token, "documents", KindTransient, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// History fetches the full ordered conversation history for a document.
func (c *Client) History(ctx context.Context, token, documentID string) ([]models.ConversationEntry, error) {
	var entries []models.ConversationEntry
	u := c.uploadURL + "/documents/" + url.PathEscape(documentID) + "/history"
	if err := c.doJSON(ctx, http.MethodGet, u, token, "history", KindTransient, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
