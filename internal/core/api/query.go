package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
)

// Query asks one question against a ready document and returns the answer
// with its source count.
func (c *Client) Query(ctx context.Context, token, documentID, question string) (models.Answer, error) {
	payload := map[string]any{
		"document_id": wireID(documentID),
		"question":    question,
	}
	var answer models.Answer
	if err := c.doJSON(ctx, http.MethodPost, c.queryURL+"/query", token, "query", KindQuery, payload, &answer); err != nil {
		return models.Answer{}, err
	}
	return answer, nil
}

// wireID sends numeric document ids as JSON numbers. The query service
// declares document_id as an integer; ids stay opaque strings everywhere
// else in the client.
func wireID(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}
