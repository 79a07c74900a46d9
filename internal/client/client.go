// Package client provides an HTTP client for the ModelHub REST API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/modelhub-io/modelhub/internal/comment"
	"github.com/modelhub-io/modelhub/internal/model"
	"github.com/modelhub-io/modelhub/internal/namespace"
)

// Client is an HTTP client for the ModelHub API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ShowResponse is the response from GET /api/models/{id}.
type ShowResponse struct {
	Model    *model.Info        `json:"model"`
	Comments []*comment.Comment `json:"comments"`
}

// DeleteCommentResponse is the response from DELETE /api/comments/{id}.
type DeleteCommentResponse struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

// ListModels returns catalog models, optionally filtered by namespace.
func (c *Client) ListModels(ns string) ([]*model.Info, error) {
	path := "/api/models"
	if ns != "" {
		path += "?namespace=" + url.QueryEscape(ns)
	}

	var models []*model.Info
	if err := c.get(path, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// GetModel returns a model with its comments.
func (c *Client) GetModel(modelID string) (*ShowResponse, error) {
	var resp ShowResponse
	if err := c.get("/api/models/"+modelID, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddModel registers a model in the catalog.
func (c *Client) AddModel(modelID, visibility, description string) (*model.Info, error) {
	body := map[string]string{
		"model_id":    modelID,
		"visibility":  visibility,
		"description": description,
	}
	var info model.Info
	if err := c.post("/api/models", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DeleteModel removes a model from the catalog.
func (c *Client) DeleteModel(modelID string) error {
	return c.doDelete("/api/models/"+modelID, nil)
}

// AddComment adds a comment to a model.
func (c *Client) AddComment(modelID, content string) (*comment.Comment, error) {
	body := map[string]string{"content": content}
	var comm comment.Comment
	if err := c.post("/api/models/"+modelID+"/comments", body, &comm); err != nil {
		return nil, err
	}
	return &comm, nil
}

// ListComments returns comments on a model.
func (c *Client) ListComments(modelID string) ([]*comment.Comment, error) {
	var comments []*comment.Comment
	if err := c.get("/api/models/"+modelID+"/comments", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// ListCommentsByAuthor returns comments written by an author.
func (c *Client) ListCommentsByAuthor(author string) ([]*comment.Comment, error) {
	var comments []*comment.Comment
	if err := c.get("/api/comments?author="+url.QueryEscape(author), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment deletes a comment. A denied delete is reported in the
// response, not as an error.
func (c *Client) DeleteComment(id int64) (*DeleteCommentResponse, error) {
	var resp DeleteCommentResponse
	if err := c.doDelete(fmt.Sprintf("/api/comments/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListNamespaces returns all registered namespaces.
func (c *Client) ListNamespaces() ([]*namespace.Namespace, error) {
	var namespaces []*namespace.Namespace
	if err := c.get("/api/namespaces", &namespaces); err != nil {
		return nil, err
	}
	return namespaces, nil
}

// AddNamespace registers a namespace (sysadmin only).
func (c *Client) AddNamespace(name, workspaceID string) (*namespace.Namespace, error) {
	body := map[string]string{"name": name, "workspace_id": workspaceID}
	var ns namespace.Namespace
	if err := c.post("/api/namespaces", body, &ns); err != nil {
		return nil, err
	}
	return &ns, nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// doDelete performs a DELETE request.
func (c *Client) doDelete(path string, result interface{}) error {
	req, err := http.NewRequest("DELETE", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// do executes an HTTP request with auth header and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
