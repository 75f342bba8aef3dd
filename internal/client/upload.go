package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
)

// DefaultFileName is used when a Submission has no FileName.
const DefaultFileName = "bench.tar.gz"

// Submission is a benchmark archive plus its metadata. Archive is read
// exactly once.
type Submission struct {
	Description string
	// RepoID is optional; an empty value omits the repo_id field.
	RepoID string
	// FileName must end in ".tar.gz" so the server can pick the codec.
	FileName string
	Archive  io.Reader
}

// Task is the queued task created by an upload.
type Task struct {
	ID string `json:"id" yaml:"id"`
}

type uploadResponse struct {
	Task *struct {
		ID json.RawMessage `json:"id"`
	} `json:"task"`
}

// Upload posts the archive to the benchmark queue and returns the new task.
func (c *Client) Upload(ctx context.Context, sub Submission) (*Task, error) {
	const op = "upload archive"
	url := c.url(uploadPath)

	fileName := sub.FileName
	if fileName == "" {
		fileName = DefaultFileName
	}

	fields := map[string]string{"description": sub.Description}
	if sub.RepoID != "" {
		fields["repo_id"] = sub.RepoID
	}

	c.log.Debug("uploading",
		slog.String("url", url),
		slog.String("file", fileName),
		slog.String("repo_id", sub.RepoID))

	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(AdminUser, c.password).
		SetMultipartFormData(fields).
		SetFileReader("file", fileName, sub.Archive).
		Post(url)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: url, Err: err}
	}
	if err := c.checkStatus(op, url, resp); err != nil {
		return nil, err
	}

	var body uploadResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &ProtocolError{Op: op, Body: resp.String(), Err: err}
	}
	if body.Task == nil {
		return nil, &ProtocolError{Op: op, Body: resp.String(), Err: errors.New(`missing field "task"`)}
	}

	id, err := decodeID(body.Task.ID)
	if err != nil {
		return nil, &ProtocolError{Op: op, Body: resp.String(), Err: err}
	}
	if id == "" {
		return nil, &ProtocolError{Op: op, Body: resp.String(), Err: errors.New(`missing field "task.id"`)}
	}

	return &Task{ID: id}, nil
}
