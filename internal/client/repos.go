package client

import (
	"context"
	"encoding/json"
	"errors"
)

// Repo is a repository known to the server.
type Repo struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// UnmarshalJSON accepts numeric as well as string ids.
func (r *Repo) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   json.RawMessage `json:"id"`
		Name string          `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}
	if id == "" {
		return errors.New("repository without id")
	}

	r.ID = id
	r.Name = raw.Name
	return nil
}

type reposResponse struct {
	Repos *[]Repo `json:"repos"`
}

// FetchRepos lists all repositories known to the server.
func (c *Client) FetchRepos(ctx context.Context) ([]Repo, error) {
	const op = "fetch repositories"
	url := c.url(reposPath)

	resp, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: url, Err: err}
	}
	if err := c.checkStatus(op, url, resp); err != nil {
		return nil, err
	}

	var body reposResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &ProtocolError{Op: op, Body: resp.String(), Err: err}
	}
	if body.Repos == nil {
		return nil, &ProtocolError{Op: op, Body: resp.String(), Err: errors.New(`missing field "repos"`)}
	}

	return *body.Repos, nil
}
