// Package dt talks to a Dependency-Track API server
package dt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/mattermost/cdxbom/cyclonedx/spec"
	"github.com/mattermost/cdxbom/log"
)

// Client provides methods for communicating with a Dependency-Track API server
type Client struct {
	*http.Client

	baseURL *url.URL
	secret  string
}

// NewClient initializes a new Dependency-Track API client
func NewClient(api, secret string) (*Client, error) {
	client := &Client{
		Client: &http.Client{Timeout: 60 * time.Second},
		secret: secret,
	}

	parsedURL, err := url.Parse(api)
	if err != nil {
		return nil, err
	}
	if parsedURL.Scheme == "" {
		return nil, errors.New("cannot use relative URL as the Dependency-Track API location")
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URI scheme '%s'", parsedURL.Scheme)
	}
	parsedURL.Fragment = ""
	parsedURL.RawQuery = ""

	client.baseURL = parsedURL

	return client, nil
}

// ResponseError is returned for non-2xx responses
type ResponseError struct {
	Status     string
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("error response from server: %s -- %s", e.Status, e.Body)
}

// Upload identifies the target project of a BOM upload. Either the
// project UUID or its name and version must be set.
type Upload struct {
	Format         spec.Format
	ProjectName    string
	ProjectVersion string
	ProjectUUID    string
	// AutoCreate creates a project missing on the server
	AutoCreate bool
}

// Upload posts a BOM document and returns the processing token
func (c *Client) Upload(ctx context.Context, bom io.Reader, upload Upload) (string, error) {
	if upload.ProjectUUID == "" && upload.ProjectName == "" {
		return "", errors.New("a project UUID or name is required to upload")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := [][2]string{
		{"projectName", upload.ProjectName},
		{"projectVersion", upload.ProjectVersion},
		{"project", upload.ProjectUUID},
	}
	if upload.AutoCreate {
		fields = append(fields, [2]string{"autoCreate", "true"})
	}
	for _, field := range fields {
		if field[1] == "" {
			continue
		}
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return "", err
		}
	}

	format := upload.Format
	if format == "" {
		format = spec.XML
	}
	part, err := writer.CreateFormFile("bom", "bom."+string(format))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, bom); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	request, err := c.newRequest(ctx, http.MethodPost, "api/v1/bom", nil, body)
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())

	token := &struct {
		Token string
	}{}
	if err := c.do(request, token); err != nil {
		return "", err
	}
	return token.Token, nil
}

// Processing reports whether the server is still processing the upload
// identified by token
func (c *Client) Processing(ctx context.Context, token string) (bool, error) {
	request, err := c.newRequest(ctx, http.MethodGet, path.Join("api/v1/bom/token", token), nil, nil)
	if err != nil {
		return false, err
	}
	status := &struct {
		Processing bool
	}{}
	if err := c.do(request, status); err != nil {
		return false, err
	}
	return status.Processing, nil
}

// Wait polls the processing state of token every interval until the
// server is done or ctx is cancelled
func (c *Client) Wait(ctx context.Context, token string, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		processing, err := c.Processing(ctx, token)
		if err != nil {
			return err
		}
		if !processing {
			return nil
		}
		log.Debug("upload '%s' is still being processed", token)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Version fetches version information from the server
func (c *Client) Version(ctx context.Context) (string, error) {
	request, err := c.newRequest(ctx, http.MethodGet, "api/version", nil, nil)
	if err != nil {
		return "", err
	}
	// the version endpoint is unauthenticated
	request.Header.Del("X-Api-Key")

	version := &struct {
		Version string
	}{}
	if err := c.do(request, version); err != nil {
		return "", err
	}
	return version.Version, nil
}

// Project represents a project on the Dependency-Track server
type Project struct {
	UUID          string
	Name          string
	Version       string
	LastBomImport int64
}

// Lookup returns information about a named project
func (c *Client) Lookup(ctx context.Context, project, version string) (*Project, error) {
	values := url.Values{
		"name":    []string{project},
		"version": []string{version},
	}
	request, err := c.newRequest(ctx, http.MethodGet, "api/v1/project/lookup", values, nil)
	if err != nil {
		return nil, err
	}

	p := &Project{}
	if err := c.do(request, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProject returns information about a project by UUID
func (c *Client) GetProject(ctx context.Context, uuid string) (*Project, error) {
	request, err := c.newRequest(ctx, http.MethodGet, path.Join("api/v1/project", uuid), nil, nil)
	if err != nil {
		return nil, err
	}

	p := &Project{}
	if err := c.do(request, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *Client) newRequest(ctx context.Context, method, target string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.url(target)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	request, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	request.Header.Set("X-Api-Key", c.secret)
	return request, nil
}

// do sends request and decodes a successful JSON response into v
func (c *Client) do(request *http.Request, v interface{}) error {
	response, err := c.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	result, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode > 299 {
		return &ResponseError{Status: response.Status, StatusCode: response.StatusCode, Body: string(result)}
	}

	return json.Unmarshal(result, v)
}

func (c *Client) url(target string) string {
	result := &url.URL{}
	*result = *c.baseURL
	result.Path = path.Join(result.Path, target)

	return result.String()
}
