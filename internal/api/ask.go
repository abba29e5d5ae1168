package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/advisorchat/internal/errors"
	"github.com/diogo/advisorchat/internal/models"
)

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 1 << 20

type askRequest struct {
	Question string `json:"question"`
}

// Ask posts a question and decodes the answer. Transport failures and
// non-JSON bodies are errors; a JSON body of any other shape is a
// KindNone result. The HTTP status alone never fails a request.
// Redirects are followed.
func (c *AdvisorClient) Ask(ctx context.Context, question string) (*models.AnswerResult, error) {
	if question == "" {
		return nil, apierrors.ErrEmptyQuestion
	}

	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apierrors.NewNetworkError("build request", c.endpoint, err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.Debug().
		Str("endpoint", c.endpoint).
		Int("question_len", len(question)).
		Msg("sending question")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apierrors.NewTimeoutError(c.timeout.String())
		}
		return nil, apierrors.NewNetworkError("ask", c.endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, apierrors.NewNetworkError("read response", c.endpoint, err)
	}

	var statusErr *apierrors.APIError
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr = apierrors.NewAPIErrorWithBody(resp.StatusCode, c.endpoint, http.StatusText(resp.StatusCode), string(body))
		c.logger.Warn().
			Err(statusErr).
			Int("status", resp.StatusCode).
			Msg("backend returned non-success status")
	}

	result, err := parseAnswer(body, resp.StatusCode)
	if err != nil {
		var pe *apierrors.ParseError
		if statusErr != nil && errors.As(err, &pe) {
			pe.Err = statusErr
		}
		return nil, err
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Str("kind", result.Kind.String()).
		Dur("elapsed", time.Since(start)).
		Msg("received answer")

	return result, nil
}

// parseAnswer classifies a response body. A major record wins over a
// message; a field counts as present when its value is truthy.
func parseAnswer(body []byte, statusCode int) (*models.AnswerResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response body is not valid JSON", string(body), statusCode)
	}

	root := gjson.ParseBytes(body)
	if root.Type == gjson.Null {
		return nil, apierrors.NewParseError("response body is null", string(body), statusCode)
	}
	if !root.IsObject() {
		return &models.AnswerResult{Kind: models.KindNone}, nil
	}

	if major := root.Get(PathMajor); truthy(major) {
		return &models.AnswerResult{
			Kind:            models.KindMajor,
			Major:           major.String(),
			College:         root.Get(PathCollege).String(),
			TuitionInState:  root.Get(PathTuitionInState).String(),
			TuitionOutState: root.Get(PathTuitionOutState).String(),
			Description:     root.Get(PathDescription).String(),
		}, nil
	}

	if message := root.Get(PathMessage); truthy(message) {
		return &models.AnswerResult{
			Kind:    models.KindMessage,
			Message: message.String(),
		}, nil
	}

	return &models.AnswerResult{Kind: models.KindNone}, nil
}

// truthy reports whether a field counts as present. Missing, null, false,
// 0 and "" do not.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}
