package codelime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/codelime/codelime-cli/internal/core/domain"
)

// GetQuestion fetches a single question with its codebook and settings.
func (c *Client) GetQuestion(ctx context.Context, id int) (*domain.Question, error) {
	var question domain.Question
	path := fmt.Sprintf("/questions/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &question, false, http.StatusOK); err != nil {
		return nil, err
	}
	return &question, nil
}

// UpdateQuestion patches a question in place. requestTraining tells the
// platform to retrain after the update is applied.
func (c *Client) UpdateQuestion(ctx context.Context, question *domain.Question, requestTraining bool) (*domain.Question, error) {
	if question.ID == nil {
		return nil, fmt.Errorf("%w: question has no id", domain.ErrInvalidInput)
	}
	path := fmt.Sprintf("/questions/%d", *question.ID)
	query := url.Values{"request_training": []string{strconv.FormatBool(requestTraining)}}

	var updated domain.Question
	if err := c.do(ctx, http.MethodPatch, path, query, question, &updated, false, http.StatusOK); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteQuestion removes a question and its answers.
func (c *Client) DeleteQuestion(ctx context.Context, id int) error {
	path := fmt.Sprintf("/questions/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, false, http.StatusNoContent)
}

// ListAnswers returns the answers of a question. With grouped set,
// identical answers are collapsed server-side; without it every answer
// row comes back individually.
func (c *Client) ListAnswers(ctx context.Context, questionID int, grouped bool) ([]domain.Answer, error) {
	path := fmt.Sprintf("/questions/%d/answers", questionID)
	var query url.Values
	if !grouped {
		query = url.Values{"no_group": []string{"true"}}
	}

	var answers []domain.Answer
	if err := c.do(ctx, http.MethodGet, path, query, nil, &answers, false, http.StatusOK); err != nil {
		return nil, err
	}
	return answers, nil
}

// RequestTraining asks the platform to retrain the model for a question.
func (c *Client) RequestTraining(ctx context.Context, questionID int) error {
	path := fmt.Sprintf("/questions/%d/request-training", questionID)
	return c.do(ctx, http.MethodPost, path, nil, nil, nil, false, http.StatusOK)
}

// GetPredictions fetches model predictions for a question. When the
// model has not produced any yet the API answers 204 and this returns
// domain.ErrNoPredictions.
func (c *Client) GetPredictions(ctx context.Context, questionID int) (*domain.Predictions, error) {
	path := fmt.Sprintf("/questions/%d/codes-predicted", questionID)

	var predictions domain.Predictions
	err := c.do(ctx, http.MethodGet, path, nil, nil, &predictions, false, http.StatusOK)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNoContent {
			return nil, domain.ErrNoPredictions
		}
		return nil, err
	}
	return &predictions, nil
}
