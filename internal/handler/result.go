package handler

import (
	"encoding/json"
	"net/http"

	"github.com/elnpack/eln-packager-app/internal/canvas"
	"github.com/elnpack/eln-packager-app/internal/models"
)

// Outcome classifies how a webhook was concluded.
type Outcome string

const (
	OutcomeSuccess        Outcome = "Success"
	OutcomePartialFailure Outcome = "PartialFailure"
	OutcomeRejected       Outcome = "Rejected"
)

// ProcessingResult is the response body returned for every webhook. It is
// created per event and never persisted.
type ProcessingResult struct {
	Outcome            Outcome        `json:"outcome"`
	Message            string         `json:"message,omitempty"`
	PackageRevisionURL string         `json:"packageRevisionUrl,omitempty"`
	CanvasBlocks       []canvas.Block `json:"canvasBlocks,omitempty"`
}

func respond(statusCode int, result ProcessingResult) models.Response {
	body, err := json.Marshal(result)
	if err != nil {
		return models.Response{StatusCode: http.StatusInternalServerError}
	}
	return models.Response{
		Body:       string(body),
		Headers:    map[string]string{"content-type": "application/json"},
		StatusCode: statusCode,
	}
}
