package helpers

import (
	"encoding/json"
	"net/http"

	"github.com/elnpack/eln-packager-app/internal/models"
)

type httpResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// RespondHTTP writes a models.Response to the given writer. When the response
// body already carries a JSON document it is passed through untouched,
// otherwise it is wrapped in a {message, error} envelope.
func RespondHTTP(response models.Response, err error, rw http.ResponseWriter) {
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}

	var respBody []byte
	if json.Valid([]byte(response.Body)) && len(response.Body) > 0 {
		rw.Header().Set("Content-Type", "application/json")
		respBody = []byte(response.Body)
	} else {
		hR := httpResponse{Message: response.Body}
		if err != nil {
			hR.Error = err.Error()
		}
		respBody, _ = json.Marshal(hR)
	}

	rw.WriteHeader(statusCode)
	_, _ = rw.Write(respBody)
}
