package helpers

import (
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
)

type httpError struct {
	Error string `json:"error"`
}

// RespondHTTP writes a proxy response envelope to rw. A non-nil err replaces the envelope with a 500 error body.
func RespondHTTP(response events.APIGatewayProxyResponse, err error, rw http.ResponseWriter) {
	if err != nil {
		body, _ := json.Marshal(httpError{Error: err.Error()})
		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(http.StatusInternalServerError)
		_, _ = rw.Write(body)
		return
	}

	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	for k, values := range response.MultiValueHeaders {
		for _, v := range values {
			rw.Header().Add(k, v)
		}
	}
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write([]byte(response.Body))
}
