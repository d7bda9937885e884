package helpers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/codec-handler/internal/helpers"
	"github.com/stretchr/testify/assert"
)

type testCase struct {
	Name     string
	Response events.APIGatewayProxyResponse
	Error    error
	Expected expectedResponse
}

type expectedResponse struct {
	StatusCode int
	Body       string
	Header     string
}

func TestRespondHTTP(t *testing.T) {
	testCases := []testCase{
		{
			Name: "with_valid_response_and_no_error",
			Response: events.APIGatewayProxyResponse{
				StatusCode: http.StatusOK,
				Body:       `{"a":1}`,
				Headers:    map[string]string{"Content-Type": "application/json"},
			},
			Expected: expectedResponse{
				StatusCode: http.StatusOK,
				Body:       `{"a":1}`,
				Header:     "application/json",
			},
		},
		{
			Name: "with_validation_failure",
			Response: events.APIGatewayProxyResponse{
				StatusCode: http.StatusBadRequest,
				Body:       `{"error":"invalid"}`,
				Headers:    map[string]string{"Content-Type": "application/json"},
			},
			Expected: expectedResponse{
				StatusCode: http.StatusBadRequest,
				Body:       `{"error":"invalid"}`,
				Header:     "application/json",
			},
		},
		{
			Name:     "with_empty_response_and_no_error",
			Response: events.APIGatewayProxyResponse{},
			Expected: expectedResponse{
				StatusCode: http.StatusOK,
				Body:       "",
				Header:     "",
			},
		},
		{
			Name:     "with_error",
			Response: events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: "ignored"},
			Error:    errors.New("handler contract violated"),
			Expected: expectedResponse{
				StatusCode: http.StatusInternalServerError,
				Body:       `{"error":"handler contract violated"}`,
				Header:     "application/json",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			rw := httptest.NewRecorder()

			helpers.RespondHTTP(tc.Response, tc.Error, rw)

			assert.Equal(t, tc.Expected.StatusCode, rw.Code)
			assert.Equal(t, tc.Expected.Header, rw.Header().Get("Content-Type"))
			assert.Equal(t, tc.Expected.Body, rw.Body.String())
		})
	}
}
