package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

const testTraceID = "550e8400-e29b-41d4-a716-446655440000"

type ResponseTestSuite struct {
	suite.Suite
}

func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) TestNewErrorResponse() {
	cases := []struct {
		name        string
		code        ErrorCode
		opts        []ErrorOption
		wantCode    string
		wantMessage string
		wantDetails []string
	}{
		{
			name:        "default message",
			code:        AuthInvalidCredentials,
			wantCode:    "AUTH_001",
			wantMessage: "Invalid email or password",
		},
		{
			name:        "with details",
			code:        ValidationGeneral,
			opts:        []ErrorOption{WithDetails("Field validation failed", "Email is required")},
			wantCode:    "VALIDATION_001",
			wantMessage: "Validation failed",
			wantDetails: []string{"Field validation failed", "Email is required"},
		},
		{
			name:        "custom message",
			code:        SystemInternalError,
			opts:        []ErrorOption{WithMessage("keyword store is unreachable")},
			wantCode:    "SYSTEM_001",
			wantMessage: "keyword store is unreachable",
		},
		{
			name:        "message and details combined",
			code:        ItemNotFound,
			opts:        []ErrorOption{WithMessage("no such item"), WithDetails("item id unknown")},
			wantCode:    "ITEM_001",
			wantMessage: "no such item",
			wantDetails: []string{"item id unknown"},
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			response := NewErrorResponse(tc.code, testTraceID, tc.opts...)

			s.Require().NotNil(response)
			s.Equal(tc.wantCode, response.Error.Code)
			s.Equal(tc.wantMessage, response.Error.Message)
			s.Equal(testTraceID, response.Error.TraceID)
			if tc.wantDetails == nil {
				s.Empty(response.Error.Details)
			} else {
				s.Equal(tc.wantDetails, response.Error.Details)
			}
		})
	}
}

func (s *ResponseTestSuite) TestWithDetails_LastInvocationWins() {
	response := NewErrorResponse(
		ValidationGeneral,
		testTraceID,
		WithDetails("detail1", "detail2"),
		WithDetails("detail3"),
	)

	s.Equal([]string{"detail3"}, response.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationError() {
	response := NewValidationError(map[string]string{
		"email":    "must be a valid email address",
		"password": "must be at least 10 characters long",
		"name":     "is required",
	}, testTraceID)

	s.Equal("VALIDATION_001", response.Error.Code)
	s.Equal("Validation failed", response.Error.Message)
	s.Equal(testTraceID, response.Error.TraceID)

	// Map iteration order is not fixed
	s.ElementsMatch([]string{
		"email: must be a valid email address",
		"password: must be at least 10 characters long",
		"name: is required",
	}, response.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationError_NoFields() {
	response := NewValidationError(map[string]string{}, testTraceID)

	s.Equal("VALIDATION_001", response.Error.Code)
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestWrapSystemError() {
	internalErr := errors.New("database connection failed")

	response, originalErr := WrapSystemError(internalErr, testTraceID)

	s.Equal("SYSTEM_001", response.Error.Code)
	s.Equal(testTraceID, response.Error.TraceID)
	s.Empty(response.Error.Details)

	// The original error comes back for server-side logging
	s.Equal(internalErr, originalErr)
}

func (s *ResponseTestSuite) TestWrapSystemError_HidesInternals() {
	sensitiveErr := errors.New("SQL error: table 'keyword_associations' does not exist at /var/lib/postgresql/data")

	response, _ := WrapSystemError(sensitiveErr, testTraceID)

	s.NotContains(response.Error.Message, "SQL")
	s.NotContains(response.Error.Message, "table")
	s.NotContains(response.Error.Message, "/var/lib/postgresql")
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestJSONSerialization() {
	response := NewErrorResponse(ItemNotFound, testTraceID, WithDetails("Item ID: 12345"))

	jsonBytes, err := json.Marshal(response)
	s.NoError(err)

	var unmarshaled ErrorResponse
	s.NoError(json.Unmarshal(jsonBytes, &unmarshaled))
	s.Equal("ITEM_001", unmarshaled.Error.Code)
	s.Equal("Grocery item not found", unmarshaled.Error.Message)
	s.Equal(testTraceID, unmarshaled.Error.TraceID)
	s.Contains(unmarshaled.Error.Details, "Item ID: 12345")
}

func (s *ResponseTestSuite) TestJSONSerialization_EmptyDetailsOmitted() {
	jsonBytes, err := json.Marshal(NewErrorResponse(AuthInvalidCredentials, testTraceID))
	s.NoError(err)

	var jsonMap map[string]interface{}
	s.NoError(json.Unmarshal(jsonBytes, &jsonMap))

	errorMap := jsonMap["error"].(map[string]interface{})
	_, hasDetails := errorMap["details"]
	s.False(hasDetails, "empty details should be omitted from JSON")
}

func (s *ResponseTestSuite) TestGetHTTPStatus() {
	cases := []struct {
		code       ErrorCode
		wantStatus int
	}{
		{ValidationGeneral, http.StatusBadRequest},
		{ValidationInvalidEmail, http.StatusBadRequest},
		{ItemInvalidName, http.StatusBadRequest},
		{ItemInvalidQuantity, http.StatusBadRequest},
		{CategoryInvalid, http.StatusBadRequest},
		{KeywordTooShort, http.StatusBadRequest},
		{AuthInvalidCredentials, http.StatusUnauthorized},
		{AuthMissingToken, http.StatusUnauthorized},
		{AuthExpiredToken, http.StatusUnauthorized},
		{AuthInsufficientPermission, http.StatusForbidden},
		{AuthAccountLocked, http.StatusForbidden},
		{UserNotFound, http.StatusNotFound},
		{ItemNotFound, http.StatusNotFound},
		{CategoryNotFound, http.StatusNotFound},
		{KeywordDuplicate, http.StatusConflict},
		{ItemAlreadyDeleted, http.StatusConflict},
		{UserAlreadyExists, http.StatusUnprocessableEntity},
		{SystemRateLimitExceeded, http.StatusTooManyRequests},
		{SystemInternalError, http.StatusInternalServerError},
		{SystemDatabaseError, http.StatusInternalServerError},
		{SystemServiceUnavailable, http.StatusServiceUnavailable},
		{KeywordStoreFailure, http.StatusServiceUnavailable},
		{ErrorCode("UNKNOWN_999"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.wantStatus, GetHTTPStatus(tc.code))
		})
	}
}

func (s *ResponseTestSuite) TestString() {
	str := NewErrorResponse(ItemNotFound, testTraceID).String()

	s.Contains(str, "ITEM_001")
	s.Contains(str, "Grocery item not found")
	s.Contains(str, testTraceID)
}
