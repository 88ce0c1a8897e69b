package api

import (
	"fmt"

	"github.com/bitmark-inc/neighbor-api/utils"
)

var (
	errorMessageMap = map[int64]string{
		999:  "internal server error",
		1001: "invalid authorization format",
		1003: "invalid token",

		1010: "invalid parameters",
		1011: "cannot parse request",
		1012: "too many requests",

		1100: "this email has been registered",
		1101: "account not found",
		1102: "incorrect email or password",

		1200: "help request not found",
		1201: "the help request can not move to the requested status",
		1202: "you are not allowed to do this on the help request",
		1203: "invalid help request",
	}

	errorInternalServer             = errorJSON(999)
	errorInvalidAuthorizationFormat = errorJSON(1001)
	errorInvalidToken               = errorJSON(1003)

	errorInvalidParameters  = errorJSON(1010)
	errorCannotParseRequest = errorJSON(1011)
	errorTooManyRequests    = errorJSON(1012)

	errorAccountTaken       = errorJSON(1100)
	errorAccountNotFound    = errorJSON(1101)
	errorInvalidCredentials = errorJSON(1102)

	errorHelpRequestNotFound = errorJSON(1200)
	errorInvalidTransition   = errorJSON(1201)
	errorForbidden           = errorJSON(1202)
	errorInvalidHelpRequest  = errorJSON(1203)
)

type ErrorResponse struct {
	Code    int64                  `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// withDetails returns a copy of the response carrying extra fields
func (e ErrorResponse) withDetails(details map[string]interface{}) ErrorResponse {
	e.Details = details
	return e
}

// localized translates the message for an Accept-Language header
func (e ErrorResponse) localized(acceptLanguage string) ErrorResponse {
	e.Message = utils.Localize(acceptLanguage, fmt.Sprintf("error_%d", e.Code), e.Message)
	return e
}
