package api

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	ErrInternalErr            = "INTERNAL_ERROR"
	ErrValidationErr          = "VALIDATION_ERROR"
	ErrBadRequest             = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeUserExists         = "USER_EXISTS"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUserBanned         = "USER_BANNED"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
)

type UserResponse struct {
	User UserSchema `json:"user"`
}

type UserListResponse struct {
	Users  []UserSchema `json:"users"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  UserSchema `json:"user"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatsResponse struct {
	Total       int          `json:"total"`
	Programmers int          `json:"programmers"`
	AverageAge  float64      `json:"average_age"`
	ByStatus    []GroupCount `json:"by_status"`
	ByGender    []GroupCount `json:"by_gender"`
}

func Error(code string, msg string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: msg,
		},
	}
}

func InternalError() ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    ErrInternalErr,
			Message: "internal server error",
		},
	}
}

func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errMsgs []string
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field '%s' is required", err.Field()))
		case "max":
			errMsgs = append(
				errMsgs,
				fmt.Sprintf("field '%s' must be no more than %s characters", err.Field(), err.Param()),
			)
		case "min":
			errMsgs = append(
				errMsgs,
				fmt.Sprintf("field '%s' must be at least %s", err.Field(), err.Param()),
			)
		case "oneof":
			errMsgs = append(
				errMsgs,
				fmt.Sprintf("field '%s' must be one of [%s]", err.Field(), err.Param()),
			)
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field '%s' is not valid", err.Field()))
		}
	}

	return ErrorResponse{
		Error: ErrorDetail{
			Code:    ErrValidationErr,
			Message: strings.Join(errMsgs, ", "),
		},
	}
}
