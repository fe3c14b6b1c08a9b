package model

import (
	"errors"
	"net/http"
)

var (
	ErrMethodNotFound      = errors.New("delivery method not found")
	ErrFeeConfigInvalid    = errors.New("delivery fee configuration is invalid")
	ErrMissingDistance     = errors.New("destination distance is required for distance based fees")
	ErrMissingPostalCode   = errors.New("destination postal code is required for postal code based fees")
	ErrPastDeliveryDate    = errors.New("requested delivery date is in the past")
	ErrInvalidSlotInterval = errors.New("time slot interval must be positive")
)

type ErrorCode string

const (
	ErrCodeMethodNotFound   ErrorCode = "DELIVERY_METHOD_NOT_FOUND"
	ErrCodeFeeConfigInvalid ErrorCode = "DELIVERY_FEE_CONFIG_INVALID"
	ErrCodeValidationFailed ErrorCode = "VAL_INVALID_INPUT"
	ErrCodePastDeliveryDate ErrorCode = "VAL_PAST_DELIVERY_DATE"
)

// AppError is the transport-facing error shape, mirrored across domains.
type AppError struct {
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	HTTPStatus int         `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrAppMethodNotFound = &AppError{
		Code:       ErrCodeMethodNotFound,
		Message:    ErrMethodNotFound.Error(),
		HTTPStatus: http.StatusNotFound,
	}
	ErrAppPastDeliveryDate = &AppError{
		Code:       ErrCodePastDeliveryDate,
		Message:    ErrPastDeliveryDate.Error(),
		HTTPStatus: http.StatusBadRequest,
	}
)

// NewFeeConfigError wraps a misconfiguration so it surfaces as a 422
// instead of a silently free delivery.
func NewFeeConfigError(detail string) *AppError {
	return &AppError{
		Code:       ErrCodeFeeConfigInvalid,
		Message:    ErrFeeConfigInvalid.Error(),
		Details:    detail,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}
