package model

import "errors"

var (
	ErrCouponExhausted     = errors.New("coupon usage limit reached")
	ErrNoBenefitConfigured = errors.New("coupon must offer a discount or free delivery")
)

type ErrorCode string

const (
	ErrCodeCouponNotFound ErrorCode = "COUPON_NOT_FOUND"   // 404
	ErrCodeDuplicateCode  ErrorCode = "VAL_DUPLICATE_CODE" // 400
	ErrCodeCannotRedeem   ErrorCode = "BIZ_CANNOT_REDEEM"  // 409

	// Validation errors (400)
	ErrCodeValidationFailed ErrorCode = "VAL_INVALID_INPUT"
)

type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

var ErrAppCouponNotFound = &AppError{
	Code:       ErrCodeCouponNotFound,
	Message:    "coupon does not exist or has been removed",
	HTTPStatus: 404,
}
