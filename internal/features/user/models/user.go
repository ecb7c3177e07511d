package models

import "time"

// User is the directory's canonical record for an end user. Exactly one of
// TelegramID or Email is set at creation and acts as the external identity
// anchor for OTP and webhook correlation.
type User struct {
	ID         string `json:"id" example:"a0e46a5e-6ff7-4bfa-9dd4-2a80da63c8e4"`
	TelegramID int64  `json:"telegram_id,omitempty" example:"123456789"`
	Email      string `json:"email,omitempty" example:"user@example.com"`

	KYCVerified        bool      `json:"kyc_verified"`
	KYCVerificationURL string    `json:"kyc_verification_url,omitempty"`
	KYCRequestedAt     time.Time `json:"kyc_requested_at,omitempty"`

	BankDetailsStatus bool   `json:"bank_details_status"`
	BankFullName      string `json:"bank_full_name,omitempty"`
	BankIBAN          string `json:"bank_iban,omitempty"`
	BankSwiftBIC      string `json:"bank_swift_bic,omitempty"`
	BankName          string `json:"bank_name,omitempty"`
	BankCountry       string `json:"bank_country,omitempty"`

	MonthlyLimit     float64   `json:"monthly_limit"`
	MonthlyLimitUsed float64   `json:"monthly_limit_used"`
	DailyLimit       float64   `json:"daily_limit"`
	DailyLimitUsed   float64   `json:"daily_limit_used"`
	LimitResetDate   time.Time `json:"limit_reset_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BankDetails carries the five fields accepted by the bank-details update.
// A successful update atomically sets BankDetailsStatus on the record.
type BankDetails struct {
	FullName string `json:"full_name" binding:"required"`
	IBAN     string `json:"iban" binding:"required"`
	SwiftBIC string `json:"swift_bic" binding:"required"`
	BankName string `json:"bank_name" binding:"required"`
	Country  string `json:"country" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"user not found"`
}
