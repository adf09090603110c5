package services

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to transports. Wording is reused verbatim in
// user-facing copy, so keep them stable.
var (
	ErrInvalidPortion  = errors.New("portion multiplier must be between 0.1 and 10.0")
	ErrPendingNotFound = errors.New("pending meal not found")
	ErrMealNotFound    = errors.New("meal not found")
	ErrInvalidNutrient = errors.New("nutrient cannot be adjusted")

	ErrRequestExists   = errors.New("access request already exists")
	ErrAlreadyApproved = errors.New("user already has access")
	ErrAccessRevoked   = errors.New("access was revoked; request reinstatement instead")
	ErrNotRevoked      = errors.New("no revoked access record found")
	ErrNoRequest       = errors.New("no access request found")
)

// Machine codes for failed food analysis. Transports map these to the
// friendly retry copy shown to the user.
const (
	CodeNoFoodDetected  = "NO_FOOD_DETECTED"
	CodeImageUnclear    = "IMAGE_UNCLEAR"
	CodeNoFoodDescribed = "NO_FOOD_DESCRIBED"
	CodeTextTooShort    = "TEXT_TOO_SHORT"
	CodeNonFoodText     = "NON_FOOD_TEXT"
	CodeLowConfidence   = "LOW_CONFIDENCE"
	CodeAnalysisFailed  = "ANALYSIS_FAILED"
)

// AnalysisError is a typed failure from the vision/text analyzer.
type AnalysisError struct {
	Code   string
	Detail string
}

func (e *AnalysisError) Error() string {
	if e.Detail == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// AnalysisCode extracts the machine code from err, or "" when err is not
// an analysis failure.
func AnalysisCode(err error) string {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
