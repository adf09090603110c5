package services

import (
	"context"
	"errors"
	"log"
	"strings"
)

// AnalysisService fronts the primary analyzer with a label-based fallback
// for photos. Typed analysis failures (no food, unclear image) pass through
// untouched; only transport-level failures trigger the fallback.
type AnalysisService struct {
	primary  AnalysisGateway
	fallback *RekognitionService
}

func NewAnalysisService(primary AnalysisGateway, fallback *RekognitionService) *AnalysisService {
	return &AnalysisService{primary: primary, fallback: fallback}
}

func (s *AnalysisService) AnalyzeImage(ctx context.Context, image []byte) (*AnalysisResult, error) {
	res, err := s.primary.AnalyzeImage(ctx, image)
	if err == nil {
		return res, nil
	}

	var ae *AnalysisError
	if errors.As(err, &ae) && ae.Code != CodeAnalysisFailed {
		return nil, err
	}
	if s.fallback == nil {
		return nil, err
	}

	log.Printf("primary image analysis failed, trying label fallback: %v", err)
	labels, lerr := s.fallback.RecognizeLabels(ctx, image)
	if lerr != nil || len(labels) == 0 {
		return nil, err
	}

	return &AnalysisResult{
		Description:       strings.Join(labels, ", "),
		Confidence:        ConfidenceLow,
		OverallMultiplier: 1.0,
	}, nil
}

func (s *AnalysisService) AnalyzeText(ctx context.Context, text string) (*AnalysisResult, error) {
	return s.primary.AnalyzeText(ctx, text)
}
