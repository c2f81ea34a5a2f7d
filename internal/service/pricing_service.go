package service

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/hdbpricing/backend/internal/domain"
	"github.com/hdbpricing/backend/pkg/utils"
)

// maxPrice bounds model outputs so that rounding stays within int64
const maxPrice = float64(1 << 62)

// PricingService is the application context shared by every request: the
// fitted model and the economic table, both read-only after startup.
type PricingService struct {
	model     domain.Model
	econ      *domain.EconomicTable
	assembler *FeatureAssembler
	logger    *logrus.Logger
}

// NewPricingService creates a new pricing service
func NewPricingService(model domain.Model, econ *domain.EconomicTable, logger *logrus.Logger) *PricingService {
	return &PricingService{
		model:     model,
		econ:      econ,
		assembler: NewFeatureAssembler(econ),
		logger:    logger,
	}
}

// Assembler exposes the feature assembler backing the service
func (s *PricingService) Assembler() *FeatureAssembler {
	return s.assembler
}

// EconomicTable returns the loaded economic table
func (s *PricingService) EconomicTable() *domain.EconomicTable {
	return s.econ
}

// PredictSingle prices a flat sold in req.Year
func (s *PricingService) PredictSingle(ctx context.Context, req domain.SinglePredictionRequest) (domain.SinglePrediction, error) {
	rows := s.assembler.AssembleSingle(req)
	if !rows[0].EconomicMatched {
		s.logger.WithFields(logrus.Fields{
			"sold_year": req.Year,
			"town":      req.Town,
		}).Warn("No economic indicators for sale year, predicting with missing values")
	}

	outputs, err := s.predict(ctx, rows)
	if err != nil {
		return domain.SinglePrediction{}, err
	}

	return domain.SinglePrediction{
		HDBPricing:          utils.RoundHalfEven(outputs[0]),
		EconomicDataMissing: !rows[0].EconomicMatched,
	}, nil
}

// PredictRange forecasts the price of a flat for every year of its resale window.
// An empty window yields an empty forecast without calling the model.
func (s *PricingService) PredictRange(ctx context.Context, req domain.RangePredictionRequest) ([]domain.ForecastPoint, error) {
	rows := s.assembler.AssembleRange(req)
	if len(rows) == 0 {
		s.logger.WithField("lease_commence_date", req.LeaseCommenceDate).Info("Resale window is empty")
		return []domain.ForecastPoint{}, nil
	}

	var unmatched []int
	for _, r := range rows {
		if !r.EconomicMatched {
			unmatched = append(unmatched, r.SoldYear)
		}
	}
	if len(unmatched) > 0 {
		s.logger.WithFields(logrus.Fields{
			"years": unmatched,
			"town":  req.Town,
		}).Warn("No economic indicators for some forecast years")
	}

	outputs, err := s.predict(ctx, rows)
	if err != nil {
		return nil, err
	}

	points := make([]domain.ForecastPoint, len(rows))
	for i, r := range rows {
		points[i] = domain.ForecastPoint{
			SoldYear:            r.SoldYear,
			Forecast:            utils.RoundHalfEven(outputs[i]),
			EconomicDataMissing: !r.EconomicMatched,
		}
	}
	return points, nil
}

func (s *PricingService) predict(ctx context.Context, rows []domain.FeatureRow) ([]float64, error) {
	outputs, err := s.model.Predict(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("pricing: model prediction failed: %w", err)
	}
	if len(outputs) != len(rows) {
		return nil, fmt.Errorf("pricing: %w: got %d for %d rows", domain.ErrPredictionCount, len(outputs), len(rows))
	}
	for i, v := range outputs {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= maxPrice {
			return nil, fmt.Errorf("pricing: %w: %v for sale year %d", domain.ErrInvalidPrediction, v, rows[i].SoldYear)
		}
	}
	return outputs, nil
}
