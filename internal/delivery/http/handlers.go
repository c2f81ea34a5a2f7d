package http

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/hdbpricing/backend/internal/domain"
	"github.com/hdbpricing/backend/internal/service"
	"github.com/hdbpricing/backend/pkg/utils"
)

// Response headers flagging predictions made without economic indicators.
const (
	HeaderEconomicDataMissing      = "X-Economic-Data-Missing"
	HeaderEconomicDataMissingYears = "X-Economic-Data-Missing-Years"
)

// Handler contains all HTTP handlers
type Handler struct {
	pricing  *service.PricingService
	logger   *logrus.Logger
	validate *validator.Validate
}

// predictQuery is the query string shared by /predict and /fullpredict
type predictQuery struct {
	Year               *int   `query:"year" validate:"required"`
	Town               string `query:"town" validate:"required"`
	FlatType           string `query:"flat_type" validate:"required"`
	StoreyRange        string `query:"storey_range" validate:"required"`
	FloorAreaSqm       string `query:"floor_area_sqm" validate:"required"`
	FlatModel          string `query:"flat_model" validate:"required"`
	LeaseCommenceDate  *int   `query:"lease_commence_date" validate:"required,gte=1,lte=9999"`
	SoldRemainingLease *int   `query:"sold_remaining_lease" validate:"required"`
	MaxFloorLvl        *int   `query:"max_floor_lvl" validate:"required"`
	MostClosestMRT     string `query:"most_closest_mrt" validate:"required"`
	WalkingTimeMRT     *int   `query:"walking_time_mrt" validate:"required,gte=0"`
}

// NewHandler creates a new handler
func NewHandler(pricing *service.PricingService, logger *logrus.Logger) *Handler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("query")
	})

	return &Handler{
		pricing:  pricing,
		logger:   logger,
		validate: validate,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	econ := h.pricing.EconomicTable()
	status := fiber.Map{
		"status":           "ok",
		"service":          "hdb-pricing",
		"version":          "1.0.0",
		"feature_contract": domain.FeatureContractVersion,
		"economic_years":   econ.Len(),
	}
	if first, last, ok := econ.Span(); ok {
		status["economic_span"] = []int{first, last}
	}

	return c.JSON(status)
}

// GetContract returns the ordered model input columns
func (h *Handler) GetContract(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": domain.FeatureContractVersion,
		"columns": domain.FeatureColumns,
	})
}

// Predict returns the rounded price of a flat sold in the requested year
func (h *Handler) Predict(c *fiber.Ctx) error {
	q, attrs, err := h.parseQuery(c)
	if err != nil {
		return err
	}

	req := domain.SinglePredictionRequest{
		PropertyAttributes: attrs,
		Year:               *q.Year,
		SoldRemainingLease: *q.SoldRemainingLease,
		MaxFloorLvl:        *q.MaxFloorLvl,
	}

	prediction, err := h.pricing.PredictSingle(c.UserContext(), req)
	if err != nil {
		h.logger.WithError(err).WithField("year", req.Year).Error("Failed to predict price")
		return predictionError(err)
	}

	if prediction.EconomicDataMissing {
		c.Set(HeaderEconomicDataMissing, "true")
	}

	return c.JSON(prediction)
}

// FullPredict returns a forecast for every year of the resale window.
// year and sold_remaining_lease are accepted but the window derives its own.
func (h *Handler) FullPredict(c *fiber.Ctx) error {
	q, attrs, err := h.parseQuery(c, "year", "sold_remaining_lease")
	if err != nil {
		return err
	}

	req := domain.RangePredictionRequest{
		PropertyAttributes: attrs,
		MaxFloorLvl:        *q.MaxFloorLvl,
	}

	points, err := h.pricing.PredictRange(c.UserContext(), req)
	if err != nil {
		h.logger.WithError(err).WithField("lease_commence_date", req.LeaseCommenceDate).Error("Failed to forecast prices")
		return predictionError(err)
	}

	var missing []string
	for _, p := range points {
		if p.EconomicDataMissing {
			missing = append(missing, strconv.Itoa(p.SoldYear))
		}
	}
	if len(missing) > 0 {
		c.Set(HeaderEconomicDataMissingYears, strings.Join(missing, ","))
	}

	return c.JSON(RangeForecast(points))
}

// parseQuery binds and validates the query string. optional names query
// parameters that may be absent.
func (h *Handler) parseQuery(c *fiber.Ctx, optional ...string) (predictQuery, domain.PropertyAttributes, error) {
	var q predictQuery
	if err := c.QueryParser(&q); err != nil {
		return q, domain.PropertyAttributes{}, fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters: "+err.Error())
	}

	var skip []string
	for _, name := range optional {
		if field, ok := queryFields[name]; ok {
			skip = append(skip, field)
		}
	}
	if err := h.validate.StructExcept(q, skip...); err != nil {
		return q, domain.PropertyAttributes{}, fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}

	area, err := utils.ParseNumber(q.FloorAreaSqm)
	if err != nil || area <= 0 {
		return q, domain.PropertyAttributes{}, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Invalid floor_area_sqm: %q", q.FloorAreaSqm))
	}

	attrs := domain.PropertyAttributes{
		Town:              q.Town,
		FlatType:          q.FlatType,
		StoreyRange:       q.StoreyRange,
		FloorAreaSqm:      area,
		FlatModel:         q.FlatModel,
		LeaseCommenceDate: *q.LeaseCommenceDate,
		MostClosestMRT:    q.MostClosestMRT,
		WalkingTimeMRT:    *q.WalkingTimeMRT,
	}
	return q, attrs, nil
}

// queryFields maps query parameter names to predictQuery field names
var queryFields = func() map[string]string {
	t := reflect.TypeOf(predictQuery{})
	out := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		out[f.Tag.Get("query")] = f.Name
	}
	return out
}()

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid query parameters"
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	if len(missing) > 0 {
		return "Missing query parameters: " + strings.Join(missing, ", ")
	}
	return "Invalid query parameters: " + strings.Join(invalid, ", ")
}

func predictionError(err error) error {
	switch {
	case errors.Is(err, domain.ErrPredictionCount):
		return fiber.NewError(fiber.StatusBadGateway, "Model returned an unexpected number of predictions")
	case errors.Is(err, domain.ErrInvalidPrediction):
		return fiber.NewError(fiber.StatusBadGateway, "Model returned an invalid prediction")
	}
	return fiber.NewError(fiber.StatusBadGateway, "Failed to get prediction")
}
