package http

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/hdbpricing/backend/internal/domain"
)

// requestIDKey is where the requestid middleware stores the request id
const requestIDKey = "requestid"

// RangeForecast serializes as an object keyed by row index, keys in row order:
// {"0": {"sold_year": 1990, "forecast": 123}, "1": ...}
type RangeForecast []domain.ForecastPoint

// MarshalJSON keeps the index keys in ascending numeric order
func (f RangeForecast) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(i)))
		buf.WriteByte(':')
		point, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		buf.Write(point)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NewErrorHandler renders every error in the service's JSON error envelope.
// Errors that are not *fiber.Error are logged with the request id and become a 500.
func NewErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		} else {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.Locals(requestIDKey),
				"method":     c.Method(),
				"path":       c.Path(),
			}).Error("Unhandled request error")
		}

		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": message,
		})
	}
}
