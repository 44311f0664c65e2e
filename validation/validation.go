package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"

	"github.com/gookit/validate"

	"github.com/status-im/market-dashboard/apierrors"
	"github.com/status-im/market-dashboard/interfaces"
)

const invalidDataPrefix = "Invalid data received from API"

func init() {
	validate.AddValidator("absUrl", isAbsoluteURL)
	validate.AddGlobalMessages(map[string]string{
		"absUrl": "{field} must be an absolute URL",
	})
}

// isAbsoluteURL accepts any parseable URL with a scheme and a host
func isAbsoluteURL(val interface{}) bool {
	s, ok := val.(string)
	if !ok {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.IsAbs() && u.Host != ""
}

// requiredFields lists every field of a market record in wire order
var requiredFields = []string{
	"id",
	"symbol",
	"name",
	"current_price",
	"market_cap",
	"market_cap_rank",
	"total_volume",
	"price_change_percentage_24h",
	"image",
}

// marketRecord is the wire shape of a market record before constraints are checked
type marketRecord struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	MarketCapRank            float64 `json:"market_cap_rank"`
	TotalVolume              float64 `json:"total_volume"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	Image                    string  `json:"image" validate:"required|absUrl"`
}

// ParseMany decodes a provider response body and validates it as a list of market records
func ParseMany(body []byte) ([]interfaces.Cryptocurrency, error) {
	return ValidateMany(json.RawMessage(body))
}

// ValidateMany checks that input is an array of market records.
// input may be raw JSON ([]byte, json.RawMessage) or an already decoded []interface{}.
// The first invalid element rejects the whole input.
func ValidateMany(input interface{}) ([]interfaces.Cryptocurrency, error) {
	elements, err := toElements(input)
	if err != nil {
		return nil, err
	}

	result := make([]interfaces.Cryptocurrency, 0, len(elements))
	for i, element := range elements {
		record, err := validateElement(element)
		if err != nil {
			return nil, invalid(fmt.Sprintf("element %d: %s", i, err.Error()), err)
		}
		result = append(result, record)
	}

	return result, nil
}

// ValidateOne checks a single market record
func ValidateOne(raw []byte) (interfaces.Cryptocurrency, error) {
	record, err := validateElement(raw)
	if err != nil {
		return interfaces.Cryptocurrency{}, invalid(err.Error(), err)
	}
	return record, nil
}

func invalid(detail string, cause error) *apierrors.Error {
	return apierrors.NewValidationError(fmt.Sprintf("%s: %s", invalidDataPrefix, detail), cause)
}

// toElements normalizes the accepted input forms into raw JSON elements
func toElements(input interface{}) ([]json.RawMessage, error) {
	switch v := input.(type) {
	case nil:
		return nil, invalid("expected an array, got null", nil)
	case json.RawMessage:
		return decodeArray(v)
	case []byte:
		return decodeArray(v)
	case []interface{}:
		elements := make([]json.RawMessage, 0, len(v))
		for i, item := range v {
			encoded, err := json.Marshal(item)
			if err != nil {
				return nil, invalid(fmt.Sprintf("element %d: cannot be encoded: %v", i, err), err)
			}
			elements = append(elements, encoded)
		}
		return elements, nil
	default:
		return nil, invalid(fmt.Sprintf("expected an array, got %T", input), nil)
	}
}

func decodeArray(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, invalid("expected an array", nil)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, invalid(fmt.Sprintf("malformed JSON: %v", err), err)
	}
	return elements, nil
}

func validateElement(raw []byte) (interfaces.Cryptocurrency, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return interfaces.Cryptocurrency{}, errors.New("expected an object")
	}

	// JSON null decodes into a zero value silently, so presence is checked on the raw fields
	for _, name := range requiredFields {
		value, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return interfaces.Cryptocurrency{}, fmt.Errorf("missing required field %q", name)
		}
	}

	var record marketRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return interfaces.Cryptocurrency{}, fmt.Errorf("field %q: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
		}
		return interfaces.Cryptocurrency{}, err
	}

	if err := checkNumbers(record); err != nil {
		return interfaces.Cryptocurrency{}, err
	}

	v := validate.Struct(&record)
	if !v.Validate() {
		return interfaces.Cryptocurrency{}, errors.New(v.Errors.One())
	}

	return interfaces.Cryptocurrency{
		ID:                       record.ID,
		Symbol:                   record.Symbol,
		Name:                     record.Name,
		CurrentPrice:             record.CurrentPrice,
		MarketCap:                record.MarketCap,
		MarketCapRank:            int(record.MarketCapRank),
		TotalVolume:              record.TotalVolume,
		PriceChangePercentage24h: record.PriceChangePercentage24h,
		Image:                    record.Image,
	}, nil
}

func checkNumbers(record marketRecord) error {
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"current_price", record.CurrentPrice},
		{"market_cap", record.MarketCap},
		{"total_volume", record.TotalVolume},
	}
	for _, field := range nonNegative {
		if field.value < 0 {
			return fmt.Errorf("field %q: must be non-negative, got %v", field.name, field.value)
		}
	}

	if record.MarketCapRank < 1 || math.Trunc(record.MarketCapRank) != record.MarketCapRank {
		return fmt.Errorf("field %q: must be a positive integer, got %v", "market_cap_rank", record.MarketCapRank)
	}

	return nil
}
