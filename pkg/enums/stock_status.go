package enums

import "fmt"

// StockStatus is the derived health classification of a stock item.
type StockStatus string

const (
	StockStatusLow    StockStatus = "Low"
	StockStatusMedium StockStatus = "Medium"
	StockStatusHigh   StockStatus = "High"
)

var validStockStatuses = []StockStatus{
	StockStatusLow,
	StockStatusMedium,
	StockStatusHigh,
}

// IsValid checks whether the given status matches the canonical enum.
func (s StockStatus) IsValid() bool {
	for _, candidate := range validStockStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockStatus converts raw strings into StockStatus.
func ParseStockStatus(value string) (StockStatus, error) {
	for _, candidate := range validStockStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock status %q", value)
}
