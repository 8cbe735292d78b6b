package field

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field is a pitch the group rents. HourlyRate drives split-mode dues.
type Field struct {
	ID           string
	GroupID      string
	Name         string
	Location     string
	HourlyRate   decimal.Decimal
	ContactName  string
	ContactPhone string
	Latitude     *float64
	Longitude    *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (f Field) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("field id is required")
	}
	if f.GroupID == "" {
		return fmt.Errorf("field group id is required")
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("field name is required")
	}
	if f.HourlyRate.IsNegative() {
		return fmt.Errorf("field hourly rate must not be negative")
	}
	if (f.Latitude == nil) != (f.Longitude == nil) {
		return fmt.Errorf("field coordinates require both latitude and longitude")
	}
	if f.Latitude != nil && (*f.Latitude < -90 || *f.Latitude > 90) {
		return fmt.Errorf("field latitude out of range")
	}
	if f.Longitude != nil && (*f.Longitude < -180 || *f.Longitude > 180) {
		return fmt.Errorf("field longitude out of range")
	}

	return nil
}
