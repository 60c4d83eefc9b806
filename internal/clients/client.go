// Package clients tracks clients through the sales pipeline: each record
// pairs the household's financial inputs with the computed maximum purchase
// price, a pipeline status and a manual ordering.
package clients

import (
	"fmt"
	"strings"
	"time"

	"viabilidad/internal/engine"
	"viabilidad/internal/property"
	"viabilidad/pkg/constants"
)

// Status is a client's pipeline column.
type Status string

const (
	// StatusDefault is the initial pipeline column.
	StatusDefault Status = "default"
	// StatusArras marks clients with a signed deposit contract.
	StatusArras Status = "arras"
	// StatusSecondVisit marks clients on a second property visit.
	StatusSecondVisit Status = "2visita"
)

// Valid reports whether s is a known pipeline status.
func (s Status) Valid() bool {
	switch s {
	case StatusDefault, StatusArras, StatusSecondVisit:
		return true
	}
	return false
}

// Client is one tracked lead. Inputs and MaxPurchasePrice round-trip through
// storage unchanged so a saved client can be re-opened in the calculator.
type Client struct {
	ID               int64                `json:"id"`
	Name             string               `json:"name"`
	Phone            string               `json:"phone,omitempty"`
	MaxPurchasePrice float64              `json:"maxPurchasePrice"`
	Status           Status               `json:"status"`
	SortOrder        int                  `json:"sortOrder"`
	Inputs           engine.Input         `json:"inputs"`
	FavoriteProperty *property.Comparison `json:"favoriteProperty,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
}

// Validate checks the fields a record must carry before being stored.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("client name is required")
	}
	if c.Status != "" && !c.Status.Valid() {
		return fmt.Errorf("unknown status %q", c.Status)
	}
	return nil
}

// NormalizePhone trims a phone number and prepends the Spanish country prefix
// when missing. Empty numbers stay empty.
func NormalizePhone(phone string) string {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, constants.PhoneCountryPrefix) {
		return constants.PhoneCountryPrefix + trimmed
	}
	return trimmed
}
