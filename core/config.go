package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config lending config
type Config struct {
	App         App         `json:"app"`
	DB          db.Config   `json:"db"`
	PriceOracle PriceOracle `json:"price_oracle"`
	Bridge      Bridge      `json:"bridge"`
	Admins      []string    `json:"admins"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	if len(c.Admins) <= 0 {
		return false
	}

	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	Genesis         int64  `json:"genesis"`
	SecondsPerBlock int64  `json:"seconds_per_block"`
	Location        string `json:"location"`
}

// PriceOracle price oracle config
type PriceOracle struct {
	EndPoint string `json:"end_point"`
}

// Bridge btc collateral bridge config
type Bridge struct {
	// synthetic btc collateral asset
	AssetID          string   `json:"asset_id"`
	Attesters        []string `json:"attesters"`
	Threshold        int      `json:"threshold"`
	MinConfirmations int64    `json:"min_confirmations"`
}
