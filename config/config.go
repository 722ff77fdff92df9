package config

import (
	"lending/core"
)

const (
	defaultSecondsPerBlock  = 15
	defaultBridgeThreshold  = 1
	defaultMinConfirmations = 6
)

func defaultApp(cfg *core.Config) {
	if cfg.App.SecondsPerBlock <= 0 {
		cfg.App.SecondsPerBlock = defaultSecondsPerBlock
	}

	if cfg.App.Location == "" {
		cfg.App.Location = "UTC"
	}
}

func defaultBridge(cfg *core.Config) {
	if cfg.Bridge.Threshold <= 0 {
		cfg.Bridge.Threshold = defaultBridgeThreshold
	}

	if cfg.Bridge.MinConfirmations <= 0 {
		cfg.Bridge.MinConfirmations = defaultMinConfirmations
	}

	// a threshold above the attester count could never be met
	if cfg.Bridge.Threshold > len(cfg.Bridge.Attesters) && len(cfg.Bridge.Attesters) > 0 {
		cfg.Bridge.Threshold = len(cfg.Bridge.Attesters)
	}
}
