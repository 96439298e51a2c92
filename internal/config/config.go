/*

	Mnemonic:	config
	Abstract:	Process-wide constants for the simulation (spec section 3),
				read from FERRYSIM_-prefixed environment variables with
				compiled-in defaults; there are no command-line flags.

	Date:		29 July 2026
*/

package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds every constant named in spec section 3.
type Config struct {
	Ferries     int `mapstructure:"FERRIES"`
	Passengers  int `mapstructure:"PASSENGERS"`
	FerryCap    int `mapstructure:"FERRY_CAPACITY"`
	BagWeightMin int `mapstructure:"BAG_WEIGHT_MIN"`
	BagWeightMax int `mapstructure:"BAG_WEIGHT_MAX"`
	BagLimitMin  int `mapstructure:"BAG_LIMIT_MIN"`
	BagLimitMax  int `mapstructure:"BAG_LIMIT_MAX"`

	Stations        int `mapstructure:"SECURITY_STATIONS"`
	StationCapacity int `mapstructure:"STATION_CAPACITY"`
	MaxFrustration  int `mapstructure:"MAX_FRUSTRATION"`

	RampRegular int `mapstructure:"RAMP_REGULAR_CAPACITY"`
	RampVIP     int `mapstructure:"RAMP_VIP_CAPACITY"`

	BoardTime     time.Duration `mapstructure:"BOARD_TIME"`
	SecurityMin   time.Duration `mapstructure:"SECURITY_TIME_MIN"`
	SecurityMax   time.Duration `mapstructure:"SECURITY_TIME_MAX"`
	DepartInterval time.Duration `mapstructure:"DEPART_INTERVAL"`
	TravelTime    time.Duration `mapstructure:"TRAVEL_TIME"`
	GateDelayMax  time.Duration `mapstructure:"GATE_DELAY_MAX"`

	VIPProbability float64 `mapstructure:"VIP_PROBABILITY"`
	LogLevel       uint    `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from FERRYSIM_* environment variables, falling
// back to the compiled-in defaults below when unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FERRYSIM")
	v.AutomaticEnv()

	v.SetDefault("FERRIES", 3)
	v.SetDefault("PASSENGERS", 40)
	v.SetDefault("FERRY_CAPACITY", 12)
	v.SetDefault("BAG_WEIGHT_MIN", 5)
	v.SetDefault("BAG_WEIGHT_MAX", 40)
	v.SetDefault("BAG_LIMIT_MIN", 20)
	v.SetDefault("BAG_LIMIT_MAX", 35)

	v.SetDefault("SECURITY_STATIONS", 3)
	v.SetDefault("STATION_CAPACITY", 2)
	v.SetDefault("MAX_FRUSTRATION", 3)

	v.SetDefault("RAMP_REGULAR_CAPACITY", 4)
	v.SetDefault("RAMP_VIP_CAPACITY", 2)

	v.SetDefault("BOARD_TIME", "50ms")
	v.SetDefault("SECURITY_TIME_MIN", "30ms")
	v.SetDefault("SECURITY_TIME_MAX", "120ms")
	v.SetDefault("DEPART_INTERVAL", "2s")
	v.SetDefault("TRAVEL_TIME", "1s")
	v.SetDefault("GATE_DELAY_MAX", "200ms")

	v.SetDefault("VIP_PROBABILITY", 0.20)
	v.SetDefault("LOG_LEVEL", 1)

	cfg := &Config{
		Ferries:         v.GetInt("FERRIES"),
		Passengers:      v.GetInt("PASSENGERS"),
		FerryCap:        v.GetInt("FERRY_CAPACITY"),
		BagWeightMin:    v.GetInt("BAG_WEIGHT_MIN"),
		BagWeightMax:    v.GetInt("BAG_WEIGHT_MAX"),
		BagLimitMin:     v.GetInt("BAG_LIMIT_MIN"),
		BagLimitMax:     v.GetInt("BAG_LIMIT_MAX"),
		Stations:        v.GetInt("SECURITY_STATIONS"),
		StationCapacity: v.GetInt("STATION_CAPACITY"),
		MaxFrustration:  v.GetInt("MAX_FRUSTRATION"),
		RampRegular:     v.GetInt("RAMP_REGULAR_CAPACITY"),
		RampVIP:         v.GetInt("RAMP_VIP_CAPACITY"),
		BoardTime:       v.GetDuration("BOARD_TIME"),
		SecurityMin:     v.GetDuration("SECURITY_TIME_MIN"),
		SecurityMax:     v.GetDuration("SECURITY_TIME_MAX"),
		DepartInterval:  v.GetDuration("DEPART_INTERVAL"),
		TravelTime:      v.GetDuration("TRAVEL_TIME"),
		GateDelayMax:    v.GetDuration("GATE_DELAY_MAX"),
		VIPProbability:  v.GetFloat64("VIP_PROBABILITY"),
		LogLevel:        uint(v.GetInt("LOG_LEVEL")),
	}

	return cfg, cfg.Validate()
}

// Validate rejects configurations that would make the protocols in spec
// section 4 meaningless (e.g. zero ferries).
func (c *Config) Validate() error {
	switch {
	case c.Ferries < 1:
		return errInvalid("FERRIES must be >= 1")
	case c.Passengers < 0:
		return errInvalid("PASSENGERS must be >= 0")
	case c.FerryCap < 1:
		return errInvalid("FERRY_CAPACITY must be >= 1")
	case c.BagLimitMin > c.BagLimitMax:
		return errInvalid("BAG_LIMIT_MIN must be <= BAG_LIMIT_MAX")
	case c.BagWeightMin > c.BagWeightMax:
		return errInvalid("BAG_WEIGHT_MIN must be <= BAG_WEIGHT_MAX")
	case c.Stations < 1:
		return errInvalid("SECURITY_STATIONS must be >= 1")
	case c.StationCapacity < 1:
		return errInvalid("STATION_CAPACITY must be >= 1")
	case c.RampRegular < 0 || c.RampVIP < 0:
		return errInvalid("ramp capacities must be >= 0")
	}
	return nil
}

type configError string

func (e configError) Error() string { return string(e) }

func errInvalid(msg string) error { return configError(msg) }
