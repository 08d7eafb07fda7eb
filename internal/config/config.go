package config

import (
	"fmt"
	"time"

	"github.com/parsedu/payment-service/internal/gateway"
	"github.com/parsedu/payment-service/pkg/mysql"
	"github.com/spf13/viper"
)

type Config struct {
	API       API          `mapstructure:"api"`
	Database  mysql.Config `mapstructure:"database"`
	Auth      Auth         `mapstructure:"auth"`
	Payment   Payment      `mapstructure:"payment"`
	Gateways  Gateways     `mapstructure:"gateways"`
	Plans     []Plan       `mapstructure:"plans"`
	Discounts []Discount   `mapstructure:"discounts"`
}

type API struct {
	Port string `mapstructure:"port"`
}

type Auth struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type Payment struct {
	// CallbackBaseURL is this service's public base URL, used to build the
	// per-provider callback URLs handed to the gateways.
	CallbackBaseURL string `mapstructure:"callback_base_url"`
	ResultURL       string `mapstructure:"result_url"`
	HomeURL         string `mapstructure:"home_url"`
}

type Gateways struct {
	Timeout  time.Duration          `mapstructure:"timeout"`
	Pardakht gateway.PardakhtConfig `mapstructure:"pardakht"`
	Sadad    gateway.SadadConfig    `mapstructure:"sadad"`
	Pasargad gateway.PasargadConfig `mapstructure:"pasargad"`
}

// Plan is a purchasable subscription tier. Plans and discount codes load
// once at startup so pricing rules stay out of the handlers.
type Plan struct {
	ID           string `mapstructure:"id"`
	Title        string `mapstructure:"title"`
	Amount       int64  `mapstructure:"amount"`
	DurationDays int    `mapstructure:"duration_days"`
}

type Discount struct {
	Code    string `mapstructure:"code"`
	Percent int64  `mapstructure:"percent"`
}

func (c *Config) Plan(id string) (Plan, bool) {
	for _, p := range c.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

func (c *Config) Discount(code string) (Discount, bool) {
	for _, d := range c.Discounts {
		if d.Code == code {
			return d, true
		}
	}
	return Discount{}, false
}

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
