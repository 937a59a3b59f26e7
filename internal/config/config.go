// Package config defines the storefront service configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/eshop/storefront/pkg/config"
	"github.com/eshop/storefront/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	HTTPServer config.HTTPConfig     `koanf:"server"`
	Log        config.LogConfig      `koanf:"log"`
	PProf      config.PProfConfig    `koanf:"pprof"`
	Shutdown   config.ShutdownConfig `koanf:"shutdown"`
	Store      StoreConfig           `koanf:"store"`
	Database   config.DatabaseConfig `koanf:"database"`
	Nats       config.NATSConfig     `koanf:"nats"`
	Cart       CartConfig            `koanf:"cart"`
	Pricing    PricingConfig         `koanf:"pricing"`
}

// StoreConfig selects the cart persistence backend.
type StoreConfig struct {
	Driver string `koanf:"driver"`
}

func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case StoreDriverMemory, StoreDriverPostgres:
		return nil
	}
	return fmt.Errorf("unknown store driver: %q", c.Driver)
}

// CartConfig identifies the persisted cart.
type CartConfig struct {
	Key string `koanf:"key"`
}

func (c *CartConfig) Validate() error {
	if c.Key == "" {
		return fmt.Errorf("cart key is not configured")
	}
	return nil
}

// PricingConfig carries the totals rules. TaxRatePercent is a whole
// percentage; the other two are minor currency units.
type PricingConfig struct {
	TaxRatePercent   int64 `koanf:"taxRatePercent"`
	FreeShippingOver int64 `koanf:"freeShippingOver"`
	ShippingFee      int64 `koanf:"shippingFee"`
}

func (c *PricingConfig) Validate() error {
	if c.TaxRatePercent < 0 || c.TaxRatePercent > 100 {
		return fmt.Errorf("invalid tax rate percent: %d", c.TaxRatePercent)
	}
	if c.FreeShippingOver < 0 {
		return fmt.Errorf("invalid free shipping threshold: %d", c.FreeShippingOver)
	}
	if c.ShippingFee < 0 {
		return fmt.Errorf("invalid shipping fee: %d", c.ShippingFee)
	}
	return nil
}

// Defaults returns the configuration the service starts with when no file or
// environment overrides are present: in-memory store, reference pricing.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":               8080,
		"server.maxHeaderBytes":     1 << 20,
		"server.timeout.read":       "5s",
		"server.timeout.write":      "10s",
		"server.timeout.idle":       "60s",
		"server.timeout.readHeader": "2s",
		"log.level":                 "info",
		"pprof.enabled":             false,
		"shutdown.timeout":          "10s",
		"store.driver":              StoreDriverMemory,
		"nats.enabled":              false,
		"cart.key":                  "eshop_cart_v1",
		"pricing.taxRatePercent":    18,
		"pricing.freeShippingOver":  2000,
		"pricing.shippingFee":       100,
	}
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Server Configuration ---\n")
	b.WriteString(fmt.Sprintf("  server.port: %d\n", c.HTTPServer.Port))
	b.WriteString(fmt.Sprintf("  server.maxHeaderBytes: %d\n", c.HTTPServer.MaxHeaderBytes))
	b.WriteString(fmt.Sprintf("  server.timeout.read: %v\n", c.HTTPServer.Timeout.Read))
	b.WriteString(fmt.Sprintf("  server.timeout.write: %v\n", c.HTTPServer.Timeout.Write))
	b.WriteString(fmt.Sprintf("  server.timeout.idle: %v\n", c.HTTPServer.Timeout.Idle))
	b.WriteString(fmt.Sprintf("  server.timeout.readHeader: %v\n", c.HTTPServer.Timeout.ReadHeader))

	b.WriteString("\n--- Cart Storage ---\n")
	b.WriteString(fmt.Sprintf("  store.driver: %s\n", c.Store.Driver))
	b.WriteString(fmt.Sprintf("  cart.key: %s\n", c.Cart.Key))
	if c.Store.Driver == StoreDriverPostgres {
		b.WriteString(fmt.Sprintf("  database.url: %s\n", maskURL(c.Database.URL)))
		b.WriteString(fmt.Sprintf("  database.timeout: %s\n", c.Database.Timeout))
	}

	b.WriteString("\n--- Pricing ---\n")
	b.WriteString(fmt.Sprintf("  pricing.taxRatePercent: %d\n", c.Pricing.TaxRatePercent))
	b.WriteString(fmt.Sprintf("  pricing.freeShippingOver: %d\n", c.Pricing.FreeShippingOver))
	b.WriteString(fmt.Sprintf("  pricing.shippingFee: %d\n", c.Pricing.ShippingFee))

	b.WriteString("\n--- Messaging ---\n")
	b.WriteString(fmt.Sprintf("  nats.enabled: %t\n", c.Nats.Enabled))
	if c.Nats.Enabled {
		b.WriteString(fmt.Sprintf("  nats.url: %s\n", c.Nats.Url))
		b.WriteString(fmt.Sprintf("  nats.timeout: %s\n", c.Nats.Timeout))
	}

	b.WriteString("\n--- Observability & Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	b.WriteString(fmt.Sprintf("  pprof.enabled: %t\n", c.PProf.Enabled))
	b.WriteString(fmt.Sprintf("  pprof.address: %s\n", c.PProf.Addr))

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  shutdown.timeout: %s\n", c.Shutdown.Timeout))

	return b.String()
}

func maskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	// Mask the URL by replacing the username and password with "****"
	parts := strings.Split(url, "@")
	if len(parts) == 2 {
		return "****@" + parts[1]
	}
	return "****"
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if c.Store.Driver == StoreDriverPostgres {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}
	if err := c.Nats.Validate(); err != nil {
		return err
	}
	if err := c.Cart.Validate(); err != nil {
		return err
	}
	return c.Pricing.Validate()
}
