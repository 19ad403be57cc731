package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kilianp07/caravail/core/model"
)

// DataConfig locates the car file.
type DataConfig struct {
	Path string `json:"path"`
	// DirectWrite rewrites the file in place instead of replacing it
	// through a temporary file and a rename.
	DirectWrite bool `json:"direct_write"`
}

func (c *DataConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "data/cars.json"
	}
}

func (c DataConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// AvailabilityConfig defines the window stamped on every car.
type AvailabilityConfig struct {
	EndDate string `json:"end_date"`
	// Timezone is an IANA name deciding the run date. Empty means local time.
	Timezone string `json:"timezone"`
}

func (c *AvailabilityConfig) SetDefaults() {
	if c.EndDate == "" {
		c.EndDate = model.DefaultEndDate
	}
}

func (c AvailabilityConfig) Validate() error {
	if _, err := model.ParseDate(c.EndDate); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c AvailabilityConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// MetricsConfig controls the Prometheus exporters.
type MetricsConfig struct {
	// Textfile is the exposition file path. Empty disables the export.
	Textfile string `json:"textfile"`
	// Pushgateway is the gateway base URL. Empty disables pushing.
	Pushgateway string `json:"pushgateway"`
	Job         string `json:"job"`
}

func (c *MetricsConfig) SetDefaults() {
	if c.Pushgateway != "" && c.Job == "" {
		c.Job = "caravail"
	}
}

func (c MetricsConfig) Validate() error {
	if c.Pushgateway == "" {
		return nil
	}
	u, err := url.Parse(c.Pushgateway)
	if err != nil {
		return fmt.Errorf("pushgateway: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("pushgateway must be an http(s) URL, got %q", c.Pushgateway)
	}
	return nil
}
