package core

import "fmt"

// Diagnostics carries warnings and errors produced by a normalization stage.
type Diagnostics struct {
	Warnings []string
	Errors   []string
}

func (d *Diagnostics) Warnf(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

func (d *Diagnostics) Errorf(format string, args ...any) {
	d.Errors = append(d.Errors, fmt.Sprintf(format, args...))
}

// Extend appends other's diagnostics after d's.
func (d *Diagnostics) Extend(other Diagnostics) {
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Errors = append(d.Errors, other.Errors...)
}

func (d Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// ApplyTo appends the diagnostics to cfg.
func (d Diagnostics) ApplyTo(cfg *NormalizedConfig) {
	cfg.Warnings = append(cfg.Warnings, d.Warnings...)
	cfg.Errors = append(cfg.Errors, d.Errors...)
}
