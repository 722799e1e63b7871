// Package config loads application settings from defaults, an optional
// configuration file and FLASHGEN_* environment variables using viper, and
// validates them with go-playground/validator struct tags.
package config
