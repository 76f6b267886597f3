// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/alvinbaena/pwdguard/internal/util"
	"github.com/alvinbaena/pwdguard/pkg/hibp"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Hibp configures the Pwned Passwords range client.
type Hibp struct {
	URL       string        `mapstructure:"API_URL" validate:"omitempty,url"`
	Timeout   time.Duration `mapstructure:"TIMEOUT" validate:"gt=0"`
	Retries   int           `mapstructure:"RETRIES" validate:"gte=0,lte=3"`
	Padding   bool          `mapstructure:"PADDING"`
	Mode      string        `mapstructure:"MODE" validate:"oneof=sha1 ntlm"`
	UserAgent string        `mapstructure:"USER_AGENT"`
}

// Config is the API server configuration, read from the environment.
type Config struct {
	Port    string `mapstructure:"PORT" validate:"required,numeric"`
	SelfTLS bool   `mapstructure:"SELF_TLS" validate:"required_without_all=TLSCert TLSKey"`
	TLSCert string `mapstructure:"TLS_CERT" validate:"required_if=SelfTLS false,required_with=TLSKey"`
	TLSKey  string `mapstructure:"TLS_KEY" validate:"required_if=SelfTLS false,required_with=TLSCert"`
	Debug   bool   `mapstructure:"DEBUG"`
	Hibp    Hibp   `mapstructure:"HIBP"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HIBP.API_URL", hibp.DefaultBaseURL)
	v.SetDefault("HIBP.TIMEOUT", hibp.DefaultTimeout)
	v.SetDefault("HIBP.RETRIES", 0)
	v.SetDefault("HIBP.MODE", hibp.ModeSHA1.String())
	v.SetDefault("HIBP.USER_AGENT", hibp.DefaultUserAgent)
}

func bindEnvs(v *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		fv := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch fv.Kind() {
		case reflect.Struct:
			bindEnvs(v, fv.Interface(), append(parts, tv)...)
		default:
			_ = v.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "required_without_all":
		return fmt.Sprintf("This field is required if fields [%s] are missing", util.ToScreamingSnakeCase(fe.Param()))
	case "required_if":
		return fmt.Sprintf("This field is required if %s", util.ToScreamingSnakeCase(fe.Param()))
	case "required_with":
		return fmt.Sprintf("This field requires the presence of %s", util.ToScreamingSnakeCase(fe.Param()))
	case "oneof":
		return fmt.Sprintf("This field must be one of [%s]", fe.Param())
	case "url":
		return "This field must be a valid URL"
	case "numeric":
		return "This field must be numeric"
	case "gt", "gte", "lte":
		return fmt.Sprintf("This field must be %s %s", fe.Tag(), fe.Param())
	}
	return fe.Error() // default error
}

// envName turns a validator namespace (Config.HIBP.TIMEOUT) into the environment variable it came from.
func envName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ReplaceAll(ns, ".", "_")
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name, ok := f.Tag.Lookup("mapstructure"); ok {
			return name
		}
		return f.Name
	})
	return validate
}

// Load reads the configuration from the environment. A .env file in the working directory, when present,
// seeds variables that are not already set.
func Load() (config Config, err error) {
	if err = godotenv.Load(); err == nil {
		log.Debug().Msg("loaded environment from .env")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	// Viper only unmarshals keys it knows about, so every field has to be bound to its env var.
	// https://github.com/spf13/viper/issues/188#issuecomment-399884438
	config = Config{}
	bindEnvs(v, config)

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("error reading configuration from environment: %w", err)
	}

	if err = newValidator().Struct(&config); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s: %s", envName(fe), msgForTag(fe)))
			}
			return config, errors.New(strings.Join(msgs, ". "))
		}
		return config, fmt.Errorf("error validating configuration from environment: %w", err)
	}

	return config, nil
}

// ClientConfig converts the configuration into the range client settings.
func (h Hibp) ClientConfig() hibp.ClientConfig {
	return hibp.ClientConfig{
		BaseURL:   h.URL,
		UserAgent: h.UserAgent,
		Timeout:   h.Timeout,
		RetryMax:  h.Retries,
		Padding:   h.Padding,
	}
}

// HashMode is the parsed MODE setting. Validation already restricted it to known values.
func (h Hibp) HashMode() hibp.Mode {
	m, _ := hibp.ParseMode(h.Mode)
	return m
}
