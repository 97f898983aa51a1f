// Package config loads service configuration with Viper.
//
// A YAML file supplies the base values. Environment variables carrying the
// service prefix override them, and a .env file may seed those variables:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Client client.Config `yaml:"client" mapstructure:"client"`
//	}
//
//	var cfg Config
//	err := config.LoadConfig("isoclient", &cfg)
package config
