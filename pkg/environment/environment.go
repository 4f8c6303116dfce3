package environment

import (
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// Production defines the prod environment
const Production = "prod"

// Staging defines the staging environment
const Staging = "staging"

// Dev defines the dev environment
const Dev = "dev"

// Environment holds all configuration the service reads from its .env file
type Environment struct {
	Environment       string `mapstructure:"APP_ENV"`
	Cors              string `mapstructure:"CORS"`
	Secret            string `mapstructure:"SECRET"`
	Port              string `mapstructure:"PORT"`
	Database          string `mapstructure:"DATABASE"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Redis             string `mapstructure:"REDIS"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	Sendinblue        string `mapstructure:"SENDINBLUE"`
	Firebase          string `mapstructure:"FIREBASE"`
	GCPProjectID      string `mapstructure:"GCP_PROJECT_ID"`
	BaseURL           string `mapstructure:"BASE_URL"`
	ReportingTimezone string `mapstructure:"REPORTING_TIMEZONE"`
}

// Global is the parsed environment the whole service reads from
var Global Environment

// Initialize reads the .env file into Global
func Initialize() {
	data, err := godotenv.Read(".env")
	if err != nil {
		panic(err)
	}

	err = mapstructure.Decode(data, &Global)
	if err != nil {
		panic(err)
	}

	if Global.ReportingTimezone == "" {
		Global.ReportingTimezone = "UTC"
	}
}
