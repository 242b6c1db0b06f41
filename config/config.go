package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug             bool   `envconfig:"debug"`
	Port              int    `envconfig:"port" default:"8080"`
	Env               string `envconfig:"env"`
	PostgresHost      string `envconfig:"postgres_host"`
	PostgresUser      string `envconfig:"postgres_user"`
	PostgresDB        string `envconfig:"postgres_db"`
	PostgresPort      int    `envconfig:"postgres_port"`
	PostgresPassword  string `envconfig:"postgres_password"`
	JWTSecret         string `envconfig:"jwt_secret"`
	DataDir           string `envconfig:"data_dir" default:"data"`
	PublicDir         string `envconfig:"public_dir" default:"public"`
	OpenAIAPIKey      string `envconfig:"openai_api_key"`
	OpenAIModel       string `envconfig:"openai_model" default:"gpt-4o-mini"`
	ScraperServiceURL string `envconfig:"scraper_service_url"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("eparana", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
