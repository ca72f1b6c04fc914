package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// NotifyConfig is everything the admin notification dispatcher needs.
// Built once here and passed into the service constructor so business
// logic never reads the environment.
type NotifyConfig struct {
	Enabled      bool
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailFromName string
}

type SeedConfig struct {
	RunSeed       bool
	AdminEmail    string
	AdminPassword string
	AnonEmail     string
	AnonPassword  string
}

type Config struct {
	ServerPort    string
	DatabaseDSN   string
	AccessSecret  string
	KafkaBroker   string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string
	CloudinaryURL string
	Notify        NotifyConfig
	Seed          SeedConfig
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Warnf("env file not found or could not be loaded: %v", err)
		}
	}

	return Config{
		ServerPort:    os.Getenv("SERVER_PORT"),
		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		AccessSecret:  os.Getenv("ACCESS_SECRET"),
		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    os.Getenv("KAFKA_TOPIC"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		Notify: NotifyConfig{
			Enabled:      envBool("ENABLE_EMAIL_NOTIFICATIONS"),
			SMTPHost:     os.Getenv("SMTP_HOST"),
			SMTPPort:     os.Getenv("SMTP_PORT"),
			SMTPUser:     os.Getenv("SMTP_USER"),
			SMTPPassword: os.Getenv("SMTP_PASSWORD"),
			MailFrom:     os.Getenv("MAIL_FROM"),
			MailFromName: os.Getenv("MAIL_FROM_NAME"),
		},
		Seed: SeedConfig{
			RunSeed:       envBool("RUN_SEED"),
			AdminEmail:    os.Getenv("ADMIN_USER_EMAIL"),
			AdminPassword: os.Getenv("DEFAULT_ADMIN_PASSWORD"),
			AnonEmail:     os.Getenv("ANON_EMAIL"),
			AnonPassword:  os.Getenv("ANON_PASSWORD"),
		},
	}
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return false
	}
	return v
}
