package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServicePort      string
	MetricsPort      string
	PostgreSQLConfig PostgreSQLConfig
	KafkaConfig      KafkaConfig
	InferenceConfig  InferenceConfig
	UploadDir        string
	TracingConfig    TracingConfig
}

type PostgreSQLConfig struct {
	DBHost     string
	DBPort     string
	DBUsername string
	DBPassword string
	DBName     string
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

type InferenceConfig struct {
	Endpoint   string
	ModelName  string
	LabelsPath string
	TimeoutMs  int
}

type TracingConfig struct {
	CollectorHost string
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: os.Getenv("SERVICE_PORT"),
		MetricsPort: os.Getenv("METRICS_PORT"),
		PostgreSQLConfig: PostgreSQLConfig{
			DBHost:     os.Getenv("DB_HOST"),
			DBPort:     os.Getenv("DB_PORT"),
			DBUsername: os.Getenv("DB_USERNAME"),
			DBPassword: os.Getenv("DB_PASSWORD"),
			DBName:     os.Getenv("DB_NAME"),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   os.Getenv("BROKER_TOPIC"),
		},
		InferenceConfig: InferenceConfig{
			Endpoint:   os.Getenv("INFERENCE_ENDPOINT"),
			ModelName:  os.Getenv("INFERENCE_MODEL_NAME"),
			LabelsPath: os.Getenv("INFERENCE_LABELS_PATH"),
		},
		UploadDir: os.Getenv("UPLOAD_DIR"),
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
	}

	if conf.UploadDir == "" {
		conf.UploadDir = "uploads"
	}

	brokerPartition, err := strconv.Atoi(os.Getenv("BROKER_PARTITION"))
	if err == nil {
		conf.KafkaConfig.BrokerPartition = brokerPartition
	}

	timeoutMs, err := strconv.Atoi(os.Getenv("INFERENCE_TIMEOUT_MS"))
	if err != nil {
		timeoutMs = 10000
	}
	conf.InferenceConfig.TimeoutMs = timeoutMs

	return &conf
}
