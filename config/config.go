package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	MongoURI      string
	MongoDatabase string
	Port          string
	JWTSecret     string

	GeminiAPIKey  string
	GeminiModel   string
	LLMTimeout    time.Duration
	LLMRepairJSON bool

	AWSRegion     string
	AWSBucketName string

	SendGridAPIKey string
	ReportEmail    string

	ChromeDriverPath string
	BrowserFallback  bool

	RetailersFile string
	Retailers     map[string]Retailer
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	MongoURI = os.Getenv("MONGO_URI")
	MongoDatabase = getEnv("MONGO_DATABASE", "tasteforge")

	Port = getEnv("PORT", "8080")
	JWTSecret = os.Getenv("JWT_SECRET")

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	GeminiModel = getEnv("GEMINI_MODEL", "gemini-2.0-flash")
	LLMTimeout = getDuration("LLM_TIMEOUT", 60*time.Second)
	LLMRepairJSON = getBool("LLM_REPAIR_JSON", false)

	AWSRegion = getEnv("AWS_REGION", "eu-north-1")
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")

	SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	ReportEmail = os.Getenv("REPORT_EMAIL")

	ChromeDriverPath = getEnv("CHROMEDRIVER_PATH", "/usr/local/bin/chromedriver")
	BrowserFallback = getBool("BROWSER_FALLBACK", true)

	Retailers = DefaultRetailers()
	RetailersFile = os.Getenv("RETAILERS_FILE")
	if RetailersFile != "" {
		retailers, err := LoadRetailers(RetailersFile)
		if err != nil {
			log.Fatalf("Failed to load retailers file %s: %v", RetailersFile, err)
		}
		for name, r := range retailers {
			Retailers[name] = r
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid boolean for %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return d
}
