package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Cache struct {
		ProviderTTL     time.Duration `mapstructure:"providerTTL"`
		LocationTTL     time.Duration `mapstructure:"locationTTL"`
		CleanupInterval time.Duration `mapstructure:"cleanupInterval"`
	} `mapstructure:"cache"`
	Dataset struct {
		AirportCodes string `mapstructure:"airportCodes"`
	} `mapstructure:"dataset"`
	Providers struct {
		Amadeus struct {
			BaseURL string `mapstructure:"baseURL"`
		} `mapstructure:"amadeus"`
		LiteAPI struct {
			BaseURL string `mapstructure:"baseURL"`
		} `mapstructure:"liteapi"`
		OpenWeather struct {
			BaseURL string `mapstructure:"baseURL"`
		} `mapstructure:"openweather"`
		Geoapify struct {
			BaseURL string `mapstructure:"baseURL"`
		} `mapstructure:"geoapify"`
		ExchangeRate struct {
			BaseURL string `mapstructure:"baseURL"`
		} `mapstructure:"exchangerate"`
	} `mapstructure:"providers"`
	Planner struct {
		FlightResults   int    `mapstructure:"flightResults"`
		HotelResults    int    `mapstructure:"hotelResults"`
		RateSampleSize  int    `mapstructure:"rateSampleSize"`
		AttractionLimit int    `mapstructure:"attractionLimit"`
		SearchRadiusM   int    `mapstructure:"searchRadiusM"`
		Currency        string `mapstructure:"currency"`
	} `mapstructure:"planner"`
}

// Credentials holds every provider secret, read once at startup from the
// environment (godotenv loads .env first) and injected into constructors.
type Credentials struct {
	AmadeusClientID     string
	AmadeusClientSecret string
	LiteAPIKey          string
	OpenWeatherAPIKey   string
	GeoapifyAPIKey      string
	ExchangeRateAPIKey  string
	GeminiAPIKey        string
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}

// LoadCredentials reads provider secrets from the environment. Missing
// secrets are not fatal here; each adapter reports its own ErrConfig when it
// is actually used without one.
func LoadCredentials() Credentials {
	return Credentials{
		AmadeusClientID:     os.Getenv("AMADEUS_CLIENT_ID"),
		AmadeusClientSecret: os.Getenv("AMADEUS_CLIENT_SECRET"),
		LiteAPIKey:          os.Getenv("LITEAPI_KEY"),
		OpenWeatherAPIKey:   os.Getenv("OPENWEATHER_API_KEY"),
		GeoapifyAPIKey:      os.Getenv("GEOAPIFY_API_KEY"),
		ExchangeRateAPIKey:  os.Getenv("CURRENCY_API_KEY"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
	}
}
