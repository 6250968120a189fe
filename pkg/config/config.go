package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Drivers de almacenamiento admitidos en STORE_DRIVER.
const (
	DriverCSV      = "csv"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Store   StoreConfig
	DB      DBConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Pricing PricingConfig
	JWT     JWTConfig
	Auth    AuthConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig dónde viven los recursos de inventario y ventas.
type StoreConfig struct {
	Driver            string
	DataDir           string // csv: directorio de los archivos
	InventoryResource string
	SalesResource     string
	SQLDSN            string // sqlite: ruta del archivo; mysql: user:pass@tcp(host:port)/db
	ReversalPolicy    string // create | fail | ignore
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// RedisConfig conexión del almacén redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MongoConfig conexión del almacén mongo.
type MongoConfig struct {
	URI      string
	Database string
}

// PricingConfig valores iniciales de impuesto y descuento de la sesión.
type PricingConfig struct {
	TaxPercentage      decimal.Decimal
	DiscountPercentage decimal.Decimal
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// AuthConfig acceso del operador. Sin hash de PIN la API queda abierta.
type AuthConfig struct {
	OperatorPINHash string
}

// Enabled indica si la API exige token.
func (c AuthConfig) Enabled() bool {
	return c.OperatorPINHash != ""
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde .env / config.env).
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // opcional

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // opcional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	tax, err := getDecimal(v, "TAX_PERCENTAGE", decimal.NewFromInt(12))
	if err != nil {
		return nil, err
	}
	discount, err := getDecimal(v, "DISCOUNT_PERCENTAGE", decimal.Zero)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "caja-registradora"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Store: StoreConfig{
			Driver:            strings.ToLower(getString(v, "STORE_DRIVER", DriverCSV)),
			DataDir:           getString(v, "DATA_DIR", "."),
			InventoryResource: getString(v, "INVENTORY_RESOURCE", "inventory.csv"),
			SalesResource:     getString(v, "SALES_RESOURCE", "sales.csv"),
			SQLDSN:            getString(v, "SQL_DSN", "caja.db"),
			ReversalPolicy:    getString(v, "REVERSAL_POLICY", "create"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "caja"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Mongo: MongoConfig{
			URI:      getString(v, "MONGO_URI", "mongodb://localhost:27017"),
			Database: getString(v, "MONGO_DATABASE", "caja"),
		},
		Pricing: PricingConfig{
			TaxPercentage:      tax,
			DiscountPercentage: discount,
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "caja-registradora"),
		},
		Auth: AuthConfig{
			OperatorPINHash: getString(v, "OPERATOR_PIN_HASH", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverCSV, DriverMemory, DriverPostgres, DriverSQLite, DriverMySQL, DriverRedis, DriverMongo:
	default:
		return fmt.Errorf("config: STORE_DRIVER %q no soportado", c.Store.Driver)
	}
	if c.Pricing.TaxPercentage.Equal(decimal.NewFromInt(-100)) {
		return fmt.Errorf("config: TAX_PERCENTAGE no puede ser -100")
	}
	if c.Auth.Enabled() && c.JWT.Secret == "" {
		return fmt.Errorf("config: OPERATOR_PIN_HASH requiere JWT_SECRET")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getDecimal(v *viper.Viper, key string, def decimal.Decimal) (decimal.Decimal, error) {
	if !v.IsSet(key) {
		return def, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: %s inválido: %w", key, err)
	}
	return d, nil
}
