package core

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Database authentication modes.
const (
	AuthIntegrated = "integrated" // trusted connection: the process's Windows/Kerberos identity
	AuthSQL        = "sql"
)

type (
	Config struct {
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		RollbarToken string

		Database DatabaseConfig
		Progress ProgressConfig
	}

	DatabaseConfig struct {
		Host           string        `json:"host" validate:"required,hostname_rfc1123"`
		Port           int           `json:"port" validate:"gte=0,lte=65535"`
		Instance       string        `json:"instance" validate:"omitempty,sqlname"`
		Name           string        `json:"name" validate:"required,sqlname"`
		Auth           string        `json:"auth" validate:"required,oneof=integrated sql"`
		Authenticator  string        `json:"authenticator" validate:"omitempty,oneof=krb5 winsspi ntlm"`
		User           string        `json:"user" validate:"required_if=Auth sql"`
		Password       string        `json:"-"`
		Krb5ConfigFile string        `json:"krb5_config_file" validate:"omitempty,file"`
		Krb5CredCache  string        `json:"krb5_cred_cache"`
		Encrypt        string        `json:"encrypt" validate:"omitempty,oneof=true false disable strict"`
		AppName        string        `json:"app_name"`
		ConnectTimeout time.Duration `json:"connect_timeout" validate:"gte=0"`
	}

	ProgressConfig struct {
		// ZeroInclusive classifies a credit count of exactly 0 as first year instead of undefined.
		ZeroInclusive bool
	}
)

// Address returns host[:port]. A zero port leaves the resolution to the SQL Browser service.
func (c DatabaseConfig) Address() string {
	if c.Port > 0 {
		return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	return c.Host
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", false)
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("sad.host", "sbd04")
	v.SetDefault("sad.port", 0)
	v.SetDefault("sad.instance", "")
	v.SetDefault("sad.database", "sad")
	v.SetDefault("sad.auth", AuthIntegrated)
	v.SetDefault("sad.authenticator", "")
	v.SetDefault("sad.user", "")
	v.SetDefault("sad.password", "")
	v.SetDefault("sad.krb5ConfigFile", "")
	v.SetDefault("sad.krb5CredCache", "")
	v.SetDefault("sad.encrypt", "")
	v.SetDefault("sad.appName", "sad")
	v.SetDefault("sad.connectTimeout", 30*time.Second)

	v.SetDefault("progress.zeroInclusive", true)
}

// NewConfig loads the configuration of the current environment.
//
// ENV selects the environment (DEV when unset, TEST, QA, PROD) and the prefix of the environment
// variables read, eg. PROD_SAD_HOST overrides sad.host. config/.env.<env> is loaded first if it exists.
func NewConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		RollbarToken: v.GetString("rollbarToken"),
		Database: DatabaseConfig{
			Host:           CleanString(v.GetString("sad.host")),
			Port:           v.GetInt("sad.port"),
			Instance:       CleanString(v.GetString("sad.instance")),
			Name:           CleanString(v.GetString("sad.database")),
			Auth:           CleanString(v.GetString("sad.auth"), true /* lower */),
			Authenticator:  CleanString(v.GetString("sad.authenticator"), true /* lower */),
			User:           CleanString(v.GetString("sad.user")),
			Password:       v.GetString("sad.password"),
			Krb5ConfigFile: CleanString(v.GetString("sad.krb5ConfigFile")),
			Krb5CredCache:  CleanString(v.GetString("sad.krb5CredCache")),
			Encrypt:        CleanString(v.GetString("sad.encrypt"), true /* lower */),
			AppName:        CleanString(v.GetString("sad.appName")),
			ConnectTimeout: v.GetDuration("sad.connectTimeout"),
		},
		Progress: ProgressConfig{
			ZeroInclusive: v.GetBool("progress.zeroInclusive"),
		},
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate checks the database settings.
func (c *Config) Validate() error {
	if err := Validate.Struct(c.Database); err != nil {
		return NewValidationErrorFrom(err)
	}
	return nil
}
