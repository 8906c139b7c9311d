package core

import (
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("ENV", "QA")

	conf, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() unexpected error = %v", err)
	}
	if conf.Env != "QA" {
		t.Errorf("Env = %q, want QA", conf.Env)
	}
	db := conf.Database
	if db.Host != "sbd04" || db.Name != "sad" || db.Auth != AuthIntegrated {
		t.Errorf("Database = %+v, want the sbd04/sad integrated defaults", db)
	}
	if db.ConnectTimeout != 30*time.Second {
		t.Errorf("ConnectTimeout = %v, want 30s", db.ConnectTimeout)
	}
	if !conf.Progress.ZeroInclusive {
		t.Error("Progress.ZeroInclusive = false, want true")
	}
}

func TestNewConfig_env(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("PROD_SAD_HOST", " db01.fen.local ")
	t.Setenv("PROD_SAD_PORT", "1433")
	t.Setenv("PROD_SAD_AUTH", "SQL")
	t.Setenv("PROD_SAD_USER", "lector")
	t.Setenv("PROD_SAD_PASSWORD", "secret")
	t.Setenv("PROD_PROGRESS_ZEROINCLUSIVE", "false")

	conf, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() unexpected error = %v", err)
	}
	db := conf.Database
	if db.Host != "db01.fen.local" || db.Port != 1433 || db.Auth != AuthSQL || db.User != "lector" || db.Password != "secret" {
		t.Errorf("Database = %+v, want the PROD_ overrides", db)
	}
	if got := db.Address(); got != "db01.fen.local:1433" {
		t.Errorf("Address() = %q, want db01.fen.local:1433", got)
	}
	if conf.Progress.ZeroInclusive {
		t.Error("Progress.ZeroInclusive = true, want false")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := DatabaseConfig{Host: "sbd04", Name: "sad", Auth: AuthIntegrated}

	tests := []struct {
		name       string
		modify     func(c *DatabaseConfig)
		wantFields []string
	}{
		{name: "valid", modify: func(c *DatabaseConfig) {}},
		{name: "sql auth with user", modify: func(c *DatabaseConfig) { c.Auth, c.User = AuthSQL, "lector" }},
		{name: "no host", modify: func(c *DatabaseConfig) { c.Host = "" }, wantFields: []string{"host"}},
		{name: "unknown auth", modify: func(c *DatabaseConfig) { c.Auth = "kerberos" }, wantFields: []string{"auth"}},
		{name: "sql auth without user", modify: func(c *DatabaseConfig) { c.Auth = AuthSQL }, wantFields: []string{"user"}},
		{name: "bad database name", modify: func(c *DatabaseConfig) { c.Name = "sad; DROP" }, wantFields: []string{"name"}},
		{name: "bad port", modify: func(c *DatabaseConfig) { c.Port = 70000 }, wantFields: []string{"port"}},
		{name: "bad encrypt", modify: func(c *DatabaseConfig) { c.Encrypt = "maybe" }, wantFields: []string{"encrypt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := valid
			tt.modify(&db)
			err := (&Config{Database: db}).Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want a ValidationError", err)
			}
			if len(verr.Fields) != len(tt.wantFields) {
				t.Fatalf("Validate() fields = %+v, want %v", verr.Fields, tt.wantFields)
			}
			for i, fld := range verr.Fields {
				if fld.Field != tt.wantFields[i] || fld.Error == "" {
					t.Errorf("Validate() field %d = %+v, want %q with a message", i, fld, tt.wantFields[i])
				}
			}
		})
	}
}

func TestCleanString(t *testing.T) {
	if got := CleanString("  IC \t"); got != "IC" {
		t.Errorf("CleanString() = %q, want IC", got)
	}
	if got := CleanString(" SQL ", true); got != "sql" {
		t.Errorf("CleanString(lower) = %q, want sql", got)
	}
}
