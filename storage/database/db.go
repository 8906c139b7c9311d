package database

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb"
	_ "github.com/microsoft/go-mssqldb/integratedauth/krb5"

	"github.com/fen-analytics/sad/core"
)

// DriverName is the database/sql driver of the student records database.
const DriverName = "sqlserver"

var openFunc = sqlx.Open // mockable

// DSN builds the sqlserver:// connection string of conf.
// With integrated auth no credentials are sent: the driver authenticates as the running process
// (SSPI on Windows, Kerberos elsewhere).
func DSN(conf core.DatabaseConfig) string {
	q := make(url.Values)
	q.Set("database", conf.Name)
	if conf.AppName != "" {
		q.Set("app name", conf.AppName)
	}
	if conf.Encrypt != "" {
		q.Set("encrypt", conf.Encrypt)
	}
	if conf.ConnectTimeout > 0 {
		q.Set("connection timeout", strconv.Itoa(int(conf.ConnectTimeout.Seconds())))
	}

	u := url.URL{
		Scheme: "sqlserver",
		Host:   conf.Address(),
		Path:   conf.Instance,
	}
	switch conf.Auth {
	case core.AuthSQL:
		u.User = url.UserPassword(conf.User, conf.Password)
	default:
		if conf.Authenticator != "" {
			q.Set("authenticator", conf.Authenticator)
		}
		if conf.Krb5ConfigFile != "" {
			q.Set("krb5-configfile", conf.Krb5ConfigFile)
		}
		if conf.Krb5CredCache != "" {
			q.Set("krb5-credcachefile", conf.Krb5CredCache)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Open connects to the student records database and checks the connection once.
// Failures are reported as core.DataSourceError; there are no retries.
func Open(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	db, err := openFunc(DriverName, DSN(conf.Database))
	if err != nil {
		return nil, core.NewDataSourceError("open", err)
	}

	if conf.Database.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, conf.Database.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, core.NewDataSourceError("connect to "+conf.Database.Address()+"/"+conf.Database.Name, err)
	}
	return db, nil
}
