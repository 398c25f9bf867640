package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viperFromTOML(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))
	return v
}

func TestParseBackendMode(t *testing.T) {
	tests := []struct {
		in      string
		want    BackendMode
		wantErr bool
	}{
		{in: "local", want: BackendLocal},
		{in: "remote", want: BackendRemote},
		{in: " Remote ", want: BackendRemote},
		{in: "", wantErr: true},
		{in: "SQL", wantErr: true},
		{in: "sap", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBackendMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viperFromTOML(t, `
[backend]
mode = "local"
`))
	require.NoError(t, err)

	assert.Equal(t, BackendLocal, cfg.Backend.Mode)
	assert.Equal(t, "distributor-backend", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 30*time.Second, cfg.SAP.Timeout)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "wwwroot/uploads", cfg.Storage.Root)
	assert.Equal(t, int64(32<<20), cfg.HTTP.MaxBodySize)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
}

func TestFromViper_RejectsUnknownMode(t *testing.T) {
	_, err := FromViper(viperFromTOML(t, `
[backend]
mode = "hybrid"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend.mode")
}

func TestFromViper_MissingModeIsAnError(t *testing.T) {
	_, err := FromViper(viper.New())
	assert.Error(t, err)
}

func TestFromViper_RemoteRequiresSAP(t *testing.T) {
	_, err := FromViper(viperFromTOML(t, `
[backend]
mode = "remote"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sap.base_url")

	cfg, err := FromViper(viperFromTOML(t, `
[backend]
mode = "remote"

[sap]
base_url = "https://sap.example.com:50000/b1s/v1/"
company_db = "SBODEMO"
username = "manager"
password = "secret"
page_size = 50
`))
	require.NoError(t, err)
	assert.Equal(t, "https://sap.example.com:50000/b1s/v1", cfg.SAP.BaseURL)
	assert.Equal(t, 50, cfg.SAP.PageSize)
}

func TestFromViper_EnvOverride(t *testing.T) {
	t.Setenv("DISTRIBUTOR_BACKEND_MODE", "remote")
	t.Setenv("DISTRIBUTOR_SAP_BASE_URL", "https://sap.local/b1s/v1")
	t.Setenv("DISTRIBUTOR_SAP_COMPANY_DB", "SBODEMO")
	t.Setenv("DISTRIBUTOR_SAP_USERNAME", "manager")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, BackendRemote, cfg.Backend.Mode)
	assert.Equal(t, "SBODEMO", cfg.SAP.CompanyDB)
}

func TestFromViper_StorageValidation(t *testing.T) {
	_, err := FromViper(viperFromTOML(t, `
[backend]
mode = "local"

[storage]
type = "s3"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.s3.bucket")

	_, err = FromViper(viperFromTOML(t, `
[backend]
mode = "local"

[database]
driver = "mysql"
`))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "distributor", SSLMode: "disable"}
	dsn := d.DSN()
	assert.True(t, strings.HasPrefix(dsn, "postgres://app:p%40ss%2Fword@db:5432/distributor"))
	assert.Contains(t, dsn, "sslmode=disable")
}
