package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaults(t *testing.T) {
	cfg, err := Build("", nil)
	require.NoError(t, err)

	assert.Equal(t, "SPF_individual_forecasts", cfg.ForecastsDir)
	assert.Equal(t, cfg.ForecastsDir, cfg.OutputDir)
	assert.Equal(t, 150, cfg.PanelSize)
	assert.Equal(t, ';', cfg.Inflation.Comma())
	assert.True(t, cfg.Inflation.TitleLine)
	assert.Equal(t, []string{"Dec", "Mar", "Jun", "Sep"}, cfg.Inflation.Markers)
	assert.Empty(t, cfg.GDP.Markers)
	assert.False(t, cfg.GDP.TitleLine)
	assert.Equal(t, ',', cfg.Unemployment.Comma())
	assert.Equal(t, "Observed_Unemployment_Rate", cfg.Unemployment.ObservedColumn)
	assert.Equal(t, filepath.Join("SPF_individual_forecasts", "GDP_SPF.csv"), cfg.PanelPath(cfg.GDP))
}

func TestBuildPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "spfmerge.yaml")
	content := `forecasts_dir: /data/spf
panel_size: 120
gdp:
  series: /data/gdp.csv
  value_column: GDP growth
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0644))

	t.Setenv("SPF_PANEL_SIZE", "130")
	t.Setenv("SPF_UNEMPLOYMENT_SERIES", "/env/unemployment.csv")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--output-dir", "/out", "--gdp-merged", "/out/gdp.csv"}))

	cfg, err := Build(cfgFile, flags)
	require.NoError(t, err)

	assert.Equal(t, "/data/spf", cfg.ForecastsDir)
	assert.Equal(t, "/out", cfg.OutputDir)
	assert.Equal(t, 130, cfg.PanelSize)
	assert.Equal(t, "/data/gdp.csv", cfg.GDP.Series)
	assert.Equal(t, "GDP growth", cfg.GDP.ValueColumn)
	assert.Equal(t, "/out/gdp.csv", cfg.GDP.Merged)
	assert.Equal(t, "/env/unemployment.csv", cfg.Unemployment.Series)
	assert.Equal(t, "/out/Inflation_SPF.csv", cfg.PanelPath(cfg.Inflation))
}

func TestBuildMissingConfigFile(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.PanelSize = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Inflation.Series = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.GDP.Delimiter = ";;"
	assert.Error(t, cfg.Validate())
}
