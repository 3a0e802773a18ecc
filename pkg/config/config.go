package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Series configures one indicator: where its realized series lives, how to
// read it, and where the panel and merged outputs go.
type Series struct {
	Series         string   `mapstructure:"series" validate:"required"`
	Panel          string   `mapstructure:"panel" validate:"required"`
	Merged         string   `mapstructure:"merged" validate:"required"`
	PeriodColumn   string   `mapstructure:"period_column" validate:"required"`
	ValueColumn    string   `mapstructure:"value_column" validate:"required"`
	ObservedColumn string   `mapstructure:"observed_column" validate:"required"`
	Delimiter      string   `mapstructure:"delimiter" validate:"required,len=1"`
	TitleLine      bool     `mapstructure:"title_line"`
	Markers        []string `mapstructure:"markers"`
}

// Comma returns the field delimiter of the realized series.
func (s Series) Comma() rune {
	return []rune(s.Delimiter)[0]
}

type Config struct {
	ForecastsDir string `mapstructure:"forecasts_dir" validate:"required"`
	// OutputDir receives the panel files; defaults to ForecastsDir.
	OutputDir    string `mapstructure:"output_dir"`
	PanelSize    int    `mapstructure:"panel_size" validate:"min=1"`
	Inflation    Series `mapstructure:"inflation"`
	GDP          Series `mapstructure:"gdp"`
	Unemployment Series `mapstructure:"unemployment"`
}

// PanelPath returns where the panel of s is written and read back from.
func (c *Config) PanelPath(s Series) string {
	if filepath.IsAbs(s.Panel) {
		return s.Panel
	}
	return filepath.Join(c.OutputDir, s.Panel)
}

func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// flag name -> config key
var flagKeys = map[string]string{
	"forecasts-dir":       "forecasts_dir",
	"output-dir":          "output_dir",
	"panel-size":          "panel_size",
	"inflation-series":    "inflation.series",
	"gdp-series":          "gdp.series",
	"unemployment-series": "unemployment.series",
	"inflation-merged":    "inflation.merged",
	"gdp-merged":          "gdp.merged",
	"unemployment-merged": "unemployment.merged",
}

// RegisterFlags adds the path flags understood by Build.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("forecasts-dir", "", "Directory of YYYYQ#.csv survey files")
	flags.String("output-dir", "", "Directory for panel outputs (default: forecasts dir)")
	flags.Int("panel-size", 0, "Number of forecaster identifiers in the panel")
	flags.String("inflation-series", "", "Realized HICP inflation series")
	flags.String("gdp-series", "", "Realized GDP growth series")
	flags.String("unemployment-series", "", "Realized unemployment rate series")
	flags.String("inflation-merged", "", "Merged inflation output")
	flags.String("gdp-merged", "", "Merged GDP output")
	flags.String("unemployment-merged", "", "Merged unemployment output")
}

// Build resolves the configuration from defaults, an optional config file,
// a .env file, SPF_* environment variables and changed flags, in increasing
// order of precedence.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// .env is optional
	_ = gotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SPF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("spfmerge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = cfg.ForecastsDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("forecasts_dir", "SPF_individual_forecasts")
	v.SetDefault("output_dir", "")
	v.SetDefault("panel_size", 150)

	v.SetDefault("inflation.series", "HICP_Inflation_Monthly.csv")
	v.SetDefault("inflation.panel", "Inflation_SPF.csv")
	v.SetDefault("inflation.merged", "SPF_ECB_Inflation_MERGED.csv")
	v.SetDefault("inflation.period_column", "TIME PERIOD")
	v.SetDefault("inflation.value_column", "HICP - Overall index (ICP.M.U2.N.000000.4.ANR)")
	v.SetDefault("inflation.observed_column", "Observed_HICP_Inflation")
	v.SetDefault("inflation.delimiter", ";")
	v.SetDefault("inflation.title_line", true)
	v.SetDefault("inflation.markers", []string{"Dec", "Mar", "Jun", "Sep"})

	v.SetDefault("gdp.series", "GDP_EuroStat.csv")
	v.SetDefault("gdp.panel", "GDP_SPF.csv")
	v.SetDefault("gdp.merged", "SPF_ECB_GDP_MERGED.csv")
	v.SetDefault("gdp.period_column", "TIME PERIOD")
	v.SetDefault("gdp.value_column", "Gross domestic product at market prices (MNA.Q.Y.I9.W2.S1.S1.B.B1GQ._Z._Z._Z.EUR.LR.GY)")
	v.SetDefault("gdp.observed_column", "Observed_GDP_Growth")
	v.SetDefault("gdp.delimiter", ";")
	v.SetDefault("gdp.title_line", false)
	v.SetDefault("gdp.markers", []string{})

	v.SetDefault("unemployment.series", "ECB_Unemployment.csv")
	v.SetDefault("unemployment.panel", "UNEMPLOYMENT_SPF.csv")
	v.SetDefault("unemployment.merged", "SPF_ECB_Unemployment_MERGED.csv")
	v.SetDefault("unemployment.period_column", "TIME PERIOD")
	v.SetDefault("unemployment.value_column", "(LFSI.M.I9.S.UNEHRT.TOTAL0.15_74.T)")
	v.SetDefault("unemployment.observed_column", "Observed_Unemployment_Rate")
	v.SetDefault("unemployment.delimiter", ",")
	v.SetDefault("unemployment.title_line", false)
	v.SetDefault("unemployment.markers", []string{"Nov", "Feb", "May", "Aug"})
}

// Default returns the built-in configuration without reading files,
// environment or flags.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	cfg.OutputDir = cfg.ForecastsDir
	return &cfg
}
