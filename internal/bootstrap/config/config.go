package config

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vtjnash/whedon-api/internal/bootstrap/logging"
	"github.com/vtjnash/whedon-api/internal/errs"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Server   ServerConfig        `mapstructure:"server"`
	NATS     NATSConfig          `mapstructure:"nats"`
	GitHub   GitHubConfig        `mapstructure:"github"`
	Journals map[string]*Journal `mapstructure:"journals"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`

	// BotHandle is the login commands are addressed to ("@whedon ...").
	BotHandle string `mapstructure:"bot_handle"`

	// SettleDelay is slept before processing a dispatch request so the
	// platform's issue-thread rendering catches up. Zeroed under test.
	SettleDelay time.Duration `mapstructure:"settle_delay"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type GitHubConfig struct {
	Token string `mapstructure:"token"`
}

// Journal is one recognized repository's configuration. Editors are
// refreshed from the team roster once at startup; everything else comes
// straight from the settings file. The JSON form is what workers receive
// inside job payloads.
type Journal struct {
	Alias           string   `mapstructure:"alias" json:"alias"`
	EditorTeam      string   `mapstructure:"editor_team" json:"editor_team"`
	Editors         []string `mapstructure:"editors" json:"editors"`
	EICs            []string `mapstructure:"eics" json:"eics"`
	SiteHost        string   `mapstructure:"site_host" json:"site_host"`
	SiteAPIKey      string   `mapstructure:"site_api_key" json:"site_api_key"`
	DOIPrefix       string   `mapstructure:"doi_prefix" json:"doi_prefix"`
	DonateURL       string   `mapstructure:"donate_url" json:"donate_url"`
	ReviewersSignup string   `mapstructure:"reviewers_signup" json:"reviewers_signup"`
	ReviewersList   string   `mapstructure:"reviewers" json:"reviewers"`
}

// IsEditor reports roster membership. Checks are exact-case on purpose;
// see the identity-casing note in DESIGN.md.
func (j *Journal) IsEditor(login string) bool {
	return slices.Contains(j.Editors, login)
}

func (j *Journal) IsEIC(login string) bool {
	return slices.Contains(j.EICs, login)
}

// Serialized is the JSON form handed to workers in job payloads.
func (j *Journal) Serialized() (json.RawMessage, error) {
	data, err := json.Marshal(j)
	if err != nil {
		return nil, errs.Wrap(err, "serialize journal config")
	}
	return data, nil
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WHEDON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The platform token usually arrives through the environment.
	_ = v.BindEnv("github.token", "WHEDON_GITHUB_TOKEN", "GH_TOKEN")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.Int("journals", len(cfg.Journals)),
	)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "whedon")
	v.SetDefault("app.env", "production")
	v.SetDefault("app.bot_handle", "whedon")
	v.SetDefault("app.settle_delay", "2s")
	v.SetDefault("server.addr", ":4567")
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
}
