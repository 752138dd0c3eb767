package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/claude/notionfit/internal/scoring"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Notion    NotionConfig    `yaml:"notion"`
	Auth      AuthConfig      `yaml:"auth"`
	Goals     GoalsConfig     `yaml:"goals"`
	State     StateConfig     `yaml:"state"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type NotionConfig struct {
	Token             string `yaml:"token"`
	HealthDatabaseID  string `yaml:"health_database_id"`
	WorkoutDatabaseID string `yaml:"workout_database_id"`
	SleepDatabaseID   string `yaml:"sleep_database_id"`
	HabitDatabaseID   string `yaml:"habit_database_id"`
}

type AuthConfig struct {
	SecretToken string   `yaml:"secret_token"`
	IPWhitelist []string `yaml:"ip_whitelist"`
}

type GoalsConfig struct {
	Steps                   float64 `yaml:"steps"`
	ExerciseMinutes         float64 `yaml:"exercise_minutes"`
	ActiveEnergyKcal        float64 `yaml:"active_energy_kcal"`
	LenientActiveEnergyKcal float64 `yaml:"lenient_active_energy_kcal"`
	WorkoutCount            int     `yaml:"workout_count"`
}

type StateConfig struct {
	Dir string `yaml:"dir"`
}

// StrictTargets are the goals applied when workout sessions drive the
// evaluation: every metric at 100%, including the workout count.
func (g GoalsConfig) StrictTargets() scoring.Targets {
	return scoring.Targets{
		Steps:            g.Steps,
		ExerciseMinutes:  g.ExerciseMinutes,
		ActiveEnergyKcal: g.ActiveEnergyKcal,
		WorkoutCount:     g.WorkoutCount,
	}
}

// LenientTargets are the goals applied to combined daily exports, with the
// lower energy target.
func (g GoalsConfig) LenientTargets() scoring.Targets {
	return scoring.Targets{
		Steps:            g.Steps,
		ExerciseMinutes:  g.ExerciseMinutes,
		ActiveEnergyKcal: g.LenientActiveEnergyKcal,
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix NOTIONFIT_ and underscore-separated paths:
//
//	NOTIONFIT_SERVER_HOST, NOTIONFIT_SERVER_PORT,
//	NOTIONFIT_TAILSCALE_ENABLED, NOTIONFIT_TAILSCALE_HOSTNAME,
//	NOTIONFIT_NOTION_TOKEN, NOTIONFIT_NOTION_HEALTH_DB,
//	NOTIONFIT_NOTION_WORKOUT_DB, NOTIONFIT_NOTION_SLEEP_DB,
//	NOTIONFIT_NOTION_HABIT_DB, NOTIONFIT_AUTH_SECRET_TOKEN,
//	NOTIONFIT_AUTH_IP_WHITELIST (comma-separated), NOTIONFIT_STATE_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NOTIONFIT_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("NOTIONFIT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("NOTIONFIT_TAILSCALE_ENABLED"); v != "" {
		cfg.Tailscale.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("NOTIONFIT_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("NOTIONFIT_TAILSCALE_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
	if v := os.Getenv("NOTIONFIT_NOTION_TOKEN"); v != "" {
		cfg.Notion.Token = v
	}
	if v := os.Getenv("NOTIONFIT_NOTION_HEALTH_DB"); v != "" {
		cfg.Notion.HealthDatabaseID = v
	}
	if v := os.Getenv("NOTIONFIT_NOTION_WORKOUT_DB"); v != "" {
		cfg.Notion.WorkoutDatabaseID = v
	}
	if v := os.Getenv("NOTIONFIT_NOTION_SLEEP_DB"); v != "" {
		cfg.Notion.SleepDatabaseID = v
	}
	if v := os.Getenv("NOTIONFIT_NOTION_HABIT_DB"); v != "" {
		cfg.Notion.HabitDatabaseID = v
	}
	if v := os.Getenv("NOTIONFIT_AUTH_SECRET_TOKEN"); v != "" {
		cfg.Auth.SecretToken = v
	}
	if v := os.Getenv("NOTIONFIT_AUTH_IP_WHITELIST"); v != "" {
		cfg.Auth.IPWhitelist = nil
		for _, ip := range strings.Split(v, ",") {
			if ip = strings.TrimSpace(ip); ip != "" {
				cfg.Auth.IPWhitelist = append(cfg.Auth.IPWhitelist, ip)
			}
		}
	}
	if v := os.Getenv("NOTIONFIT_STATE_DIR"); v != "" {
		cfg.State.Dir = v
	}
}

func (c *Config) applyDefaults() {
	if c.Goals.Steps == 0 {
		c.Goals.Steps = 10000
	}
	if c.Goals.ExerciseMinutes == 0 {
		c.Goals.ExerciseMinutes = 30
	}
	if c.Goals.ActiveEnergyKcal == 0 {
		c.Goals.ActiveEnergyKcal = 500
	}
	if c.Goals.LenientActiveEnergyKcal == 0 {
		c.Goals.LenientActiveEnergyKcal = 300
	}
	if c.Goals.WorkoutCount == 0 {
		c.Goals.WorkoutCount = 1
	}
	if c.State.Dir == "" {
		c.State.Dir = "data"
	}
	if c.Tailscale.Hostname == "" {
		c.Tailscale.Hostname = "notionfit"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Notion.Token == "" {
		return fmt.Errorf("notion.token is required")
	}
	if c.Notion.HealthDatabaseID == "" {
		return fmt.Errorf("notion.health_database_id is required")
	}
	if c.Notion.WorkoutDatabaseID == "" {
		return fmt.Errorf("notion.workout_database_id is required")
	}
	if c.Notion.SleepDatabaseID == "" {
		return fmt.Errorf("notion.sleep_database_id is required")
	}
	if c.Notion.HabitDatabaseID == "" {
		return fmt.Errorf("notion.habit_database_id is required")
	}
	if c.Auth.SecretToken == "" {
		return fmt.Errorf("auth.secret_token is required")
	}
	return nil
}
