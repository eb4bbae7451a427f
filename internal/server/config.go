package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/nlhe/internal/bot"
	"github.com/lox/nlhe/internal/game"
	"github.com/lox/nlhe/internal/randutil"
	"github.com/lox/nlhe/internal/table"
)

// ErrInvalidConfig is returned for configuration that parses but cannot be
// used.
var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultAddress       = ":8080"
	DefaultLogLevel      = "info"
	DefaultStartingChips = 2000
)

// Config represents the complete server configuration
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Tables []TableSpec     `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	LogLevel string `hcl:"log_level,optional"`
	Seed     int64  `hcl:"seed,optional"`
}

// TableSpec defines a poker table
type TableSpec struct {
	Name          string     `hcl:"name,label"`
	SmallBlind    int        `hcl:"small_blind"`
	BigBlind      int        `hcl:"big_blind"`
	TurnTimeout   string     `hcl:"turn_timeout,optional"`
	AgentDelay    string     `hcl:"agent_delay,optional"`
	AutoDeal      bool       `hcl:"auto_deal,optional"`
	NextHandDelay string     `hcl:"next_hand_delay,optional"`
	Seats         []SeatSpec `hcl:"seat,block"`
}

// SeatSpec defines one seat. Seats with a bot strategy are played by the
// server; the rest wait for a websocket client.
type SeatSpec struct {
	ID    string `hcl:"id,label"`
	Name  string `hcl:"name,optional"`
	Chips int    `hcl:"chips,optional"`
	Bot   string `hcl:"bot,optional"`
}

// DefaultConfig returns one six-seat table with a human seat and five
// calling bots.
func DefaultConfig() *Config {
	seats := []SeatSpec{{ID: "you", Name: "You", Chips: DefaultStartingChips}}
	for _, name := range []string{"Alice", "Bob", "Carol", "Dave", "Eve"} {
		seats = append(seats, SeatSpec{ID: name, Name: name, Chips: DefaultStartingChips, Bot: "caller"})
	}
	return &Config{
		Server: &ServerSettings{Address: DefaultAddress, LogLevel: DefaultLogLevel},
		Tables: []TableSpec{{
			Name:          "main",
			SmallBlind:    10,
			BigBlind:      20,
			TurnTimeout:   "10s",
			AgentDelay:    "2s",
			AutoDeal:      true,
			NextHandDelay: "3s",
			Seats:         seats,
		}},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields
// DefaultConfig.
func LoadConfig(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(src, filename)
}

// ParseConfig decodes HCL source, applies defaults and validates the result.
func ParseConfig(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}
	for i := range c.Tables {
		for j := range c.Tables[i].Seats {
			seat := &c.Tables[i].Seats[j]
			if seat.Chips == 0 {
				seat.Chips = DefaultStartingChips
			}
			if seat.Name == "" {
				seat.Name = seat.ID
			}
		}
	}
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.Server.LogLevel)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("%w: at least one table must be configured", ErrInvalidConfig)
	}

	names := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if names[t.Name] {
			return fmt.Errorf("%w: duplicate table %q", ErrInvalidConfig, t.Name)
		}
		names[t.Name] = true

		for _, d := range []struct{ field, value string }{
			{"turn_timeout", t.TurnTimeout},
			{"agent_delay", t.AgentDelay},
			{"next_hand_delay", t.NextHandDelay},
		} {
			if _, err := parseDuration(d.value); err != nil {
				return fmt.Errorf("%w: table %s: %s: %w", ErrInvalidConfig, t.Name, d.field, err)
			}
		}
		for _, seat := range t.Seats {
			if seat.Bot == "" {
				continue
			}
			if _, err := bot.New(seat.Bot, nil, log.Default()); err != nil {
				return fmt.Errorf("%w: table %s: seat %s: %w", ErrInvalidConfig, t.Name, seat.ID, err)
			}
		}
		if _, err := game.CreateTable(t.gameConfig()); err != nil {
			return fmt.Errorf("%w: table %s: %w", ErrInvalidConfig, t.Name, err)
		}
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.Server.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func (t TableSpec) gameConfig() game.TableConfig {
	seats := make([]game.SeatConfig, len(t.Seats))
	for i, s := range t.Seats {
		seats[i] = game.SeatConfig{ID: s.ID, Name: s.Name, Chips: s.Chips}
	}
	return game.TableConfig{ID: t.Name, Seats: seats, SmallBlind: t.SmallBlind, BigBlind: t.BigBlind}
}

// TableConfigs builds table configurations. Each table and bot gets its own
// random stream derived from seed.
func (c *Config) TableConfigs(seed int64, clock quartz.Clock, logger *log.Logger) ([]table.Config, error) {
	configs := make([]table.Config, 0, len(c.Tables))
	for i, t := range c.Tables {
		tableSeed := randutil.Derive(seed, i)
		cfg := table.Config{
			Name:     t.Name,
			Game:     t.gameConfig(),
			Agents:   make(map[string]bot.Agent),
			AutoDeal: t.AutoDeal,
			Seed:     tableSeed,
			Clock:    clock,
			Logger:   logger,
		}

		var err error
		if cfg.TurnTimeout, err = parseDuration(t.TurnTimeout); err != nil {
			return nil, err
		}
		if cfg.AgentDelay, err = parseDuration(t.AgentDelay); err != nil {
			return nil, err
		}
		if cfg.NextHandDelay, err = parseDuration(t.NextHandDelay); err != nil {
			return nil, err
		}

		for j, seat := range t.Seats {
			if seat.Bot == "" {
				continue
			}
			rng := randutil.New(randutil.Derive(tableSeed, j))
			agent, err := bot.New(seat.Bot, rng, logger.With("player", seat.ID))
			if err != nil {
				return nil, err
			}
			cfg.Agents[seat.ID] = agent
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}
