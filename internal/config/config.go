// Package config loads process-level configuration for perceptd.
// Per-package tunables live next to the packages that use them; this
// package only carries wiring: device selection, cadences, sidecar URLs,
// feature flags and API keys. Flag parsing stays in cmd/.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the perceptd process.
type Config struct {
	Pipeline struct {
		Name     string `yaml:"name"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"pipeline"`

	Camera struct {
		Index  int `yaml:"index"`
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
		FPS    int `yaml:"fps"`
	} `yaml:"camera"`

	Detect struct {
		EmotionEveryN   int     `yaml:"emotion_every_n"`   // run the emotion classifier every Nth frame
		QueueCapacity   int     `yaml:"queue_capacity"`    // relay queue capacity between stages
		QueueTimeoutSec float64 `yaml:"queue_timeout_sec"` // blocking Get timeout
	} `yaml:"detect"`

	Sidecar struct {
		URL        string  `yaml:"url"` // landmark/emotion inference service
		TimeoutSec float64 `yaml:"timeout_sec"`
	} `yaml:"sidecar"`

	Web struct {
		Enabled bool   `yaml:"enabled"`
		Port    string `yaml:"port"`
	} `yaml:"web"`

	Commentary struct {
		Enabled     bool    `yaml:"enabled"`
		Model       string  `yaml:"model"`
		IntervalSec float64 `yaml:"interval_sec"`
	} `yaml:"commentary"`

	Scene struct {
		Enabled     bool    `yaml:"enabled"`
		IntervalSec float64 `yaml:"interval_sec"`
	} `yaml:"scene"`

	// API keys come from the environment only, never from the file.
	OpenAIKey string `yaml:"-"`
	GoogleKey string `yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var c Config
	c.Pipeline.Name = "perceptd"
	c.Pipeline.LogLevel = "info"
	c.Camera.Index = 0
	c.Camera.Width = 640
	c.Camera.Height = 480
	c.Camera.FPS = 30
	c.Detect.EmotionEveryN = 3
	c.Detect.QueueCapacity = 2
	c.Detect.QueueTimeoutSec = 1.0
	c.Sidecar.URL = "http://127.0.0.1:9091"
	c.Sidecar.TimeoutSec = 5.0
	c.Web.Enabled = true
	c.Web.Port = "8090"
	c.Commentary.Enabled = true
	c.Commentary.Model = "gpt-5-mini"
	c.Commentary.IntervalSec = 4.0
	c.Scene.Enabled = true
	c.Scene.IntervalSec = 6.0
	return c
}

// Load reads the config file at path (or the usual locations when path is
// empty), applies environment overrides and returns the result. A missing
// file is not an error; defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	candidates := []string{path}
	if path == "" {
		env := os.Getenv("PERCEPT_ENV")
		if env == "" {
			env = "dev"
		}
		candidates = []string{
			os.Getenv("PERCEPT_CONFIG"),
			filepath.Join("config", env, "percept.yaml"),
			"percept.yaml",
		}
	}

	for _, p := range candidates {
		if p == "" {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", p, err)
		}
		break
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.GoogleKey = os.Getenv("GOOGLE_API_KEY")
	if url := os.Getenv("PERCEPT_SIDECAR_URL"); url != "" {
		c.Sidecar.URL = url
	}
	if port := os.Getenv("PERCEPT_PORT"); port != "" {
		c.Web.Port = port
	}
}

// QueueTimeout returns the relay Get timeout as a duration.
func (c Config) QueueTimeout() time.Duration {
	return time.Duration(c.Detect.QueueTimeoutSec * float64(time.Second))
}

// SidecarTimeout returns the inference sidecar call timeout.
func (c Config) SidecarTimeout() time.Duration {
	return time.Duration(c.Sidecar.TimeoutSec * float64(time.Second))
}

// CommentaryInterval returns the pause between commentary generations.
func (c Config) CommentaryInterval() time.Duration {
	return time.Duration(c.Commentary.IntervalSec * float64(time.Second))
}

// SceneInterval returns the pause between scene analysis calls.
func (c Config) SceneInterval() time.Duration {
	return time.Duration(c.Scene.IntervalSec * float64(time.Second))
}
