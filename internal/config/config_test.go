package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()

	if c.Detect.EmotionEveryN != 3 {
		t.Errorf("EmotionEveryN = %d, want 3", c.Detect.EmotionEveryN)
	}
	if c.Detect.QueueCapacity != 2 {
		t.Errorf("QueueCapacity = %d, want 2", c.Detect.QueueCapacity)
	}
	if c.Camera.Width != 640 || c.Camera.Height != 480 {
		t.Errorf("camera = %dx%d, want 640x480", c.Camera.Width, c.Camera.Height)
	}
	if c.QueueTimeout() != time.Second {
		t.Errorf("QueueTimeout = %v, want 1s", c.QueueTimeout())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Pipeline.Name != "perceptd" {
		t.Errorf("Name = %q, want perceptd", c.Pipeline.Name)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "percept.yaml")
	data := `
camera:
  index: 2
detect:
  emotion_every_n: 5
web:
  port: "9000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Camera.Index != 2 {
		t.Errorf("camera index = %d, want 2", c.Camera.Index)
	}
	if c.Detect.EmotionEveryN != 5 {
		t.Errorf("EmotionEveryN = %d, want 5", c.Detect.EmotionEveryN)
	}
	if c.Web.Port != "9000" {
		t.Errorf("port = %q, want 9000", c.Web.Port)
	}
	// Untouched sections keep their defaults.
	if c.Camera.Width != 640 {
		t.Errorf("width = %d, want default 640", c.Camera.Width)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "percept.yaml")
	if err := os.WriteFile(path, []byte("camera: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load = nil error for malformed yaml, want error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PERCEPT_SIDECAR_URL", "http://gpu-box:9091")
	t.Setenv("PERCEPT_PORT", "8123")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Sidecar.URL != "http://gpu-box:9091" {
		t.Errorf("sidecar URL = %q, want env override", c.Sidecar.URL)
	}
	if c.Web.Port != "8123" {
		t.Errorf("port = %q, want 8123", c.Web.Port)
	}
	if c.OpenAIKey != "sk-test" {
		t.Errorf("OpenAIKey = %q, want sk-test", c.OpenAIKey)
	}
}
