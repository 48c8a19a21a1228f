// Package estimate provides the HTTP clients for the landmark and
// emotion inference sidecar. The heavy models (pose landmarker, hand
// landmarker, face-emotion classifier) run out of process; this package
// only ships frames over and maps the responses onto the pipeline's data
// model. Absence — no subject, no hands, no face — comes back as a value,
// never as an error.
package estimate

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/perceptd/go-percept/internal/httpc"
	"github.com/perceptd/go-percept/pkg/emotion"
	"github.com/perceptd/go-percept/pkg/gestures"
	"github.com/perceptd/go-percept/pkg/landmarks"
)

// DefaultTimeout bounds each sidecar call. The sidecar runs local
// models; anything slower than this is treated as a failed cycle.
const DefaultTimeout = 5 * time.Second

// Client talks to the inference sidecar. It implements the pose, hand
// and emotion collaborator interfaces so one sidecar serves all three
// paths.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a sidecar client with the given call timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    httpc.NewClient(timeout),
	}
}

type frameRequest struct {
	Image string `json:"image"` // base64 JPEG
}

type poseResponse struct {
	Landmarks landmarks.Set `json:"landmarks"`
}

type handsResponse struct {
	Hands []gestures.Hand `json:"hands"`
}

type emotionResponse struct {
	FaceFound bool           `json:"face_found"`
	Dominant  string         `json:"dominant_emotion"`
	Scores    emotion.Scores `json:"emotion_scores"`
	Region    emotion.Region `json:"region"`
}

// Pose returns the body landmark set for the frame, or an empty set when
// no subject is visible.
func (c *Client) Pose(frame []byte) (landmarks.Set, error) {
	var out poseResponse
	if err := c.post("/pose", frame, &out); err != nil {
		return nil, err
	}
	return out.Landmarks, nil
}

// Hands returns the landmark sets for every visible hand.
func (c *Client) Hands(frame []byte) ([]gestures.Hand, error) {
	var out handsResponse
	if err := c.post("/hands", frame, &out); err != nil {
		return nil, err
	}
	return out.Hands, nil
}

// Analyze returns the face-emotion scores for the frame. A frame with no
// visible face yields a FaceFound=false result, not an error.
func (c *Client) Analyze(frame []byte) (emotion.DetectionResult, error) {
	var out emotionResponse
	if err := c.post("/emotion", frame, &out); err != nil {
		return emotion.NoFace(), err
	}
	if !out.FaceFound {
		return emotion.NoFace(), nil
	}
	return emotion.DetectionResult{
		FaceFound: true,
		Dominant:  out.Dominant,
		Scores:    out.Scores,
		Region:    out.Region,
	}, nil
}

// Close satisfies the estimator interfaces; the HTTP client holds no
// per-call resources.
func (c *Client) Close() error {
	return nil
}

func (c *Client) post(path string, frame []byte, out any) error {
	body, err := json.Marshal(frameRequest{
		Image: base64.StdEncoding.EncodeToString(frame),
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sidecar %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sidecar %s: %s: %s", path, resp.Status, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("sidecar %s decode: %w", path, err)
	}
	return nil
}
