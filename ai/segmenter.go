package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// SceneRecord is one segmented scene as reported by the script
// processor: the slugline plus the scene body, in screenplay order.
type SceneRecord struct {
	Index     int    `json:"index"`
	Slugline  string `json:"slugline"`
	Place     string `json:"place"`
	TimeOfDay string `json:"time_of_day"`
	Body      string `json:"body"`
}

// Segmenter calls the script-processor service that splits an uploaded
// screenplay into scene records.
type Segmenter struct {
	baseURL string
	http    *http.Client
}

// NewSegmenter builds the client from SCRIPT_PROCESSOR_URL.
func NewSegmenter() *Segmenter {
	base := os.Getenv("SCRIPT_PROCESSOR_URL")
	if base == "" {
		base = "http://localhost:8010"
	}
	return &Segmenter{
		baseURL: base,
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
}

// SplitScenes uploads the stored script file and returns the segmented
// scene records. A failure here fails the owning background task.
func (s *Segmenter) SplitScenes(ctx context.Context, filePath string) ([]SceneRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open script file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read script file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/split-script", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("script processor unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("script processor returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded struct {
		Scenes []SceneRecord `json:"scenes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode split response: %w", err)
	}
	return decoded.Scenes, nil
}
