package ollama

import (
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/menta2k/cropr/pkg/client"
	"github.com/menta2k/cropr/pkg/processing"
	"github.com/menta2k/cropr/pkg/types"
)

// Locator finds faces with an Ollama hosted vision model
type Locator struct {
	client    *api.Client
	model     string
	processor *processing.Processor

	sendSize    int
	sendQuality int
}

// NewLocator creates a Locator and verifies the Ollama server is reachable
func NewLocator(ctx context.Context, ollamaURL, model string) (*Locator, error) {
	// Parse the provided URL
	parsedURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	// Create base URL from the provided URL (removing path like /api/chat)
	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}

	// Create client with the specified URL, ignoring environment
	apiClient := api.NewClient(baseURL, http.DefaultClient)

	if err := apiClient.Heartbeat(ctx); err != nil {
		return nil, fmt.Errorf("ollama server unreachable at %s: %v", baseURL, err)
	}

	return &Locator{
		client:      apiClient,
		model:       model,
		processor:   processing.NewProcessor(),
		sendSize:    1024,
		sendQuality: 90,
	}, nil
}

// LocateFaces sends the image to the vision model and parses face boxes from
// the reply
func (l *Locator) LocateFaces(ctx context.Context, img image.Image) ([]types.Box, error) {
	// Add timeout if context doesn't have one (vision models are slow on CPU)
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}

	imgB64, err := l.processor.PrepareImageForModel(img, "jpg", l.sendSize, l.sendQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image: %v", err)
	}

	// Decode base64 image to raw bytes
	imgBytes, err := base64.StdEncoding.DecodeString(imgB64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image: %v", err)
	}

	// Create chat request using SDK types
	streamFalse := false
	req := &api.ChatRequest{
		Model: l.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: client.FacePrompt,
				Images:  []api.ImageData{api.ImageData(imgBytes)},
			},
		},
		Stream: &streamFalse,
		// No Format field - let the prompt guide the format
	}

	var responseContent string
	err = l.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		responseContent = resp.Message.Content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat error: %v", err)
	}

	if responseContent == "" {
		return nil, fmt.Errorf("empty response from ollama")
	}

	list, err := client.ParseFaceList(responseContent)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return client.DenormalizeFaces(list, bounds.Dx(), bounds.Dy()), nil
}
