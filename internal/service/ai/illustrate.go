package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// illustrationPromptTemplate derives the image prompt from the advice just
// given, not from the user's question.
const illustrationPromptTemplate = "An illustrative example for this advice: %s. Style: clear educational diagram/sketch."

// maxAdviceInPrompt keeps the derived prompt inside the image endpoint's
// prompt-length limit.
const maxAdviceInPrompt = 3200

// DallEIllustrator issues one fixed-resolution image-generation request per
// reply. Failures are reported to the caller and never retried.
type DallEIllustrator struct {
	model openai.ImageModel
}

// NewDallEIllustrator creates the illustrator for the given image model
// identifier, e.g. "dall-e-3".
func NewDallEIllustrator(model string) *DallEIllustrator {
	if model == "" {
		model = openai.ImageModelDallE3
	}
	return &DallEIllustrator{model: openai.ImageModel(model)}
}

// Illustrate returns the URL of a generated 1024x1024 image for the advice.
func (d *DallEIllustrator) Illustrate(ctx context.Context, apiKey, advice string) (string, error) {
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if len(advice) > maxAdviceInPrompt {
		advice = advice[:maxAdviceInPrompt]
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	resp, err := client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:  d.model,
		Prompt: fmt.Sprintf(illustrationPromptTemplate, advice),
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return "", fmt.Errorf("image generation request: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", errors.New("image generation returned no image")
	}
	return resp.Data[0].URL, nil
}
