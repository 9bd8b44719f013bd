package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	DefaultModelID     = "anthropic.claude-3-sonnet-20240229-v1:0"
	DefaultRegion      = "us-east-1"
	anthropicVersion   = "bedrock-2023-05-31"
	defaultMaxTokens   = 1000
	defaultTemperature = 0.7
)

// TextGenerator turns a prompt into free text. Name identifies the model
// that produced the text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float64
}

type modelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockGenerator calls an Anthropic model hosted on Amazon Bedrock through
// the messages API.
type BedrockGenerator struct {
	client      modelInvoker
	modelID     string
	maxTokens   int
	temperature float64
}

// NewBedrockGenerator loads the default AWS credential chain for the
// configured region and returns a generator bound to one model.
func NewBedrockGenerator(ctx context.Context, cfg BedrockConfig) (*BedrockGenerator, error) {
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("bedrock: load aws config: %w", err)
	}
	return newBedrockGenerator(bedrockruntime.NewFromConfig(awsCfg), cfg), nil
}

func newBedrockGenerator(client modelInvoker, cfg BedrockConfig) *BedrockGenerator {
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultModelID
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	return &BedrockGenerator{
		client:      client,
		modelID:     cfg.ModelID,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (g *BedrockGenerator) Name() string {
	return g.modelID
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature"`
	Messages         []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Generate sends the prompt as a single user message and returns the text of
// the first content block.
func (g *BedrockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        g.maxTokens,
		Temperature:      g.temperature,
		Messages:         []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("bedrock: encode request: %w", err)
	}

	out, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("bedrock: invoke model: %w", err)
	}

	var resp messagesResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("bedrock: decode response: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", errors.New("bedrock: response has no content")
	}
	return resp.Content[0].Text, nil
}
