package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestBedrockGenerate(t *testing.T) {
	invoker := &fakeInvoker{body: `{"content":[{"type":"text","text":"{\"medications\":[]}"}]}`}
	g := newBedrockGenerator(invoker, BedrockConfig{ModelID: "test-model"})

	text, err := g.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != `{"medications":[]}` {
		t.Errorf("text = %q", text)
	}
	if g.Name() != "test-model" {
		t.Errorf("Name() = %q", g.Name())
	}
	if *invoker.input.ModelId != "test-model" {
		t.Errorf("model id = %q", *invoker.input.ModelId)
	}

	var req messagesRequest
	if err := json.Unmarshal(invoker.input.Body, &req); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if req.AnthropicVersion != "bedrock-2023-05-31" || req.MaxTokens != 1000 || req.Temperature != 0.7 {
		t.Errorf("unexpected request parameters: %+v", req)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "hello" {
		t.Errorf("unexpected messages: %+v", req.Messages)
	}
}

func TestBedrockGenerateDefaults(t *testing.T) {
	g := newBedrockGenerator(&fakeInvoker{}, BedrockConfig{})
	if g.Name() != DefaultModelID {
		t.Errorf("Name() = %q, want %q", g.Name(), DefaultModelID)
	}
}

func TestBedrockGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		invoker *fakeInvoker
		wantErr string
	}{
		{"invoke fails", &fakeInvoker{err: errors.New("throttled")}, "invoke model"},
		{"bad json", &fakeInvoker{body: "not json"}, "decode response"},
		{"empty content", &fakeInvoker{body: `{"content":[]}`}, "no content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newBedrockGenerator(tt.invoker, BedrockConfig{})
			_, err := g.Generate(context.Background(), "prompt")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
