package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

type bedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockGenerator produces replies through the Bedrock Converse API.
type BedrockGenerator struct {
	api     bedrockConverseAPI
	modelID string
}

// NewBedrockGenerator creates a Bedrock-backed text generator.
func NewBedrockGenerator(api bedrockConverseAPI, modelID string) *BedrockGenerator {
	if api == nil {
		panic("dialogue: bedrock converse client cannot be nil")
	}
	if strings.TrimSpace(modelID) == "" {
		panic("dialogue: bedrock model id cannot be empty")
	}
	return &BedrockGenerator{api: api, modelID: modelID}
}

func (g *BedrockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("dialogue: empty prompt")
	}

	out, err := g.api.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(g.modelID),
		Messages: []brtypes.Message{
			{
				Role: brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: prompt},
				},
			},
		},
		InferenceConfig: &brtypes.InferenceConfiguration{
			MaxTokens:   aws.Int32(256),
			Temperature: aws.Float32(0.4),
		},
	})
	if err != nil {
		return "", fmt.Errorf("dialogue: bedrock completion failed: %w", err)
	}

	return bedrockOutputText(out)
}

func bedrockOutputText(out *bedrockruntime.ConverseOutput) (string, error) {
	if out == nil || out.Output == nil {
		return "", errors.New("dialogue: bedrock returned no output")
	}
	msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("dialogue: unexpected bedrock output type %T", out.Output)
	}
	var b strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*brtypes.ContentBlockMemberText); ok {
			b.WriteString(text.Value)
		}
	}
	return strings.TrimSpace(b.String()), nil
}
