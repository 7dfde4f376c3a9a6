package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Ak1ra777/LeadFlow-demo/models"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// maxToolRounds caps the oracle<->tool cycle per turn. The model normally
// needs one or two rounds; the cap only exists so a pathological model
// cannot loop forever.
const maxToolRounds = 6

const technicalDifficultyReply = "ბოდიში, ტექნიკური პრობლემა მაქვს. სცადეთ თავიდან."

// oracleToolCall is one action request from the decision model. Arguments
// is the raw JSON input for the named tool.
type oracleToolCall struct {
	ID        string
	Name      string
	Arguments string
}

type oracleReply struct {
	text      string
	toolCalls []oracleToolCall
}

// oracle is the decision model seam: conversation plus tool specs in, final
// text or requested tool calls out.
type oracle interface {
	complete(ctx context.Context, params anthropic.MessageNewParams) (oracleReply, error)
}

type anthropicOracle struct {
	client *anthropic.Client
}

func (o anthropicOracle) complete(ctx context.Context, params anthropic.MessageNewParams) (oracleReply, error) {
	response, err := o.client.Messages.New(ctx, params)
	if err != nil {
		return oracleReply{}, fmt.Errorf("failed to call Anthropic API: %w", err)
	}

	var reply oracleReply
	for _, block := range response.Content {
		switch block := block.AsAny().(type) {
		case anthropic.TextBlock:
			reply.text += block.Text
		case anthropic.ToolUseBlock:
			arguments, err := json.Marshal(block.Input)
			if err != nil {
				return oracleReply{}, fmt.Errorf("failed to marshal tool input: %w", err)
			}
			reply.toolCalls = append(reply.toolCalls, oracleToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: string(arguments),
			})
		}
	}

	return reply, nil
}

type Service struct {
	oracle oracle
	tools  []AgentTool
	system string
}

func NewService(anthropicAPIKey, companyName, companyCity string, policyService policyLookup, leadService leadSaver) *Service {
	client := anthropic.NewClient(option.WithAPIKey(anthropicAPIKey))

	return &Service{
		oracle: anthropicOracle{client: &client},
		tools: []AgentTool{
			NewLookupPolicyTool(policyService),
			NewSaveLeadTool(leadService),
		},
		system: systemPrompt(companyName, companyCity),
	}
}

// Respond runs one conversation turn to completion: the decision model is
// invoked with the full history, any tool calls it requests are executed in
// order with their results appended, and the loop repeats until the model
// answers with plain text.
func (s *Service) Respond(ctx context.Context, history []models.ChatMessage) (string, error) {
	messages := s.convertHistory(history)
	toolSpecs := s.buildToolSpecs()

	for round := 0; round <= maxToolRounds; round++ {
		reply, err := s.oracle.complete(ctx, anthropic.MessageNewParams{
			Model:     anthropic.ModelClaude4Sonnet20250514,
			MaxTokens: 1024,
			System:    []anthropic.TextBlockParam{{Text: s.system}},
			Messages:  messages,
			Tools:     toolSpecs,
		})
		if err != nil {
			return "", err
		}

		if len(reply.toolCalls) == 0 {
			return reply.text, nil
		}

		messages = append(messages, assistantMessage(reply))

		resultBlocks := make([]anthropic.ContentBlockParamUnion, 0, len(reply.toolCalls))
		for _, call := range reply.toolCalls {
			log.Printf("[INFO] Executing tool: %s with arguments: %s", call.Name, call.Arguments)

			result, err := s.executeTool(ctx, call.Name, call.Arguments)
			if err != nil {
				log.Printf("[ERROR] Tool execution failed: %v", err)
				result = fmt.Sprintf("Error: %v", err)
			} else {
				log.Printf("[INFO] Tool execution result: %s", result)
			}

			resultBlocks = append(resultBlocks, anthropic.ContentBlockParamUnion{
				OfToolResult: &anthropic.ToolResultBlockParam{
					ToolUseID: call.ID,
					Content: []anthropic.ToolResultBlockParamContentUnion{
						{OfText: &anthropic.TextBlockParam{Text: result}},
					},
				},
			})
		}
		messages = append(messages, anthropic.NewUserMessage(resultBlocks...))
	}

	log.Printf("[WARN] Tool round cap reached, returning fallback answer")
	return technicalDifficultyReply, nil
}

// convertHistory maps caller-supplied turns to Anthropic messages. Only
// user and assistant turns are expected here; the handler filters the rest.
func (s *Service) convertHistory(history []models.ChatMessage) []anthropic.MessageParam {
	var messages []anthropic.MessageParam
	for _, msg := range history {
		switch msg.Role {
		case "user":
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case "assistant":
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return messages
}

func assistantMessage(reply oracleReply) anthropic.MessageParam {
	var blocks []anthropic.ContentBlockParamUnion
	if reply.text != "" {
		blocks = append(blocks, anthropic.ContentBlockParamUnion{
			OfText: &anthropic.TextBlockParam{Text: reply.text},
		})
	}
	for _, call := range reply.toolCalls {
		var input map[string]interface{}
		if err := json.Unmarshal([]byte(call.Arguments), &input); err != nil {
			input = map[string]interface{}{}
		}
		blocks = append(blocks, anthropic.ContentBlockParamUnion{
			OfToolUse: &anthropic.ToolUseBlockParam{
				ID:    call.ID,
				Name:  call.Name,
				Input: input,
			},
		})
	}
	return anthropic.NewAssistantMessage(blocks...)
}

func (s *Service) buildToolSpecs() []anthropic.ToolUnionParam {
	var toolSpecs []anthropic.ToolUnionParam
	for _, tool := range s.tools {
		toolSpecs = append(toolSpecs, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name(),
				Description: anthropic.String(tool.Description()),
				InputSchema: tool.GetAnthropicToolSpec(),
			},
		})
	}
	return toolSpecs
}

func (s *Service) executeTool(ctx context.Context, toolName, arguments string) (string, error) {
	for _, tool := range s.tools {
		if tool.Name() == toolName {
			return tool.Call(ctx, arguments)
		}
	}
	return "", fmt.Errorf("tool %s not found", toolName)
}
