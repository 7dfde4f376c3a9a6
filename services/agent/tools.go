package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// AgentTool is one action the decision model may invoke. Call always
// returns a short natural-language string: results are fed back into the
// conversation, never parsed programmatically.
type AgentTool interface {
	Name() string
	Description() string
	Call(ctx context.Context, input string) (string, error)
	GetAnthropicToolSpec() anthropic.ToolInputSchemaParam
}

func generateAnthropicSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
}

type policyLookup interface {
	Lookup(ctx context.Context, query string) (string, error)
}

type LookupPolicyToolInput struct {
	Query string `json:"query" jsonschema:"required,description=The question to look up in the company policy knowledge base"`
}

// LookupPolicyTool answers price, hours, and rules questions from the
// company policy index.
type LookupPolicyTool struct {
	policyService policyLookup
}

func NewLookupPolicyTool(policyService policyLookup) LookupPolicyTool {
	return LookupPolicyTool{policyService: policyService}
}

func (l LookupPolicyTool) Name() string {
	return "lookup_policy"
}

func (l LookupPolicyTool) Description() string {
	return "Look up prices, hours, and rules in the company policy knowledge base"
}

func (l LookupPolicyTool) Call(ctx context.Context, input string) (string, error) {
	var params LookupPolicyToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse lookup policy tool input: %v", err)
	}

	return l.policyService.Lookup(ctx, params.Query)
}

func (l LookupPolicyTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[LookupPolicyToolInput]()
}

type leadSaver interface {
	SaveLead(ctx context.Context, name, phone string) string
}

type SaveLeadToolInput struct {
	Name  string `json:"name" jsonschema:"required,description=The caller's full name"`
	Phone string `json:"phone" jsonschema:"required,description=The caller's phone number in digits only"`
}

// SaveLeadTool persists the caller's contact info as a hot lead. Duplicate
// and failure handling lives in the lead service; the tool only relays its
// instruction string back to the model.
type SaveLeadTool struct {
	leadService leadSaver
}

func NewSaveLeadTool(leadService leadSaver) SaveLeadTool {
	return SaveLeadTool{leadService: leadService}
}

func (s SaveLeadTool) Name() string {
	return "save_lead_mock"
}

func (s SaveLeadTool) Description() string {
	return "Save the user's contact info (full name and phone number) as a hot lead"
}

func (s SaveLeadTool) Call(ctx context.Context, input string) (string, error) {
	var params SaveLeadToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse save lead tool input: %v", err)
	}

	return s.leadService.SaveLead(ctx, params.Name, params.Phone), nil
}

func (s SaveLeadTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[SaveLeadToolInput]()
}
