package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"smart-va/internal/config"
	"smart-va/internal/models"
	"smart-va/internal/validation"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are ARIA (Advanced Responsive Intelligence Assistant), a Virtual Assistant that gathers business task requests.

Collect these fields over the conversation: name, email, company, taskCategory, taskSubtype, description, priority (low/medium/high/urgent), deadline, budget, communicationMethod (email/phone/video_call/slack/teams/other) and additionalDetails.
Required before a request is ready: name, email, taskCategory, a description of at least 15 characters, and a deadline.

Known categories: Calendar Management, Email Management, Research & Analysis, Travel Planning, Project Management, Customer Support, Administrative Support, Social Media Management, Content Creation, Technical Support, Data Processing, Financial Tasks, General Support.

Rules:
- Never ask for information already present in the collected data or the conversation history.
- When servicePreSelected is true, skip category questions and ask about the specific service requirements.
- Extract deadlines from any mention of dates, times or urgency ("by Friday", "next week", "ASAP").
- If the user mentions urgency (urgent, ASAP, immediately, critical), set priority to urgent.
- Ask one focused question at a time.

Always respond with a single JSON object:
{
  "message": "your reply to the user",
  "needsMoreInfo": true/false,
  "collectedData": {"name": "", "email": "", "company": "", "taskCategory": "", "taskSubtype": "", "description": "", "priority": "", "deadline": "", "budget": "", "communicationMethod": "", "additionalDetails": ""},
  "missingFields": ["fields", "still", "needed"],
  "ready": true/false,
  "suggestedNextSteps": ["next", "steps"],
  "estimatedTimeline": "realistic timeline"
}`

// ChatCompleter is the subset of the OpenAI client used by AIService
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AIService answers chat turns with an OpenAI chat model
type AIService struct {
	client ChatCompleter
	config config.OpenAIConfig
}

// NewAIService creates an AI service, or returns nil when no API key is configured
func NewAIService(cfg config.OpenAIConfig) *AIService {
	if cfg.APIKey == "" {
		return nil
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return NewAIServiceWithClient(openai.NewClientWithConfig(clientConfig), cfg)
}

// NewAIServiceWithClient creates an AI service around an existing client
func NewAIServiceWithClient(client ChatCompleter, cfg config.OpenAIConfig) *AIService {
	return &AIService{client: client, config: cfg}
}

// Name identifies the responder in logs
func (s *AIService) Name() string {
	return "openai"
}

// Respond implements Responder. Any failure, including a reply that is not
// valid JSON of the expected shape, is returned as an error.
func (s *AIService) Respond(ctx context.Context, input models.ChatInput) (*models.ChatReply, error) {
	messages, err := s.buildMessages(input)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.config.Model,
		Messages:    messages,
		MaxTokens:   s.config.MaxTokens,
		Temperature: float32(s.config.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	reply, err := validation.ValidateAndParseChatReply(content)
	if err != nil {
		preview := content
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		log.Printf("WARNING: [CHAT] Invalid model reply: %s", preview)
		return nil, fmt.Errorf("invalid model reply: %w", err)
	}

	return normalizeModelReply(reply, input.State), nil
}

func (s *AIService) buildMessages(input models.ChatInput) ([]openai.ChatCompletionMessage, error) {
	known, err := json.Marshal(input.State)
	if err != nil {
		return nil, fmt.Errorf("failed to encode conversation data: %w", err)
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{
			Role: openai.ChatMessageRoleSystem,
			Content: fmt.Sprintf("CONVERSATION CONTEXT: Current collected data: %s. Always check this data before asking questions. Never ask for information that's already been provided.",
				known),
		},
	}
	for _, turn := range input.History {
		role := openai.ChatMessageRoleUser
		if turn.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: input.Message})
	return messages, nil
}

// normalizeModelReply fills fields the model left blank from the previous
// state and recomputes readiness from the merged state
func normalizeModelReply(reply *models.ChatReply, prev models.ConversationState) *models.ChatReply {
	merged := reply.CollectedData
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&merged.Name, prev.Name)
	fill(&merged.Email, prev.Email)
	fill(&merged.Company, prev.Company)
	fill(&merged.TaskCategory, prev.TaskCategory)
	fill(&merged.TaskSubtype, prev.TaskSubtype)
	fill(&merged.Description, prev.Description)
	fill(&merged.Priority, prev.Priority)
	fill(&merged.Deadline, prev.Deadline)
	fill(&merged.Budget, prev.Budget)
	fill(&merged.CommunicationMethod, prev.CommunicationMethod)
	fill(&merged.AdditionalDetails, prev.AdditionalDetails)
	merged.ServicePreSelected = merged.ServicePreSelected || prev.ServicePreSelected
	reply.CollectedData = merged

	if missing := merged.Missing(); missing != "" {
		reply.Ready = false
		reply.NeedsMoreInfo = true
		if len(reply.MissingFields) == 0 {
			reply.MissingFields = []string{missing}
		}
	} else if reply.Ready {
		reply.NeedsMoreInfo = false
		reply.MissingFields = []string{}
	}

	if reply.MissingFields == nil {
		reply.MissingFields = []string{}
	}
	if reply.SuggestedNextSteps == nil {
		reply.SuggestedNextSteps = []string{}
	}
	return reply
}
