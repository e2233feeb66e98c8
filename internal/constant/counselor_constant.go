package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// CounselorSystemPromptV1 frames every outbound model call.
const CounselorSystemPromptV1 = "You are a friendly, practical career counselor. Give concise, step-by-step, actionable advice. Ask up to 2 clarifying questions if needed."

// GatewayFallbackMessage is returned when every provider attempt fails or
// no provider credentials are configured.
const GatewayFallbackMessage = "Free models are temporarily busy. Tell me your current role, the skills you enjoy, and 2-3 target roles; I'll outline a step-by-step plan."

// PipelineApologyMessage replaces the assistant reply when the gateway
// itself misbehaves; the pipeline never surfaces provider errors.
const PipelineApologyMessage = "I hit a temporary issue reaching the model. Try again in a moment."
