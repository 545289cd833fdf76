package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// ModelFallback tags responses produced after both provider attempts failed.
	ModelFallback = "fallback"

	// FallbackResponse is returned when the primary and fallback providers both fail.
	FallbackResponse = "I'm sorry, I'm having trouble generating a response right now. Please try again in a moment."

	// RefusalResponse replaces any model output that mentions an excluded topic.
	RefusalResponse = "I'm not able to discuss that topic. Is there anything else I can help you with?"

	// Response filter types
	FilterTypeReplace = "replace"
	FilterTypeAppend  = "append"
	FilterTypePrepend = "prepend"

	// TopicInteractionLogs is the in-process bus topic for audit rows.
	TopicInteractionLogs = "interaction_logs"
)
