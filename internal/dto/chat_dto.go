package dto

// ChatQueryMessage is the inbound WebSocket frame.
type ChatQueryMessage struct {
	Uuid    string `json:"uuid"`
	Message string `json:"message"`
	Init    bool   `json:"init,omitempty"`
}

// ChatResponseMessage is the outbound WebSocket frame.
type ChatResponseMessage struct {
	Uuid     string `json:"uuid"`
	Response string `json:"response"`
}

// SendQueryRequest is the REST variant of a chat query.
type SendQueryRequest struct {
	ConversationId string `json:"conversation_id" validate:"required,uuid4"`
	Message        string `json:"message" validate:"required,min=1,max=4000"`
}

// SendQueryResponse carries the workflow outcome over REST.
type SendQueryResponse struct {
	ConversationId string `json:"conversation_id"`
	Response       string `json:"response"`
	Sentiment      string `json:"sentiment,omitempty"`
	Escalated      bool   `json:"escalated"`
}
