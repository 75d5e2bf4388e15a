package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"

	// SentimentPromptTemplate classifies a single support query. The model is
	// expected to reply with exactly one of the two labels; anything else is
	// rejected by the classifier.
	SentimentPromptTemplate = `You are a customer support chatbot. Analyze the sentiment of the following customer query.
Ignore any previous chat history. Focus solely on the current query.
Consider the context of customer support interactions when determining the sentiment.

Respond with one of the following exactly: 'positive', or 'negative'.

Here are some guidelines:

- 'positive': The customer expresses satisfaction, appreciation, or positive feelings. The customer's query is informational, factual, or lacks strong emotional expression, and the chatbot can potentially provide a resolution.
- 'negative': The customer explicitly requests to speak to a human, or the customer's query indicates that the chatbot is unable to provide a satisfactory answer and requires human intervention.

Query: %s`

	// AnswerPromptTemplate has two slots: retrieved context (concatenated in
	// retrieval order) and the raw question.
	AnswerPromptTemplate = `You are a helpful customer support assistant. Use the following pieces of context from the knowledge base to answer the question at the end.
If the answer is not contained in the context, say that you don't know. Do not make up an answer.

Context:
%s

Question: %s

Answer:`

	SentimentLabelPositive = "positive"
	SentimentLabelNegative = "negative"
)

const (
	// EscalationMessage is the fixed response on the escalation path.
	EscalationMessage = "Let me connect you to a human representative..."

	// NoKnowledgeBaseMessage is returned when a query arrives before any
	// document has been indexed.
	NoKnowledgeBaseMessage = "The knowledge base is empty. Please upload documents before asking questions."

	// GenericFailureMessage acknowledges an internal failure without exposing
	// the cause. The connection stays open for further queries.
	GenericFailureMessage = "Sorry, something went wrong while processing your question. Please try again."
)
