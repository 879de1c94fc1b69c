package rag

// DefaultTopK is the number of passages retrieved per query. It bounds both
// recall and prompt size; a tuning constant, not a per-request parameter.
const DefaultTopK = 3

// SystemPrompt fixes the assistant's grounding behavior. Declining when the
// answer is not in the context is delegated to the model's adherence to this
// instruction; the pipeline does not verify it.
const SystemPrompt = "You are a helpful assistant. Use the following context to answer the question. If the answer is not in the context, say so."

// userPromptTemplate is the fixed user message layout: assembled context
// followed by the original question.
const userPromptTemplate = "Context:\n%s\n\nQuestion: %s"

// EmptyCorpusAnswer is returned when the store holds zero documents. No
// generator call is made on this path.
const EmptyCorpusAnswer = "There are no documents in the knowledge base to answer from. Add some documents first."
