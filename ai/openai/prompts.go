package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/alphagraph/core"
	"github.com/tmc/langchaingo/llms"
)

const summarizerSystemPrompt = "You are a financial analyst. Summarize the following context in relation to the query."

const entityResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "type": {"type": "string", "enum": [%s]},
          "value": {"type": "string"},
          "evidence": {"type": "string"}
        },
        "required": ["type", "value"],
        "additionalProperties": false
      }
    }
  },
  "required": ["entities"],
  "additionalProperties": false
}`

const entityPromptTemplate = `You are a precise Financial NER engine. Extract entities relevant to equities and macro.
Prefer official tickers (e.g., MSFT), capture numeric values and units, and include short evidence spans
copied verbatim from the text.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble or
explanation. Start your response directly with the opening brace { and end with the closing brace }.

%s

Rules:
- "type" must be exactly one of: %s.
- "evidence" is the shortest sentence or clause from the text that supports the entity.
- If no entities can be identified, return {"entities": []}.

Example:
Input: "Microsoft (MSFT) grew Azure revenue 29%% in Q3 2024."
Output:
{
  "entities": [
    {"type":"ticker","value":"MSFT","evidence":"Microsoft (MSFT) grew Azure revenue 29%% in Q3 2024."},
    {"type":"company","value":"Microsoft","evidence":"Microsoft (MSFT) grew Azure revenue 29%% in Q3 2024."},
    {"type":"metric","value":"Azure revenue growth 29%%","evidence":"grew Azure revenue 29%%"},
    {"type":"date","value":"Q3 2024","evidence":"in Q3 2024"}
  ]
}`

const sentimentPrompt = `Classify the market sentiment expressed by the text toward the company or ticker it discusses.

Output ONLY valid JSON of the form {"label": "<positive|negative|neutral>", "score": <number between 0 and 1>}
where score is your confidence in the label. Do not include any other text.`

// buildEntityPrompt creates the extraction system prompt with the entity kinds embedded.
func buildEntityPrompt() string {
	kinds := make([]string, len(core.EntityKinds))
	quoted := make([]string, len(core.EntityKinds))
	for i, k := range core.EntityKinds {
		kinds[i] = string(k)
		quoted[i] = fmt.Sprintf("%q", k)
	}
	schema := fmt.Sprintf(entityResponseSchema, strings.Join(quoted, ", "))
	return fmt.Sprintf(entityPromptTemplate, schema, strings.Join(kinds, ", "))
}

// buildSummaryPrompt lays out the query and retrieved passage for the summarizer.
func buildSummaryPrompt(query, passage string) string {
	return fmt.Sprintf("Query: %s\n\nContext:\n%s", query, passage)
}

// chatMessages builds a system + human exchange.
func chatMessages(system, human string) []llms.MessageContent {
	return []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(human)},
		},
	}
}
