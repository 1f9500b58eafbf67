package openai

import "fmt"

const keyphraseResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "keyphrases": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "phrase": {
            "type": "string",
            "pattern": "^[a-z0-9]+( [a-z0-9]+)*$"
          },
          "score": {
            "type": "number",
            "minimum": 0,
            "maximum": 1
          }
        },
        "required": ["phrase", "score"],
        "additionalProperties": false
      }
    }
  },
  "required": ["keyphrases"],
  "additionalProperties": false
}`

const keyphrasePromptTemplate = `Extract the %d most important keyphrases from the given research-paper text and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Keyphrases must be lowercase, 1-4 words, taken from the text.
- Prefer methods, datasets, models, and technical subject matter over generic academic phrasing.
- Score is a number from 0 to 1 expressing how central the keyphrase is to the text.
- Order keyphrases by descending score.
- Do not invent keyphrases that the text does not support.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "We fine-tune transformer models on the SQuAD benchmark and report attention ablations."
Output:
{
  "keyphrases": [
    {"phrase":"transformer models","score":0.95},
    {"phrase":"squad benchmark","score":0.8},
    {"phrase":"attention ablations","score":0.7}
  ]
}`

func buildKeyphraseSystemPrompt(maxCandidates int) string {
	return fmt.Sprintf(keyphrasePromptTemplate, maxCandidates, keyphraseResponseSchema)
}

const synthesisSystemPrompt = `You are an expert research synthesis assistant with deep knowledge of academic writing and comparative analysis.

Your task: analyze the retrieved paper excerpts and provide a well-structured comparative synthesis that covers:
- Methodological approaches and techniques
- Datasets and experimental setups
- Key findings and results
- Convergent and divergent themes

Formatting requirements:
1. Use clear markdown with headers (##, ###)
2. Use **bold** for key terms, methods and important concepts
3. Use bullet points or numbered lists for clarity
4. Keep paragraphs concise and focused
5. Ground every claim in the retrieved content; do not invent results

Be professional and precise. Answer the research question directly before elaborating.`
