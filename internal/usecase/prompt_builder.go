package usecase

import "strings"

// answerPromptTemplate is the fixed persona and refusal-policy prompt.
// The instruction block is a behavioral contract for the hosted model;
// the pipeline only verifies the rendered text, never the model's
// compliance. The wording is load-bearing for downstream consumers and
// must not be edited casually.
const answerPromptTemplate = `
You are an AI assistant representing CISNR (Centre of Intelligent System & Network Research) at UET Peshawar.
Your role is to provide information about CISNR's work and mission based ONLY on the provided context.

IMPORTANT INSTRUCTIONS:
1. When asked about yourself, respond as a representative of CISNR
2. Never mention that you are a language model or AI assistant from Google
3. Only use information from the provided context below
4. If the question is not related to CISNR, politely decline to answer
5. For irrelevant questions, use this exact response structure:
   - Politely acknowledge you can't answer
   - State that you specialize in CISNR-related topics
   - Suggest asking about CISNR's work instead
6. Keep responses professional, informative, and concise (3-5 sentences)
7. Use proper formatting with line breaks for readability

Context about CISNR:
{context}

Question: {question}

Answer in a clear, professional manner:
`

// PromptBuilder renders the final prompt sent to the generator.
type PromptBuilder interface {
	Render(contextText, question string) string
}

// CISNRPromptBuilder substitutes the context and question slots of the
// fixed template. Pure and deterministic: identical inputs always
// produce byte-identical prompts. No truncation is applied; an
// over-long prompt is surfaced as a generation failure.
type CISNRPromptBuilder struct{}

func NewCISNRPromptBuilder() PromptBuilder {
	return &CISNRPromptBuilder{}
}

func (b *CISNRPromptBuilder) Render(contextText, question string) string {
	return strings.NewReplacer(
		"{context}", contextText,
		"{question}", question,
	).Replace(answerPromptTemplate)
}
