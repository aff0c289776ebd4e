package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cisnr-assistant/internal/domain"
)

// FallbackAnswer is the single user-facing message returned whenever
// any pipeline stage fails. The failure cause stays in the logs only.
const FallbackAnswer = `I apologize, but I'm currently experiencing technical difficulties.
Please try your question again later. For immediate assistance,
contact the CISNR directorate at cisnr@uetpeshawar.edu.pk.`

// AnswerInput carries one question and the optional caller context.
type AnswerInput struct {
	Question string
	User     *domain.UserContext
}

// AnswerOutput is the normalized answer returned to API clients.
// Fallback marks answers produced by the failure path; callers that
// only need the text can ignore it.
type AnswerOutput struct {
	Answer   string
	Fallback bool
}

// AnswerUsecase generates a grounded answer for a question. Execute
// never fails past its own boundary: every stage error is converted
// into the fixed fallback answer.
type AnswerUsecase interface {
	Execute(ctx context.Context, input AnswerInput) *AnswerOutput
}

// Timeouts bound each external provider call. A zero value disables
// the bound for that stage.
type Timeouts struct {
	Embed    time.Duration
	Search   time.Duration
	Generate time.Duration
}

type answerUsecase struct {
	embedder      domain.Embedder
	index         domain.VectorIndex
	promptBuilder PromptBuilder
	generator     domain.Generator
	topK          int
	temperature   float64
	maxTokens     int
	timeouts      Timeouts
	logger        *slog.Logger
}

// NewAnswerUsecase wires the three provider clients and the prompt
// builder into the answer pipeline.
func NewAnswerUsecase(
	embedder domain.Embedder,
	index domain.VectorIndex,
	promptBuilder PromptBuilder,
	generator domain.Generator,
	topK int,
	temperature float64,
	maxTokens int,
	timeouts Timeouts,
	logger *slog.Logger,
) AnswerUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &answerUsecase{
		embedder:      embedder,
		index:         index,
		promptBuilder: promptBuilder,
		generator:     generator,
		topK:          topK,
		temperature:   temperature,
		maxTokens:     maxTokens,
		timeouts:      timeouts,
		logger:        logger,
	}
}

// ApplyUserContext produces the enhanced question text. The same
// single string feeds both the retrieval query and the prompt's
// question slot; a role prefix therefore becomes part of what is
// embedded and searched. Known quirk, preserved on purpose.
func ApplyUserContext(question string, user *domain.UserContext) string {
	if user == nil {
		return question
	}
	role := user.Role
	if role == "" {
		role = domain.DefaultRole
	}
	return fmt.Sprintf("[User: %s] %s", role, question)
}

// Execute runs embed -> search -> format -> render -> generate. The
// stages are strictly sequential: each output feeds the next. No
// retries; a single failed call yields the fallback answer.
func (u *answerUsecase) Execute(ctx context.Context, input AnswerInput) *AnswerOutput {
	question := strings.TrimSpace(input.Question)
	enhanced := ApplyUserContext(question, input.User)

	vector, err := u.embed(ctx, enhanced)
	if err != nil {
		return u.fallback(question, domain.NewStageError(domain.StageEmbedding, err))
	}

	docs, err := u.search(ctx, vector)
	if err != nil {
		return u.fallback(question, domain.NewStageError(domain.StageSearch, err))
	}

	contextText, err := FormatDocuments(docs)
	if err != nil {
		return u.fallback(question, domain.NewStageError(domain.StageFormatting, err))
	}

	prompt := u.promptBuilder.Render(contextText, enhanced)

	answer, err := u.generate(ctx, prompt)
	if err != nil {
		return u.fallback(question, domain.NewStageError(domain.StageGeneration, err))
	}

	u.logger.Info("answer_generated",
		slog.Int("context_count", len(docs)),
		slog.Int("answer_length", len(answer)))

	return &AnswerOutput{Answer: answer}
}

func (u *answerUsecase) embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := withTimeout(ctx, u.timeouts.Embed)
	defer cancel()
	return u.embedder.Embed(ctx, text)
}

func (u *answerUsecase) search(ctx context.Context, vector []float32) ([]domain.Document, error) {
	ctx, cancel := withTimeout(ctx, u.timeouts.Search)
	defer cancel()
	return u.index.Search(ctx, vector, u.topK, true)
}

func (u *answerUsecase) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, u.timeouts.Generate)
	defer cancel()
	return u.generator.Generate(ctx, prompt, u.temperature, u.maxTokens)
}

func (u *answerUsecase) fallback(question string, stageErr *domain.StageError) *AnswerOutput {
	u.logger.Error("answer_pipeline_failed",
		slog.String("stage", string(stageErr.Stage)),
		slog.String("question", question),
		slog.String("error", stageErr.Err.Error()))
	return &AnswerOutput{Answer: FallbackAnswer, Fallback: true}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
