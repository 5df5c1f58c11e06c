package service

import (
	"context"
	"strings"
	"time"
	"unicode"

	"math_tutor_backend/internal/model"
	"math_tutor_backend/pkg/logger"
	"math_tutor_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// RedirectionMessage is the canned reply returned instead of calling
// the model when the input is trivially non-mathematical.
const RedirectionMessage = `Sorry Sir, this is not a math question. I am available here to provide math evaluation. Would you like to ask a math question?

Here's how we can proceed:
• I can generate practice questions for your grade level
• I can help solve math problems step-by-step
• I can explain math concepts and formulas
• I can evaluate your answers and provide feedback

What math topic would you like to explore? (Algebra, Geometry, Calculus, Statistics, Arithmetic)`

var fillerInputs = map[string]bool{
	"hi": true, "hello": true, "hey": true, "ui": true,
	"aap": true, "ok": true, "yes": true, "no": true,
}

// IsNonMathInput reports whether a direct question is so obviously not
// math that the model should not be called at all: very short input, a
// known greeting/filler token, or text without a single letter.
func IsNonMathInput(question string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(question))
	if len([]rune(cleaned)) <= 3 {
		return true
	}
	if fillerInputs[cleaned] {
		return true
	}
	for _, r := range cleaned {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Generator is the upstream model client as the relay sees it. Each
// streaming call yields a single-pass, non-restartable fragment
// sequence plus a one-shot error channel; both close when the producer
// is done.
type Generator interface {
	GenerateQuestion(ctx context.Context, grade, subject, topic string, difficulty int) (string, error)
	EvaluateAnswer(ctx context.Context, question, userAnswer string) (string, error)
	AnswerDirect(ctx context.Context, question, grade, subject, topic string) (string, error)
	GenerateQuestionStream(ctx context.Context, grade, subject, topic string, difficulty int) (<-chan string, <-chan error)
	EvaluateAnswerStream(ctx context.Context, question, userAnswer string) (<-chan string, <-chan error)
	AnswerDirectStream(ctx context.Context, question, grade, subject, topic string) (<-chan string, <-chan error)
}

// InteractionStore is the audit sink; writes are best-effort.
type InteractionStore interface {
	Create(in *model.Interaction) error
}

// StreamSink delivers relay events to one HTTP client. Implementations
// must return a non-nil error once the client can no longer be written
// to, so the relay can stop the producer.
type StreamSink interface {
	WriteChunk(chunk string, done bool) error
	WriteError(message string) error
}

type GenerateRequest struct {
	Grade      string `json:"grade" binding:"required"`
	Subject    string `json:"subject"`
	Topic      string `json:"topic"`
	Difficulty int    `json:"difficultyLevel"`
}

type AnswerRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	Grade    string `json:"grade"`
	Subject  string `json:"subject"`
	Topic    string `json:"topic"`
}

// DirectRequest deliberately does not require the question field: an
// empty or missing question falls through to the non-math guard, which
// answers with the redirection message instead of a validation error.
type DirectRequest struct {
	Question string `json:"question"`
	Grade    string `json:"grade"`
	Subject  string `json:"subject"`
	Topic    string `json:"topic"`
}

// TutorService orchestrates the model client for the three tutoring
// modes and owns the streaming relay loop.
type TutorService struct {
	ai           Generator
	interactions InteractionStore
	// streamDelay paces chunk delivery for a typing effect. It is a
	// presentation policy only; zero disables it.
	streamDelay time.Duration
}

func NewTutorService(ai Generator, interactions InteractionStore, streamDelay time.Duration) *TutorService {
	return &TutorService{
		ai:           ai,
		interactions: interactions,
		streamDelay:  streamDelay,
	}
}

func (s *TutorService) normalize(subject string) string {
	if subject == "" {
		return "Math"
	}
	return subject
}

// logInteraction is deliberately best-effort: audit logging must never
// fail a user-facing operation.
func (s *TutorService) logInteraction(in *model.Interaction) {
	if err := s.interactions.Create(in); err != nil {
		logger.Log.Error("failed to log interaction", zap.Error(err))
	}
}

func (s *TutorService) GenerateQuestion(ctx context.Context, req GenerateRequest) (string, error) {
	question, err := s.ai.GenerateQuestion(ctx, req.Grade, s.normalize(req.Subject), req.Topic, req.Difficulty)
	if err != nil {
		return "", err
	}

	s.logInteraction(&model.Interaction{
		Grade:    req.Grade,
		Subject:  s.normalize(req.Subject),
		Topic:    req.Topic,
		Question: question,
	})

	return question, nil
}

func (s *TutorService) EvaluateAnswer(ctx context.Context, req AnswerRequest) (string, error) {
	feedback, err := s.ai.EvaluateAnswer(ctx, req.Question, req.Answer)
	if err != nil {
		return "", err
	}

	s.logInteraction(&model.Interaction{
		Grade:    req.Grade,
		Subject:  s.normalize(req.Subject),
		Topic:    req.Topic,
		Question: req.Question,
		Answer:   req.Answer,
		Feedback: feedback,
	})

	return feedback, nil
}

func (s *TutorService) AnswerDirect(ctx context.Context, req DirectRequest) (string, error) {
	var answer string
	if IsNonMathInput(req.Question) {
		answer = RedirectionMessage
	} else {
		var err error
		answer, err = s.ai.AnswerDirect(ctx, req.Question, req.Grade, s.normalize(req.Subject), req.Topic)
		if err != nil {
			return "", err
		}
	}

	s.logInteraction(&model.Interaction{
		Grade:    req.Grade,
		Subject:  s.normalize(req.Subject),
		Topic:    req.Topic,
		Question: req.Question,
		Feedback: answer,
	})

	return answer, nil
}

// UploadPlaceholderMessage acknowledges image/PDF uploads until OCR
// support lands.
const UploadPlaceholderMessage = "File received. Support for image and PDF questions is coming soon!"

// AcknowledgeUpload records a non-text upload without calling the model.
func (s *TutorService) AcknowledgeUpload(filename, grade, subject string) string {
	s.logInteraction(&model.Interaction{
		Grade:    grade,
		Subject:  s.normalize(subject),
		Question: "Uploaded file: " + filename,
		Feedback: UploadPlaceholderMessage,
	})
	return UploadPlaceholderMessage
}

func (s *TutorService) StreamGenerate(ctx context.Context, req GenerateRequest, sink StreamSink) {
	stream, errChan := s.ai.GenerateQuestionStream(ctx, req.Grade, s.normalize(req.Subject), req.Topic, req.Difficulty)
	s.relay(ctx, "generate", stream, errChan, sink, func(full string) *model.Interaction {
		return &model.Interaction{
			Grade:    req.Grade,
			Subject:  s.normalize(req.Subject),
			Topic:    req.Topic,
			Question: full,
		}
	})
}

func (s *TutorService) StreamAnswer(ctx context.Context, req AnswerRequest, sink StreamSink) {
	stream, errChan := s.ai.EvaluateAnswerStream(ctx, req.Question, req.Answer)
	s.relay(ctx, "answer", stream, errChan, sink, func(full string) *model.Interaction {
		return &model.Interaction{
			Grade:    req.Grade,
			Subject:  s.normalize(req.Subject),
			Topic:    req.Topic,
			Question: req.Question,
			Answer:   req.Answer,
			Feedback: full,
		}
	})
}

func (s *TutorService) StreamDirect(ctx context.Context, req DirectRequest, sink StreamSink) {
	var stream <-chan string
	var errChan <-chan error

	if IsNonMathInput(req.Question) {
		// Guard fast path: the redirection message becomes the entire
		// fragment sequence and the model is never called.
		ch := make(chan string, 1)
		ch <- RedirectionMessage
		close(ch)
		ec := make(chan error)
		close(ec)
		stream, errChan = ch, ec
	} else {
		stream, errChan = s.ai.AnswerDirectStream(ctx, req.Question, req.Grade, s.normalize(req.Subject), req.Topic)
	}

	s.relay(ctx, "direct", stream, errChan, sink, func(full string) *model.Interaction {
		return &model.Interaction{
			Grade:    req.Grade,
			Subject:  s.normalize(req.Subject),
			Topic:    req.Topic,
			Question: req.Question,
			Feedback: full,
		}
	})
}

// relay forwards fragments to the sink in production order while
// accumulating the full text. On clean exhaustion it emits the done
// event and then writes the audit row (failures swallowed); on
// producer failure it emits one error event and writes nothing. A sink
// write failure means the client is gone: the relay stops consuming
// and relies on ctx cancellation to shut the producer down.
func (s *TutorService) relay(ctx context.Context, mode string, stream <-chan string, errChan <-chan error, sink StreamSink, record func(full string) *model.Interaction) {
	var full strings.Builder

	for chunk := range stream {
		full.WriteString(chunk)

		if err := sink.WriteChunk(chunk, false); err != nil {
			logger.Log.Warn("client went away mid-stream",
				zap.String("mode", mode),
				zap.Int("accumulated", full.Len()),
				zap.Error(err))
			return
		}
		monitoring.StreamChunks.WithLabelValues(mode).Inc()

		if s.streamDelay > 0 {
			select {
			case <-time.After(s.streamDelay):
			case <-ctx.Done():
				return
			}
		}
	}

	if err := <-errChan; err != nil {
		logger.Log.Error("upstream generation failed",
			zap.String("mode", mode),
			zap.Int("accumulated", full.Len()),
			zap.Error(err))
		sink.WriteError(err.Error())
		return
	}

	if err := sink.WriteChunk("", true); err != nil {
		logger.Log.Warn("client went away before completion event",
			zap.String("mode", mode), zap.Error(err))
		return
	}

	s.logInteraction(record(full.String()))
}
