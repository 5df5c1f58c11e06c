package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"math_tutor_backend/internal/config"
)

// AIService talks to an OpenAI-compatible chat completions endpoint.
// Each capability has a single-shot variant returning the full text and
// a streaming variant producing ordered fragments on a channel. The
// fragment sequence is single-pass and non-restartable.
type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
	Stream   bool            `json:"stream,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
		Delta   AIChatMessage `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const systemPrompt = "You are a Math Learning Assistant for school students. Be encouraging and supportive, and keep explanations appropriate for the student's grade level."

func difficultyText(difficulty int) string {
	switch difficulty {
	case 1:
		return "easy"
	case 2:
		return "medium"
	default:
		return "hard"
	}
}

func questionPrompt(grade, subject, topic string, difficulty int) string {
	diff := difficultyText(difficulty)
	if topic != "" {
		return fmt.Sprintf(`Generate a Class %s level %s question about %s.

The question should be %s difficulty for this grade. Don't give the answer yet, just the question.

The question should be clearly mathematical in nature and suitable for educational practice.`, grade, subject, topic, diff)
	}
	return fmt.Sprintf(`Generate a Class %s level %s question.

The question should be %s difficulty for this grade. Don't give the answer yet, just the question.

The question should be clearly mathematical in nature and suitable for educational practice.`, grade, subject, diff)
}

func evaluationPrompt(question, userAnswer string) string {
	return fmt.Sprintf(`Here is the question: "%s"
The student answered: "%s"

Evaluate the answer using this format:
- Start with "Correct!" or "Incorrect."
- If incorrect, say "That's okay, let's work through it step by step."
- Break your explanation into clear paragraphs with line breaks
- Use step-by-step format with proper spacing
- End with a clear summary using ✅ symbol
- Be encouraging and supportive

Format your response with proper line breaks between paragraphs, not as one long block of text.`, question, userAnswer)
}

func directPrompt(question, grade, subject, topic string) string {
	context := fmt.Sprintf("You are a Math Learning Assistant helping a Class %s student with %s", grade, subject)
	if topic != "" {
		context += fmt.Sprintf(" specifically about %s", topic)
	}

	return fmt.Sprintf(`%s.

The student asks: "%s"

IMPORTANT: You are ONLY a Math Learning Assistant. Follow these rules STRICTLY:

1. FIRST, check if the question is a proper mathematics question. A math question should ask about mathematical concepts, formulas, or calculations and be a complete, meaningful question about math.

2. If the input is NOT a proper math question (random text, single letters, non-math topics, personal questions, general chat), respond EXACTLY with:

"%s"

3. If it IS a math question, provide a clear, step-by-step explanation:
- Break your response into clear paragraphs with line breaks
- Use step-by-step approach with proper spacing between steps
- If it's a calculation, show each step on a new line
- End with a clear summary using ✅ symbol
- Keep explanations appropriate for their grade level

Format your response with proper line breaks between paragraphs, not as one long block of text.`, context, question, RedirectionMessage)
}

func (s *AIService) GenerateQuestion(ctx context.Context, grade, subject, topic string, difficulty int) (string, error) {
	return s.chat(ctx, questionPrompt(grade, subject, topic, difficulty))
}

func (s *AIService) EvaluateAnswer(ctx context.Context, question, userAnswer string) (string, error) {
	return s.chat(ctx, evaluationPrompt(question, userAnswer))
}

func (s *AIService) AnswerDirect(ctx context.Context, question, grade, subject, topic string) (string, error) {
	return s.chat(ctx, directPrompt(question, grade, subject, topic))
}

func (s *AIService) GenerateQuestionStream(ctx context.Context, grade, subject, topic string, difficulty int) (<-chan string, <-chan error) {
	return s.chatStream(ctx, questionPrompt(grade, subject, topic, difficulty))
}

func (s *AIService) EvaluateAnswerStream(ctx context.Context, question, userAnswer string) (<-chan string, <-chan error) {
	return s.chatStream(ctx, evaluationPrompt(question, userAnswer))
}

func (s *AIService) AnswerDirectStream(ctx context.Context, question, grade, subject, topic string) (<-chan string, <-chan error) {
	return s.chatStream(ctx, directPrompt(question, grade, subject, topic))
}

func (s *AIService) newRequest(ctx context.Context, body chatCompletionRequest) (*http.Request, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	return req, nil
}

func (s *AIService) chat(ctx context.Context, prompt string) (string, error) {
	req, err := s.newRequest(ctx, chatCompletionRequest{
		Model: s.config.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}

// chatStream issues a streaming completion request and forwards each
// delta on the returned channel, in arrival order. The error channel
// is buffered so the producer never blocks on it; both channels are
// closed when the upstream stream ends. Cancelling ctx aborts the
// request and ends the goroutine.
func (s *AIService) chatStream(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	out := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errChan)

		req, err := s.newRequest(ctx, chatCompletionRequest{
			Model: s.config.Model,
			Messages: []AIChatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: prompt},
			},
			Stream: true,
		})
		if err != nil {
			errChan <- err
			return
		}

		resp, err := s.client.Do(req)
		if err != nil {
			errChan <- err
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			errChan <- fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
			return
		}

		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					errChan <- err
				}
				return
			}

			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data: ") {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				return
			}

			var streamResp chatCompletionResponse
			if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
				continue
			}

			if len(streamResp.Choices) > 0 {
				content := streamResp.Choices[0].Delta.Content
				if content != "" {
					select {
					case out <- content:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out, errChan
}
