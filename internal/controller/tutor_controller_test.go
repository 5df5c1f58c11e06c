package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"math_tutor_backend/internal/config"
	"math_tutor_backend/internal/model"
	"math_tutor_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	chunks []string
}

func (f *stubGenerator) full() string { return strings.Join(f.chunks, "") }

func (f *stubGenerator) GenerateQuestion(ctx context.Context, grade, subject, topic string, difficulty int) (string, error) {
	return f.full(), nil
}

func (f *stubGenerator) EvaluateAnswer(ctx context.Context, question, userAnswer string) (string, error) {
	return f.full(), nil
}

func (f *stubGenerator) AnswerDirect(ctx context.Context, question, grade, subject, topic string) (string, error) {
	return f.full(), nil
}

func (f *stubGenerator) stream() (<-chan string, <-chan error) {
	out := make(chan string, len(f.chunks))
	errChan := make(chan error, 1)
	for _, c := range f.chunks {
		out <- c
	}
	close(out)
	close(errChan)
	return out, errChan
}

func (f *stubGenerator) GenerateQuestionStream(ctx context.Context, grade, subject, topic string, difficulty int) (<-chan string, <-chan error) {
	return f.stream()
}

func (f *stubGenerator) EvaluateAnswerStream(ctx context.Context, question, userAnswer string) (<-chan string, <-chan error) {
	return f.stream()
}

func (f *stubGenerator) AnswerDirectStream(ctx context.Context, question, grade, subject, topic string) (<-chan string, <-chan error) {
	return f.stream()
}

type stubStore struct {
	records []model.Interaction
}

func (s *stubStore) Create(in *model.Interaction) error {
	s.records = append(s.records, *in)
	return nil
}

func newTestRouter(t *testing.T, gen service.Generator, store *stubStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()

	tutor := service.NewTutorService(gen, store, 0)
	storage := service.NewStorageService(cfg)
	tc := NewTutorController(tutor, storage)

	router := gin.New()
	router.POST("/generate", tc.Generate)
	router.POST("/direct_question", tc.DirectQuestion)
	router.POST("/generate_stream", tc.GenerateStream)
	router.POST("/direct_question_stream", tc.DirectQuestionStream)
	router.POST("/upload_question", tc.UploadQuestion)
	return router
}

type sseEvent struct {
	Chunk *string `json:"chunk"`
	Done  *bool   `json:"done"`
	Error *string `json:"error"`
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev sseEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		events = append(events, ev)
	}
	return events
}

func TestGenerateStreamWireFormat(t *testing.T) {
	gen := &stubGenerator{chunks: []string{"What is ", "9×9?"}}
	store := &stubStore{}
	router := newTestRouter(t, gen, store)

	body := `{"grade":"4","topic":"multiplication"}`
	req := httptest.NewRequest(http.MethodPost, "/generate_stream", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	events := parseSSE(t, w.Body.String())
	require.Len(t, events, 3)
	assert.Equal(t, "What is ", *events[0].Chunk)
	assert.False(t, *events[0].Done)
	assert.Equal(t, "9×9?", *events[1].Chunk)
	assert.Equal(t, "", *events[2].Chunk)
	assert.True(t, *events[2].Done)

	require.Len(t, store.records, 1)
	assert.Equal(t, "What is 9×9?", store.records[0].Question)
}

func TestDirectQuestionStreamGuard(t *testing.T) {
	gen := &stubGenerator{chunks: []string{"model output"}}
	store := &stubStore{}
	router := newTestRouter(t, gen, store)

	req := httptest.NewRequest(http.MethodPost, "/direct_question_stream", strings.NewReader(`{"question":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	events := parseSSE(t, w.Body.String())
	require.Len(t, events, 2)
	assert.Equal(t, service.RedirectionMessage, *events[0].Chunk)
	assert.True(t, *events[1].Done)
}

func TestDirectQuestionEmptyGetsRedirection(t *testing.T) {
	gen := &stubGenerator{chunks: []string{"model output"}}
	store := &stubStore{}
	router := newTestRouter(t, gen, store)

	for _, body := range []string{`{"question":"","grade":"5"}`, `{"grade":"5"}`} {
		req := httptest.NewRequest(http.MethodPost, "/direct_question", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, service.RedirectionMessage, resp["answer"])
	}
}

func TestDirectQuestionStreamEmptyGetsRedirection(t *testing.T) {
	gen := &stubGenerator{chunks: []string{"model output"}}
	store := &stubStore{}
	router := newTestRouter(t, gen, store)

	req := httptest.NewRequest(http.MethodPost, "/direct_question_stream", strings.NewReader(`{"question":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	events := parseSSE(t, w.Body.String())
	require.Len(t, events, 2)
	assert.Equal(t, service.RedirectionMessage, *events[0].Chunk)
	assert.True(t, *events[1].Done)
}

func TestGenerateMissingGrade(t *testing.T) {
	router := newTestRouter(t, &stubGenerator{}, &stubStore{})

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDirectQuestionSingleShot(t *testing.T) {
	gen := &stubGenerator{chunks: []string{"2+2 equals 4."}}
	store := &stubStore{}
	router := newTestRouter(t, gen, store)

	req := httptest.NewRequest(http.MethodPost, "/direct_question", strings.NewReader(`{"question":"what is 2+2","grade":"3"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2+2 equals 4.", resp["answer"])
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("grade", "Class 8"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload_question", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadTxtAnswersContent(t *testing.T) {
	gen := &stubGenerator{chunks: []string{"x equals 4"}}
	store := &stubStore{}
	router := newTestRouter(t, gen, store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "question.txt", "solve 3x = 12"))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "x equals 4", resp["answer"])

	require.Len(t, store.records, 1)
	assert.Equal(t, "solve 3x = 12", store.records[0].Question)
}

func TestUploadImageGetsPlaceholder(t *testing.T) {
	store := &stubStore{}
	router := newTestRouter(t, &stubGenerator{}, store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "diagram.png", "binarybytes"))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, service.UploadPlaceholderMessage, resp["answer"])
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	router := newTestRouter(t, &stubGenerator{}, &stubStore{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "malware.exe", "MZ"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "File type not allowed", resp["message"])
}
