package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"math_tutor_backend/internal/service"
	"math_tutor_backend/internal/util"
	"math_tutor_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedUploadExtensions = []string{"png", "jpg", "jpeg", "pdf", "txt"}

type TutorController struct {
	Tutor   *service.TutorService
	Storage *service.StorageService
}

func NewTutorController(tutor *service.TutorService, storage *service.StorageService) *TutorController {
	return &TutorController{Tutor: tutor, Storage: storage}
}

// sseSink writes relay events as server-sent-event lines and flushes
// after each one so the client sees fragments as they arrive.
type sseSink struct {
	c *gin.Context
}

func (s *sseSink) write(payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.c.Writer, "data: %s\n\n", data); err != nil {
		return err
	}
	s.c.Writer.Flush()
	return nil
}

func (s *sseSink) WriteChunk(chunk string, done bool) error {
	return s.write(gin.H{"chunk": chunk, "done": done})
}

func (s *sseSink) WriteError(message string) error {
	return s.write(gin.H{"error": message})
}

func setStreamHeaders(ctx *gin.Context) {
	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")
	ctx.Writer.Header().Set("X-Accel-Buffering", "no")
	ctx.Writer.WriteHeader(http.StatusOK)
	ctx.Writer.Flush()
}

// Generate godoc
// @Summary Generate a practice question
// @Tags tutor
// @Accept json
// @Produce json
// @Param body body service.GenerateRequest true "generation parameters"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /generate [post]
func (tc *TutorController) Generate(ctx *gin.Context) {
	var req service.GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Missing grade")
		return
	}

	question, err := tc.Tutor.GenerateQuestion(ctx.Request.Context(), req)
	if err != nil {
		util.LogInternalError(ctx, "Failed to generate question", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"question": question})
}

// Answer godoc
// @Summary Evaluate a submitted answer
// @Tags tutor
// @Accept json
// @Produce json
// @Param body body service.AnswerRequest true "question and answer"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /answer [post]
func (tc *TutorController) Answer(ctx *gin.Context) {
	var req service.AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Missing question or answer")
		return
	}

	feedback, err := tc.Tutor.EvaluateAnswer(ctx.Request.Context(), req)
	if err != nil {
		util.LogInternalError(ctx, "Failed to evaluate answer", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"feedback": feedback})
}

// DirectQuestion godoc
// @Summary Answer a free-form math question
// @Tags tutor
// @Accept json
// @Produce json
// @Param body body service.DirectRequest true "free-form question"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /direct_question [post]
func (tc *TutorController) DirectQuestion(ctx *gin.Context) {
	var req service.DirectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	answer, err := tc.Tutor.AnswerDirect(ctx.Request.Context(), req)
	if err != nil {
		util.LogInternalError(ctx, "Failed to answer question", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"answer": answer})
}

// GenerateStream godoc
// @Summary Generate a practice question as an SSE stream
// @Tags tutor
// @Accept json
// @Produce text/event-stream
// @Param body body service.GenerateRequest true "generation parameters"
// @Security BearerAuth
// @Router /generate_stream [post]
func (tc *TutorController) GenerateStream(ctx *gin.Context) {
	var req service.GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Missing grade")
		return
	}

	streamCtx, cancel := context.WithCancel(ctx.Request.Context())
	defer cancel()

	setStreamHeaders(ctx)
	tc.Tutor.StreamGenerate(streamCtx, req, &sseSink{c: ctx})
}

// AnswerStream godoc
// @Summary Evaluate a submitted answer as an SSE stream
// @Tags tutor
// @Accept json
// @Produce text/event-stream
// @Param body body service.AnswerRequest true "question and answer"
// @Security BearerAuth
// @Router /answer_stream [post]
func (tc *TutorController) AnswerStream(ctx *gin.Context) {
	var req service.AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Missing question or answer")
		return
	}

	streamCtx, cancel := context.WithCancel(ctx.Request.Context())
	defer cancel()

	setStreamHeaders(ctx)
	tc.Tutor.StreamAnswer(streamCtx, req, &sseSink{c: ctx})
}

// DirectQuestionStream godoc
// @Summary Answer a free-form question as an SSE stream
// @Tags tutor
// @Accept json
// @Produce text/event-stream
// @Param body body service.DirectRequest true "free-form question"
// @Security BearerAuth
// @Router /direct_question_stream [post]
func (tc *TutorController) DirectQuestionStream(ctx *gin.Context) {
	var req service.DirectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	streamCtx, cancel := context.WithCancel(ctx.Request.Context())
	defer cancel()

	setStreamHeaders(ctx)
	tc.Tutor.StreamDirect(streamCtx, req, &sseSink{c: ctx})
}

// UploadQuestion godoc
// @Summary Upload a question file
// @Tags tutor
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "question file"
// @Param grade formData string false "grade level"
// @Param subject formData string false "subject"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /upload_question [post]
func (tc *TutorController) UploadQuestion(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "No file part")
		return
	}
	if fileHeader.Filename == "" {
		util.BadRequest(ctx, "No selected file")
		return
	}
	if !util.AllowedExtension(fileHeader.Filename, allowedUploadExtensions) {
		util.BadRequest(ctx, "File type not allowed")
		return
	}

	grade := ctx.DefaultPostForm("grade", "Class 10")
	subject := ctx.DefaultPostForm("subject", "Math")

	f, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, "Failed to read upload", err)
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		util.LogInternalError(ctx, "Failed to read upload", err)
		return
	}

	stored := uuid.New().String() + "_" + util.SanitizeFilename(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	if _, err := tc.Storage.Upload(ctx.Request.Context(), stored, bytes.NewReader(content), int64(len(content)), contentType); err != nil {
		logger.Log.Error("failed to persist upload",
			zap.String("filename", stored), zap.Error(err))
	}

	if util.FileExtension(fileHeader.Filename) == "txt" {
		answer, err := tc.Tutor.AnswerDirect(ctx.Request.Context(), service.DirectRequest{
			Question: string(content),
			Grade:    grade,
			Subject:  subject,
		})
		if err != nil {
			util.LogInternalError(ctx, "Failed to answer question", err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"answer": answer})
		return
	}

	answer := tc.Tutor.AcknowledgeUpload(fileHeader.Filename, grade, subject)
	ctx.JSON(http.StatusOK, gin.H{"answer": answer})
}
