package controller

import (
	"errors"
	"net/http"
	"strconv"

	"math_tutor_backend/internal/model"
	"math_tutor_backend/internal/service"
	"math_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatHistoryController struct {
	ChatHistory *service.ChatHistoryService
}

func NewChatHistoryController(chatHistory *service.ChatHistoryService) *ChatHistoryController {
	return &ChatHistoryController{ChatHistory: chatHistory}
}

type chatHistoryRequest struct {
	Title    string         `json:"title"`
	Messages model.Messages `json:"messages"`
}

func chatID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "Invalid chat id")
		return 0, false
	}
	return uint(id), true
}

// List godoc
// @Summary List the caller's chat histories, newest first
// @Tags chat
// @Produce json
// @Success 200 {array} model.ChatHistory
// @Security BearerAuth
// @Router /chat_history [get]
func (c *ChatHistoryController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "Token is invalid!")
		return
	}

	histories, err := c.ChatHistory.ListForUser(user.ID)
	if err != nil {
		util.LogInternalError(ctx, "Failed to fetch chat history", err)
		return
	}

	ctx.JSON(http.StatusOK, histories)
}

// Create godoc
// @Summary Save a new chat history
// @Tags chat
// @Accept json
// @Produce json
// @Param body body chatHistoryRequest true "title and messages"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /chat_history [post]
func (c *ChatHistoryController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "Token is invalid!")
		return
	}

	var req chatHistoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	id, err := c.ChatHistory.Save(user.ID, req.Title, req.Messages)
	if err != nil {
		util.LogInternalError(ctx, "Failed to save chat history", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"id":      id,
		"message": "Chat history saved successfully",
	})
}

// Get godoc
// @Summary Fetch one chat history owned by the caller
// @Tags chat
// @Produce json
// @Success 200 {object} model.ChatHistory
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /chat_history/{id} [get]
func (c *ChatHistoryController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "Token is invalid!")
		return
	}

	id, ok := chatID(ctx)
	if !ok {
		return
	}

	history, err := c.ChatHistory.Get(id, user.ID)
	if err != nil {
		if errors.Is(err, util.ErrChatNotFound) {
			util.NotFound(ctx, "Chat history not found")
		} else {
			util.LogInternalError(ctx, "Failed to fetch chat history", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, history)
}

// Update godoc
// @Summary Replace the title and messages of an owned chat history
// @Tags chat
// @Accept json
// @Produce json
// @Param body body chatHistoryRequest true "title and messages"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /chat_history/{id} [put]
func (c *ChatHistoryController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "Token is invalid!")
		return
	}

	id, ok := chatID(ctx)
	if !ok {
		return
	}

	var req chatHistoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}
	if req.Title == "" || len(req.Messages) == 0 {
		util.BadRequest(ctx, "Missing title or messages")
		return
	}

	if err := c.ChatHistory.Update(id, user.ID, req.Title, req.Messages); err != nil {
		if errors.Is(err, util.ErrChatNotFound) {
			util.NotFound(ctx, "Chat history not found")
		} else {
			util.LogInternalError(ctx, "Failed to update chat history", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Chat history updated successfully"})
}

// Delete godoc
// @Summary Delete an owned chat history
// @Tags chat
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /chat_history/{id} [delete]
func (c *ChatHistoryController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "Token is invalid!")
		return
	}

	id, ok := chatID(ctx)
	if !ok {
		return
	}

	if err := c.ChatHistory.Delete(id, user.ID); err != nil {
		if errors.Is(err, util.ErrChatNotFound) {
			util.NotFound(ctx, "Chat history not found")
		} else {
			util.LogInternalError(ctx, "Failed to delete chat history", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Chat history deleted successfully"})
}
