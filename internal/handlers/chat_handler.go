package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kapitar/aiatl-micdrop/internal/domains/chat"
	"github.com/Kapitar/aiatl-micdrop/pkg/Logger"
)

type ChatHandler struct {
	chatService chat.Service
	logger      *Logger.Logger
}

func NewChatHandler(chatService chat.Service, logger *Logger.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, logger: logger}
}

// StartConversation opens a feedback-grounded conversation
// @Summary Start a feedback conversation
// @Description Stores the given feedback JSON and returns a conversation id for follow-up questions
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body StartConversationRequest true "Feedback to ground the conversation in"
// @Success 201 {object} StartConversationResponse
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /chat/start [post]
func (h *ChatHandler) StartConversation(c *gin.Context) {
	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	id, err := h.chatService.StartConversation(c.Request.Context(), req.Feedback)
	if err != nil {
		h.logger.Errorf("start conversation error: %v", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid feedback payload", Details: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, StartConversationResponse{ConversationID: id})
}

// SendMessage asks a follow-up question in an existing conversation
// @Summary Send a message in a conversation
// @Description Answers a question grounded in the conversation's stored feedback
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body SendMessageRequest true "Conversation id and question"
// @Success 200 {object} SendMessageResponse
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 404 {object} ErrorResponse "Unknown conversation id"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /chat/message [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	reply, err := h.chatService.SendMessage(c.Request.Context(), req.ConversationID, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Conversation not found"})
			return
		}
		h.logger.Errorf("send message error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Couldn't process message, try later"})
		return
	}

	c.JSON(http.StatusOK, SendMessageResponse{Reply: reply})
}

// RegisterChatRoutes registers the conversation endpoints
func (h *ChatHandler) RegisterChatRoutes(r *gin.RouterGroup) {
	grp := r.Group("/chat")
	{
		grp.POST("/start", h.StartConversation)
		grp.POST("/message", h.SendMessage)
	}
}
