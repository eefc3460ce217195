package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"quickshow/internal/shared/utils/response"
	"quickshow/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 64 << 10

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// HandleUserWebhook keeps the local users table in step with the identity provider
func (c *Controller) HandleUserWebhook(ctx *gin.Context) {
	log := logger.GetDefault()

	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxBodyBytes))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to read request body", nil, nil)
		return
	}

	if err := c.service.VerifySignature(body, ctx.Request.Header); err != nil {
		log.LogWebhookRejected(ctx.Request.Context(), "auth", err.Error(), ctx.ClientIP())
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid signature", nil, nil)
		return
	}

	var event UserEvent
	if err := json.Unmarshal(body, &event); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&event); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	if err := c.service.HandleEvent(ctx.Request.Context(), event); err != nil {
		if errors.Is(err, ErrUnknownEvent) {
			response.RespondJSON(ctx, "success", http.StatusOK, "Event ignored", gin.H{"received": true}, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to process event", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Event processed", gin.H{"received": true}, nil)
}
