package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/audit"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service           *shortener.Service
	baseURL           string
	publishLinkCreate messaging.Publish[audit.LinkCreatedEvent]
	logger            *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	service *shortener.Service,
	baseURL string,
	publishLinkCreated messaging.Publish[audit.LinkCreatedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		service:           service,
		baseURL:           strings.TrimRight(baseURL, "/"),
		publishLinkCreate: publishLinkCreated,
		logger:            logger,
	}
}

func (h *URLHandler) ShortenURL(ctx context.Context, req *ShortenRequest) (*LinkResponse, error) {
	in := shortener.ShortenInput{
		LongURL:     strings.TrimSpace(req.Body.LongURL),
		CustomAlias: req.Body.CustomAlias,
		Strategy:    req.Body.Strategy,
	}

	link, created, err := h.service.Create(ctx, in)
	if err != nil {
		return nil, h.toHTTPError("shorten", err)
	}

	if created {
		h.publishCreated(ctx, link, h.service.StrategyFor(in))
	}

	return h.linkResponse(link), nil
}

func (h *URLHandler) publishCreated(ctx context.Context, link *shortener.ShortLink, strategy shortener.StrategyName) {
	meta := RequestMetaFromContext(ctx)
	event := &audit.LinkCreatedEvent{
		ShortID:   string(link.Code),
		LongURL:   link.LongURL,
		Strategy:  string(strategy),
		Custom:    link.Custom,
		CreatedAt: link.CreatedAt,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	if err := h.publishLinkCreate(ctx, event); err != nil {
		h.logger.Error("failed to publish audit event",
			zap.String("shortId", event.ShortID),
			zap.Error(err),
		)
	}
}

func (h *URLHandler) RetrieveURL(ctx context.Context, req *RetrieveRequest) (*LinkResponse, error) {
	link, err := h.service.Retrieve(ctx, strings.TrimSpace(req.Body.ShortID))
	if err != nil {
		return nil, h.toHTTPError("retrieve", err)
	}

	return h.linkResponse(link), nil
}

func (h *URLHandler) CheckAlias(ctx context.Context, req *AliasRequest) (*AliasResponse, error) {
	available, err := h.service.Available(ctx, req.Alias)
	if err != nil {
		return nil, h.toHTTPError("check alias", err)
	}

	resp := &AliasResponse{}
	resp.Body.Alias = req.Alias
	resp.Body.Available = available

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	link, err := h.service.Retrieve(ctx, req.Code)
	if err != nil {
		return nil, h.toHTTPError("redirect", err)
	}

	return &RedirectResponse{
		Status:   http.StatusTemporaryRedirect,
		Location: link.LongURL,
	}, nil
}

func (h *URLHandler) linkResponse(link *shortener.ShortLink) *LinkResponse {
	resp := &LinkResponse{}
	resp.Body.ShortID = string(link.Code)
	resp.Body.LongURL = link.LongURL
	resp.Body.ShortURL = fmt.Sprintf("%s/%s", h.baseURL, link.Code)
	resp.Body.DateCreated = link.CreatedAt

	return resp
}

// toHTTPError maps service errors to client-visible problem responses.
func (h *URLHandler) toHTTPError(op string, err error) error {
	switch {
	case errors.Is(err, shortener.ErrInvalidURL),
		errors.Is(err, shortener.ErrInvalidAlias),
		errors.Is(err, shortener.ErrInvalidStrategy):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, shortener.ErrAliasTaken):
		return huma.Error409Conflict("alias already taken")
	case errors.Is(err, shortener.ErrGenerationExhausted):
		h.logger.Warn("short code space congested", zap.String("op", op), zap.Error(err))

		return huma.Error409Conflict("could not allocate a short id, try again")
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound("short url not found")
	default:
		h.logger.Error("request failed", zap.String("op", op), zap.Error(err))

		return huma.Error500InternalServerError("internal error")
	}
}
