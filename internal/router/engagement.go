package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/newsify/newsify/internal/apperr"
	"github.com/newsify/newsify/internal/domain"
	"github.com/newsify/newsify/internal/engage"
	"github.com/newsify/newsify/internal/session"
	"github.com/newsify/newsify/internal/storage"
)

const maxCommentLen = 1000

type EngagementRouter struct {
	e   *echo.Echo
	svc *engage.Service
}

func NewEngagementRouter(e *echo.Echo, svc *engage.Service) *EngagementRouter {
	return &EngagementRouter{e: e, svc: svc}
}

func (r *EngagementRouter) Bind() {
	r.e.POST("/api/vote", r.voteHandler)
	r.e.POST("/api/comment", r.commentHandler)
	r.e.POST("/api/session/merge", r.mergeHandler)
}

type voteRequest struct {
	ArticleID string `json:"article_id"`
	VoteType  string `json:"vote_type"`
}

func (r *EngagementRouter) voteHandler(c echo.Context) error {
	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	articleID, err := uuid.Parse(req.ArticleID)
	if err != nil {
		return apperr.NewValidationWrap("invalid article_id", err)
	}
	kind, ok := domain.ParseVoteKind(req.VoteType)
	if !ok {
		return apperr.NewValidation("vote_type must be 'up' or 'down'")
	}

	result, err := r.svc.Vote(c.Request().Context(), session.ID(c), session.UserID(c), articleID, kind)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NewNotFound("article")
		}
		return err
	}

	var userVote *string
	if result.UserVote != nil {
		s := string(*result.UserVote)
		userVote = &s
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "success",
		"action":    result.Action,
		"upvotes":   result.Upvotes,
		"downvotes": result.Downvotes,
		"user_vote": userVote,
	})
}

type commentRequest struct {
	ArticleID  string `json:"article_id"`
	Comment    string `json:"comment"`
	AuthorName string `json:"author_name"`
}

func (r *EngagementRouter) commentHandler(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	articleID, err := uuid.Parse(req.ArticleID)
	if err != nil {
		return apperr.NewValidationWrap("invalid article_id", err)
	}

	text := strings.TrimSpace(req.Comment)
	if text == "" {
		return apperr.NewValidation("comment must not be empty")
	}
	if len(text) > maxCommentLen {
		return apperr.NewValidation("comment too long")
	}

	comment, err := r.svc.Comment(c.Request().Context(), session.ID(c), session.UserID(c), articleID, strings.TrimSpace(req.AuthorName), text)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NewNotFound("article")
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": "success",
		"comment": map[string]string{
			"author":     comment.Author,
			"text":       comment.Text,
			"created_at": comment.CreatedAt.Format("2006-01-02 15:04"),
		},
	})
}

func (r *EngagementRouter) mergeHandler(c echo.Context) error {
	userID := session.UserID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	merged, err := r.svc.MergeSessionIntoProfile(c.Request().Context(), session.ID(c), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "success",
		"preferences": merged,
	})
}
