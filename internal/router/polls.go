package router

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/newsify/newsify/internal/apperr"
	"github.com/newsify/newsify/internal/storage"
)

type PollsRouter struct {
	e     *echo.Echo
	polls storage.PollStore
}

func NewPollsRouter(e *echo.Echo, polls storage.PollStore) *PollsRouter {
	return &PollsRouter{e: e, polls: polls}
}

func (r *PollsRouter) Bind() {
	r.e.GET("/api/polls", r.listHandler)
	r.e.POST("/api/polls/vote", r.voteHandler)
}

type pollOptionView struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	Votes      int       `json:"votes"`
	Percentage float64   `json:"percentage"`
}

type pollView struct {
	ID       uuid.UUID        `json:"id"`
	Question string           `json:"question"`
	Options  []pollOptionView `json:"options"`
}

func (r *PollsRouter) listHandler(c echo.Context) error {
	polls, err := r.polls.ListActive(c.Request().Context())
	if err != nil {
		return err
	}

	views := make([]pollView, 0, len(polls))
	for _, p := range polls {
		total := p.TotalVotes()
		options := make([]pollOptionView, 0, len(p.Options))
		for i := range p.Options {
			o := &p.Options[i]
			options = append(options, pollOptionView{
				ID:         o.ID,
				Text:       o.Text,
				Votes:      o.Votes,
				Percentage: o.Percentage(total),
			})
		}
		views = append(views, pollView{ID: p.ID, Question: p.Question, Options: options})
	}
	return c.JSON(http.StatusOK, map[string]any{"polls": views})
}

type pollVoteRequest struct {
	OptionID string `json:"option_id"`
}

func (r *PollsRouter) voteHandler(c echo.Context) error {
	var req pollVoteRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	optionID, err := uuid.Parse(req.OptionID)
	if err != nil {
		return apperr.NewValidationWrap("invalid option_id", err)
	}

	option, total, err := r.polls.VoteOption(c.Request().Context(), optionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NewNotFound("poll option")
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":     "success",
		"votes":      option.Votes,
		"percentage": option.Percentage(total),
	})
}
