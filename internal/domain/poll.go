package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/newsify/newsify/pkg/utils"
)

type Poll struct {
	ID        uuid.UUID    `json:"id"`
	Question  string       `json:"question"`
	Active    bool         `json:"is_active"`
	CreatedAt time.Time    `json:"created_at"`
	Options   []PollOption `json:"options"`
}

// PollOption carries a monotonically increasing vote counter.
// Percentages are always derived from current totals, never stored.
type PollOption struct {
	ID     uuid.UUID `json:"id"`
	PollID uuid.UUID `json:"-"`
	Text   string    `json:"text"`
	Votes  int       `json:"votes"`
}

func (p *Poll) TotalVotes() int {
	total := 0
	for _, o := range p.Options {
		total += o.Votes
	}
	return total
}

// Percentage computes this option's share of total votes, rounded to
// one decimal place. Zero totals yield 0 rather than dividing.
func (o *PollOption) Percentage(totalVotes int) float64 {
	if totalVotes <= 0 {
		return 0
	}
	return utils.RoundDecimal(float64(o.Votes)/float64(totalVotes)*100, 1)
}
