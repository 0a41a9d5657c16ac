package communication

import (
	"fmt"
	"time"

	"deepchess/searcher"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// MaxDuration bounds the search time a request may ask for.
const MaxDuration = time.Hour

// MoveRequest asks an engine for a move. Iterations and Duration (seconds)
// override the engine's budget when set.
type MoveRequest struct {
	FEN        string  `json:"fen"`
	Iterations int     `json:"iterations,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
}

func NewMoveRequest(fen string, budget searcher.Budget) MoveRequest {
	return MoveRequest{
		FEN:        fen,
		Iterations: budget.Iterations,
		Duration:   budget.Duration.Seconds(),
	}
}

// Budget converts the request limits, rejecting negative values and
// durations above MaxDuration.
func (r MoveRequest) Budget() (searcher.Budget, error) {
	if r.Iterations < 0 || r.Duration < 0 || r.Duration > MaxDuration.Seconds() {
		return searcher.Budget{}, fmt.Errorf("%w: budget of %d iterations and %gs", searcher.ErrInvalidConfig, r.Iterations, r.Duration)
	}
	return searcher.Budget{
		Iterations: r.Iterations,
		Duration:   time.Duration(r.Duration * float64(time.Second)),
	}, nil
}

// Stats merges the search statistics with the request timing. Durations are
// in seconds.
type Stats struct {
	SearchTime      float64   `json:"search_time,omitempty"`
	TreeSearchCount int       `json:"tree_search_count,omitempty"`
	NodeVisits      int       `json:"node_visits,omitempty"`
	NodeAvgScore    float64   `json:"node_avg_score,omitempty"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	ElapsedTime     float64   `json:"elapsedTime"`
}

type MoveResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	Move        string `json:"move,omitempty"`
	Board       string `json:"board,omitempty"`
	Input       string `json:"input,omitempty"`
	IsCheckMate bool   `json:"isCheckMate"`
	Stats       Stats  `json:"stats"`
}

func NewStats(search searcher.Stats, start, end time.Time) Stats {
	return Stats{
		SearchTime:      search.Duration.Seconds(),
		TreeSearchCount: search.Iterations,
		NodeVisits:      search.NodeVisits,
		NodeAvgScore:    search.NodeAvgScore,
		StartTime:       start,
		EndTime:         end,
		ElapsedTime:     end.Sub(start).Seconds(),
	}
}

type EnginesResponse struct {
	Engines []string `json:"engines"`
}
