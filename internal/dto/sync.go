package dto

import (
	"time"

	"github.com/sulavtimsina/expense-sync/internal/sync"
)

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResponse struct {
	UserID string `json:"userId"`
}

type OutcomeResponse struct {
	RecordID string    `json:"recordId"`
	Op       string    `json:"op"`
	Status   string    `json:"status"`
	Reason   string    `json:"reason,omitempty"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`
}

func NewOutcomeListResponse(outcomes []sync.Outcome) []OutcomeResponse {
	out := make([]OutcomeResponse, 0, len(outcomes))
	for _, o := range outcomes {
		resp := OutcomeResponse{
			RecordID: o.RecordID,
			Op:       o.Op,
			Status:   string(o.Status),
			Reason:   o.Reason,
			At:       o.At,
		}
		if o.Err != nil {
			resp.Error = o.Err.Error()
		}
		out = append(out, resp)
	}
	return out
}
