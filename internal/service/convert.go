package service

import (
	"sort"
	"time"

	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/calculator"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/models"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/internal/money"
	"github.com/MuscleMarker/PrimeWraps-Website-Public/pkg/api"
)

func userToAPI(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func expenseToAPI(e *models.SharedExpense) *api.Expense {
	split := e.SplitParticipants
	if split == nil {
		split = []string{}
	}
	return &api.Expense{
		ID:                e.ID,
		Description:       e.Description,
		Category:          string(e.Category),
		Amount:            e.Amount.String(),
		PaidBy:            e.PaidBy,
		IsShared:          e.IsShared,
		SplitCount:        e.SplitCount,
		SplitParticipants: split,
		Status:            string(e.Status),
		Date:              e.Date,
		CreatedAt:         e.CreatedAt,
	}
}

func settlementToAPI(s *models.Settlement, now time.Time) *api.Settlement {
	return &api.Settlement{
		ID:            s.ID,
		FromUserID:    s.FromUserID,
		ToUserID:      s.ToUserID,
		Amount:        s.Amount.String(),
		Status:        string(s.Status),
		DueDate:       s.DueDate,
		PaidAt:        s.PaidAt,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
		Overdue:       s.IsOverdue(now),
		Version:       s.Version,
		CreatedAt:     s.CreatedAt,
	}
}

func settlementsToAPI(settlements []*models.Settlement, now time.Time) []*api.Settlement {
	out := make([]*api.Settlement, 0, len(settlements))
	for _, s := range settlements {
		out = append(out, settlementToAPI(s, now))
	}
	return out
}

// balancesToAPI lists balances in participant order (display name, then ID).
func balancesToAPI(participants []models.Participant, balances map[string]money.Money) []*api.Balance {
	ordered := append([]models.Participant(nil), participants...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DisplayName != ordered[j].DisplayName {
			return ordered[i].DisplayName < ordered[j].DisplayName
		}
		return ordered[i].ID < ordered[j].ID
	})

	out := make([]*api.Balance, 0, len(ordered))
	for _, p := range ordered {
		out = append(out, &api.Balance{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Amount:        balances[p.ID].String(),
		})
	}
	return out
}

func transfersToAPI(transfers []calculator.Transfer) []*api.Transfer {
	out := make([]*api.Transfer, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, &api.Transfer{From: t.From, To: t.To, Amount: t.Amount.String()})
	}
	return out
}
