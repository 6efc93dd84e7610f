// Package service houses the multi-entity actions sitting above the state
// store.
package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vinnx/duofin/internal/database/repository"
	"github.com/vinnx/duofin/internal/state"
)

var (
	ErrUnknownGoal    = errors.New("contribution: unknown goal")
	ErrUnknownProject = errors.New("contribution: unknown project")
	ErrUnknownAccount = errors.New("contribution: unknown account")
	ErrBadAmount      = errors.New("contribution: amount must be positive")
)

// ContributionService implements the aporte flow: money moved toward a goal
// or project becomes a paid expense against a chosen account, so the balance
// invariant and the progress bump land in one local update sequence.
type ContributionService struct {
	State *state.Store
}

// DepositToGoal records a deposit: a paid expense transaction plus the goal
// progress update.
func (s *ContributionService) DepositToGoal(goalID, accountID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrBadAmount
	}
	goal, ok := s.findGoal(goalID)
	if !ok {
		return ErrUnknownGoal
	}
	account, ok := s.findAccount(accountID)
	if !ok {
		return ErrUnknownAccount
	}

	s.State.CreateTransaction(repository.Transaction{
		Description: fmt.Sprintf("Deposit: %s", goal.Title),
		Amount:      amount,
		Type:        repository.TypeExpense,
		Category:    "Goals",
		AccountID:   account.ID,
		AccountName: account.Name,
		Status:      repository.StatusPaid,
	})
	s.State.SetGoalCurrent(goal.ID, goal.Current.Add(amount))
	return nil
}

// ContributeToProject mirrors DepositToGoal for projects.
func (s *ContributionService) ContributeToProject(projectID, accountID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrBadAmount
	}
	project, ok := s.findProject(projectID)
	if !ok {
		return ErrUnknownProject
	}
	account, ok := s.findAccount(accountID)
	if !ok {
		return ErrUnknownAccount
	}

	s.State.CreateTransaction(repository.Transaction{
		Description: fmt.Sprintf("Contribution: %s", project.Title),
		Amount:      amount,
		Type:        repository.TypeExpense,
		Category:    "Projects",
		AccountID:   account.ID,
		AccountName: account.Name,
		Status:      repository.StatusPaid,
	})
	s.State.SetProjectCurrent(project.ID, project.Current.Add(amount))
	return nil
}

func (s *ContributionService) findGoal(id string) (repository.Goal, bool) {
	for _, g := range s.State.Goals() {
		if g.ID == id {
			return g, true
		}
	}
	return repository.Goal{}, false
}

func (s *ContributionService) findProject(id string) (repository.Project, bool) {
	for _, p := range s.State.Projects() {
		if p.ID == id {
			return p, true
		}
	}
	return repository.Project{}, false
}

func (s *ContributionService) findAccount(id string) (repository.Account, bool) {
	for _, a := range s.State.Accounts() {
		if a.ID == id {
			return a, true
		}
	}
	return repository.Account{}, false
}
