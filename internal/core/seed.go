package core

import (
	"fmt"

	"github.com/cosmic-jellyfish/boardly/pkg/models"
)

// SeedOnboardingTasks creates the sample tasks shown to a new user: one
// welcome card and one in-progress starter card, each with a dated schedule
// window. Seeding only happens on an empty board so reinstalling over
// existing data never injects samples.
func (s *kvTaskStore) SeedOnboardingTasks() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.load()) > 0 {
		return nil
	}

	now := s.clock.Now()
	today := now.UTC().Format(models.DateLayout)
	inThreeDays := now.UTC().AddDate(0, 0, 3).Format(models.DateLayout)
	inSevenDays := now.UTC().AddDate(0, 0, 7).Format(models.DateLayout)

	drafts := []models.Task{
		{
			Title:       "Welcome to Boardly! 🎉",
			Name:        "Welcome to Boardly! 🎉",
			Description: "This is your first task! Click on it to edit details, change status, or add assignees. You can delete these default tasks by clicking them and selecting delete, or go to your profile settings in the top right and click 'Remove Default Tasks'",
			Status:      models.StatusTodo,
			Priority:    models.PriorityMedium,
			Tags:        []string{"onboarding"},
			StartDate:   &today,
			EndDate:     &inSevenDays,
			Order:       0,
		},
		{
			Title:           "Create your first project",
			Name:            "Create your first project",
			Description:     "Start by creating a new project to organise your work. You can add tasks, set priorities, and track progress.",
			Status:          models.StatusInProgress,
			Priority:        models.PriorityHigh,
			Tags:            []string{"onboarding", "project"},
			StartDate:       &today,
			EndDate:         &inThreeDays,
			ActualStartDate: &today,
			Committed:       true,
			Order:           1,
		},
	}

	for _, draft := range drafts {
		if _, err := s.createLocked(draft); err != nil {
			return fmt.Errorf("seeding onboarding tasks: %w", err)
		}
	}
	return nil
}
