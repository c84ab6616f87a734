package store

import (
	"fmt"
	"time"

	"github.com/pavelanni/wordgen/internal/model"
)

// ExportAll builds an export of every user with their generations,
// oldest generation first.
func (s *Store) ExportAll() (model.GenerationExport, error) {
	export := model.GenerationExport{ExportedAt: time.Now().UTC()}

	users, err := s.ListUsers()
	if err != nil {
		return export, fmt.Errorf("list users: %w", err)
	}

	for _, u := range users {
		gens, err := s.ListGenerations(u.ID)
		if err != nil {
			return export, fmt.Errorf("list generations for %s: %w", u.ID, err)
		}

		results := make([]model.GenerationResult, 0, len(gens))
		for i := len(gens) - 1; i >= 0; i-- {
			results = append(results, model.GenerationResult{
				GeneratedOn: gens[i].GeneratedOn,
				Words:       gens[i].Words,
			})
		}

		export.Users = append(export.Users, model.UserExport{
			UserID:      u.ID,
			Email:       u.Email,
			JobTitle:    u.JobTitle,
			CreatedAt:   u.CreatedAt,
			Generations: results,
		})
	}
	export.NumUsers = len(export.Users)
	return export, nil
}
