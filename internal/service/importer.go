package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// EventSetup is the YAML document accepted by the event import endpoint.
// One document provisions an event's physical and competitive layout in a
// single call, reusing the bulk-create invariants section by section.
type EventSetup struct {
	Tables []struct {
		TableNumber int `yaml:"table_number"`
		Seats       int `yaml:"seats"`
	} `yaml:"tables"`
	Categories []struct {
		Name      string `yaml:"name"`
		SortOrder int    `yaml:"sort_order"`
	} `yaml:"categories"`
	Criteria []struct {
		Name      string `yaml:"name"`
		Weight    string `yaml:"weight"`
		SortOrder int    `yaml:"sort_order"`
	} `yaml:"criteria"`
	Teams []struct {
		Name       string `yaml:"name"`
		TeamNumber int    `yaml:"team_number"`
	} `yaml:"teams"`
}

// ImportSummary reports what an event import created.
type ImportSummary struct {
	Tables     int `json:"tables"`
	Seats      int `json:"seats"`
	Categories int `json:"categories"`
	Criteria   int `json:"criteria"`
	Teams      int `json:"teams"`
}

// ParseEventSetup strictly decodes an event-setup document. Unknown fields
// are an error; a typo in an offline-prepared file should fail loudly, not
// half-provision an event.
func ParseEventSetup(raw []byte) (*EventSetup, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var setup EventSetup
	if err := dec.Decode(&setup); err != nil {
		return nil, invalidArg(fmt.Sprintf("invalid event setup document: %v", err))
	}
	return &setup, nil
}

// ImportEventSetup provisions tables, seats, categories, criteria and teams
// under an event from one parsed document. Each section is all-or-nothing;
// a conflict in a later section leaves earlier sections in place, matching
// the per-request scope of the bulk endpoints it reuses. Admin only.
func (s *Service) ImportEventSetup(ctx context.Context, actor Actor, eventID string, setup *EventSetup) (*ImportSummary, error) {
	if !actor.IsAdmin() {
		return nil, forbidden("only admins can import event setups")
	}
	if _, err := s.store.GetEvent(ctx, eventID, false); err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}

	summary := &ImportSummary{}

	if len(setup.Tables) > 0 {
		inputs := make([]TableInput, 0, len(setup.Tables))
		for _, t := range setup.Tables {
			inputs = append(inputs, TableInput{TableNumber: t.TableNumber})
		}
		tables, err := s.CreateTables(ctx, actor, eventID, inputs)
		if err != nil {
			return nil, err
		}
		summary.Tables = len(tables)

		for i, t := range setup.Tables {
			if t.Seats <= 0 {
				continue
			}
			seatInputs := make([]SeatInput, 0, t.Seats)
			for n := 1; n <= t.Seats; n++ {
				seatInputs = append(seatInputs, SeatInput{SeatNumber: n})
			}
			seats, err := s.CreateSeats(ctx, actor, tables[i].ID, seatInputs)
			if err != nil {
				return nil, err
			}
			summary.Seats += len(seats)
		}
	}

	if len(setup.Categories) > 0 {
		inputs := make([]CategoryInput, 0, len(setup.Categories))
		for _, c := range setup.Categories {
			inputs = append(inputs, CategoryInput{Name: c.Name, SortOrder: c.SortOrder})
		}
		categories, err := s.CreateCategories(ctx, actor, eventID, inputs)
		if err != nil {
			return nil, err
		}
		summary.Categories = len(categories)
	}

	if len(setup.Criteria) > 0 {
		inputs := make([]CriterionInput, 0, len(setup.Criteria))
		for _, c := range setup.Criteria {
			weight := decimal.NewFromInt(1)
			if c.Weight != "" {
				var err error
				if weight, err = decimal.NewFromString(c.Weight); err != nil {
					return nil, invalidArg(fmt.Sprintf("criteria: invalid weight %q", c.Weight))
				}
			}
			inputs = append(inputs, CriterionInput{Name: c.Name, Weight: weight, SortOrder: c.SortOrder})
		}
		criteria, err := s.CreateCriteria(ctx, actor, eventID, inputs)
		if err != nil {
			return nil, err
		}
		summary.Criteria = len(criteria)
	}

	if len(setup.Teams) > 0 {
		inputs := make([]TeamInput, 0, len(setup.Teams))
		for _, t := range setup.Teams {
			inputs = append(inputs, TeamInput{Name: t.Name, TeamNumber: t.TeamNumber})
		}
		teams, err := s.CreateTeams(ctx, actor, eventID, inputs)
		if err != nil {
			return nil, err
		}
		summary.Teams = len(teams)
	}

	return summary, nil
}
