package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/registry"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

// SaveStandards replaces the persisted standard catalog with the given
// registry's contents.
func (s *Store) SaveStandards(reg *registry.Registry) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM clauses"); err != nil {
		return fmt.Errorf("clearing clauses: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM standards"); err != nil {
		return fmt.Errorf("clearing standards: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, name := range reg.Standards() {
		if _, err := tx.Exec(
			"INSERT INTO standards (name, registered_at) VALUES (?, ?)",
			name, now,
		); err != nil {
			return fmt.Errorf("persisting standard %s: %w", name, err)
		}

		for clause := range reg.All(name) {
			patterns, err := marshalStrings(clause.Patterns)
			if err != nil {
				return err
			}
			expressions, err := marshalStrings(clause.Expressions)
			if err != nil {
				return err
			}
			evidence, err := marshalStrings(clause.Evidence)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(
				`INSERT INTO clauses
				 (clause_ref, standard, clause_id, citation, description, patterns, expressions, evidence)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				clause.Ref(), clause.Standard, clause.ID, clause.Citation,
				clause.Description, patterns, expressions, evidence,
			); err != nil {
				return fmt.Errorf("persisting clause %s: %w", clause.Ref(), err)
			}
		}
	}

	return tx.Commit()
}

// LoadStandards registers every persisted standard into reg. Pattern
// compilation happens inside RegisterStandard, so a catalog persisted with
// invalid expressions cannot sneak past validation on the way back in.
func (s *Store) LoadStandards(reg *registry.Registry, overwrite bool) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	rows, err := db.Query(
		`SELECT standard, clause_id, citation, description, patterns, expressions, evidence
		 FROM clauses ORDER BY standard, clause_id`,
	)
	if err != nil {
		return fmt.Errorf("querying clauses: %w", err)
	}
	defer rows.Close()

	byStandard := make(map[string][]types.Clause)
	var order []string
	for rows.Next() {
		var clause types.Clause
		var citation, description, patterns, expressions, evidence sql.NullString
		if err := rows.Scan(&clause.Standard, &clause.ID, &citation, &description,
			&patterns, &expressions, &evidence); err != nil {
			return fmt.Errorf("scanning clause: %w", err)
		}
		clause.Citation = citation.String
		clause.Description = description.String
		if clause.Patterns, err = unmarshalStrings(patterns.String); err != nil {
			return err
		}
		if clause.Expressions, err = unmarshalStrings(expressions.String); err != nil {
			return err
		}
		if clause.Evidence, err = unmarshalStrings(evidence.String); err != nil {
			return err
		}

		if _, seen := byStandard[clause.Standard]; !seen {
			order = append(order, clause.Standard)
		}
		byStandard[clause.Standard] = append(byStandard[clause.Standard], clause)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating clauses: %w", err)
	}

	for _, name := range order {
		if err := reg.RegisterStandard(name, byStandard[name], overwrite); err != nil {
			return fmt.Errorf("restoring standard %s: %w", name, err)
		}
	}
	return nil
}

func marshalStrings(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encoding string list: %w", err)
	}
	return string(data), nil
}

func unmarshalStrings(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("decoding string list: %w", err)
	}
	return values, nil
}
