package db

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

type CardKind string

const (
	KindMaterial  CardKind = "material"
	KindChallenge CardKind = "challenge"
	KindBonus     CardKind = "bonus"
)

func ParseCardKind(raw string) (CardKind, error) {
	switch kind := CardKind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case KindMaterial, KindChallenge, KindBonus:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown card kind %q", raw)
	}
}

// cardRow is one CSV row keyed by lower-cased header name.
type cardRow map[string]string

func (r cardRow) get(column string) string {
	return r[column]
}

// LoadCards reads cards of one kind from a CSV with a header row and upserts
// them by name (or title for challenge cards). It returns the number of rows
// written.
func LoadCards(conn *gorm.DB, kind CardKind, path string) (int, error) {
	if conn == nil {
		return 0, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	rows, err := readCardRows(file)
	if err != nil {
		return 0, err
	}
	written := 0
	for i, row := range rows {
		if err := upsertCard(conn, kind, row); err != nil {
			return written, fmt.Errorf("row %d: %w", i+2, err)
		}
		written++
	}
	return written, nil
}

func upsertCard(conn *gorm.DB, kind CardKind, row cardRow) error {
	switch kind {
	case KindMaterial:
		card := MaterialCard{Name: row.get("name"), Properties: row.get("properties"), Uses: row.get("uses")}
		if card.Name == "" || card.Properties == "" || card.Uses == "" {
			return fmt.Errorf("name, properties and uses are required")
		}
		var entry MaterialCard
		return conn.Where(MaterialCard{Name: card.Name}).Assign(card).FirstOrCreate(&entry).Error
	case KindChallenge:
		card, err := challengeFromRow(row)
		if err != nil {
			return err
		}
		var entry ChallengeCard
		return conn.Where(ChallengeCard{Title: card.Title}).Assign(card).FirstOrCreate(&entry).Error
	case KindBonus:
		card := BonusCard{Name: row.get("name"), Effect: row.get("effect"), ScoringRules: row.get("scoring_rules")}
		if card.Name == "" || card.Effect == "" || card.ScoringRules == "" {
			return fmt.Errorf("name, effect and scoring_rules are required")
		}
		var entry BonusCard
		return conn.Where(BonusCard{Name: card.Name}).Assign(card).FirstOrCreate(&entry).Error
	default:
		return fmt.Errorf("unknown card kind %q", kind)
	}
}

func challengeFromRow(row cardRow) (ChallengeCard, error) {
	card := ChallengeCard{Title: row.get("title"), Description: row.get("description")}
	if card.Title == "" || card.Description == "" {
		return ChallengeCard{}, fmt.Errorf("title and description are required")
	}
	if text := row.get("key_considerations"); text != "" {
		card.KeyConsiderations = &text
	}
	if raw := row.get("bonus_points"); raw != "" {
		points, err := strconv.Atoi(raw)
		if err != nil {
			return ChallengeCard{}, fmt.Errorf("bonus_points: %w", err)
		}
		card.BonusPoints = &points
	}
	return card, nil
}

func readCardRows(r io.Reader) ([]cardRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}
	var records []cardRow
	for _, row := range rows[1:] {
		record := cardRow{}
		empty := true
		for i, value := range row {
			if i >= len(header) {
				break
			}
			value = strings.TrimSpace(value)
			if value != "" {
				empty = false
			}
			record[header[i]] = value
		}
		if empty {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
