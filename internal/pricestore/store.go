// Package pricestore держит последний загруженный прайс в sqlite в памяти
// для ручного поиска позиций (замена предложенного матчером кандидата).
package pricestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"pricematch-service/internal/pricematch/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS price_items (
	pos          INTEGER PRIMARY KEY,
	code         TEXT NOT NULL DEFAULT '',
	ref          TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL,
	category     TEXT NOT NULL DEFAULT '',
	sub_category TEXT NOT NULL DEFAULT '',
	unit         TEXT NOT NULL DEFAULT '',
	rate         REAL,
	keywords     TEXT NOT NULL DEFAULT '[]',
	phrases      TEXT NOT NULL DEFAULT '[]'
)`

// DefaultLimit: сколько позиций отдаёт поиск.
const DefaultLimit = 20

type Store struct {
	db *sql.DB
}

// Open поднимает пустую in-memory базу.
func Open(ctx context.Context) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// у каждого соединения своя :memory: база
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Replace атомарно заменяет содержимое прайса.
func (s *Store) Replace(ctx context.Context, items []model.CatalogItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_items`); err != nil {
		return fmt.Errorf("clear price items: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO price_items
		(pos, code, ref, description, category, sub_category, unit, rate, keywords, phrases)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, it := range items {
		var rate sql.NullFloat64
		if it.Rate != nil {
			rate = sql.NullFloat64{Float64: *it.Rate, Valid: true}
		}
		_, err := stmt.ExecContext(ctx, i, it.Code, it.Ref, it.Description, it.Category, it.SubCategory,
			it.Unit, rate, jsonList(it.Keywords), jsonList(it.Phrases))
		if err != nil {
			return fmt.Errorf("insert price item %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM price_items`).Scan(&n)
	return n, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search: регистронезависимая подстрока по описанию, коду, ref, категориям,
// ключевым словам и фразам. Пустой запрос: пустой ответ.
func (s *Store) Search(ctx context.Context, q string, limit int) ([]model.CatalogItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []model.CatalogItem{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	pat := "%" + likeEscaper.Replace(q) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, ref, description, category, sub_category, unit, rate, keywords, phrases
		FROM price_items
		WHERE description LIKE ?1 ESCAPE '\'
		   OR code LIKE ?1 ESCAPE '\'
		   OR ref LIKE ?1 ESCAPE '\'
		   OR category LIKE ?1 ESCAPE '\'
		   OR sub_category LIKE ?1 ESCAPE '\'
		   OR keywords LIKE ?1 ESCAPE '\'
		   OR phrases LIKE ?1 ESCAPE '\'
		ORDER BY description COLLATE NOCASE, pos
		LIMIT ?2`, pat, limit)
	if err != nil {
		return nil, fmt.Errorf("search price items: %w", err)
	}
	defer rows.Close()

	out := []model.CatalogItem{}
	for rows.Next() {
		var (
			it      model.CatalogItem
			rate    sql.NullFloat64
			kw, phr string
		)
		if err := rows.Scan(&it.Code, &it.Ref, &it.Description, &it.Category, &it.SubCategory,
			&it.Unit, &rate, &kw, &phr); err != nil {
			return nil, err
		}
		if rate.Valid {
			v := rate.Float64
			it.Rate = &v
		}
		_ = json.Unmarshal([]byte(kw), &it.Keywords)
		_ = json.Unmarshal([]byte(phr), &it.Phrases)
		out = append(out, it)
	}
	return out, rows.Err()
}

func jsonList(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(v)
	return string(b)
}
