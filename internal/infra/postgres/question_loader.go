package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"interview-practice-service/internal/domain"
)

// QuestionLoader reads the question bank from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadPool(ctx context.Context) (domain.QuestionPool, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, text, category, difficulty FROM question_bank`)
	if err != nil {
		return domain.QuestionPool{}, fmt.Errorf("load question bank: %w", err)
	}
	defer rows.Close()

	var pool domain.QuestionPool
	for rows.Next() {
		var q domain.Question
		var difficulty string
		if err := rows.Scan(&q.ID, &q.Text, &q.Category, &difficulty); err != nil {
			return domain.QuestionPool{}, fmt.Errorf("scan question: %w", err)
		}
		q.Difficulty = domain.Difficulty(difficulty)
		q.TimeLimitSeconds = q.Difficulty.TimeLimitSeconds()
		switch q.Difficulty {
		case domain.DifficultyEasy:
			pool.Easy = append(pool.Easy, q)
		case domain.DifficultyMedium:
			pool.Medium = append(pool.Medium, q)
		case domain.DifficultyHard:
			pool.Hard = append(pool.Hard, q)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.QuestionPool{}, fmt.Errorf("read question bank: %w", err)
	}
	return pool, nil
}
