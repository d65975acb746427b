package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"

	"interview-practice-service/internal/domain"
)

// Ledger stores completed sessions in Postgres. Rows are append-only; the
// bigserial position column preserves insertion order for score ties and
// the unique session ID makes re-appending a no-op.
type Ledger struct {
	pool *pgxpool.Pool
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

func (l *Ledger) Append(ctx context.Context, sess domain.Session) error {
	if sess.Status != domain.StatusComplete {
		return domain.ErrInvalidSession
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = l.pool.Exec(ctx, `
		INSERT INTO interview_sessions (id, candidate_name, candidate_email, candidate_phone, final_score, summary, completed_at, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb)
		ON CONFLICT (id) DO NOTHING`,
		sess.ID,
		sess.Candidate.Name,
		sess.Candidate.Email,
		sess.Candidate.Phone,
		sess.FinalScore,
		sess.Summary,
		sess.UpdatedAt,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("append session: %w", err)
	}
	return nil
}

func (l *Ledger) List(ctx context.Context, query domain.LedgerQuery) ([]domain.LedgerEntry, error) {
	direction := "DESC"
	if query.Sort == domain.SortScoreAsc {
		direction = "ASC"
	}
	sql := fmt.Sprintf(`
		SELECT id, candidate_name, candidate_email, candidate_phone, final_score, summary, completed_at
		FROM interview_sessions
		WHERE candidate_name ILIKE $1 OR candidate_email ILIKE $1
		ORDER BY final_score %s, position ASC`, direction)

	needle := "%" + escapeLike(strings.TrimSpace(query.Search)) + "%"
	rows, err := l.pool.Query(ctx, sql, needle)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		if err := rows.Scan(
			&entry.SessionID,
			&entry.Candidate.Name,
			&entry.Candidate.Email,
			&entry.Candidate.Phone,
			&entry.FinalScore,
			&entry.Summary,
			&entry.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read sessions: %w", err)
	}
	return entries, nil
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
