package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_interview_sessions.sql
var createSessionsSQL string

//go:embed 0002_create_question_bank.sql
var createQuestionBankSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.Exec(createSessionsSQL); err != nil {
				return err
			}
			_, err := db.Exec(createQuestionBankSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.Exec(`DROP TABLE IF EXISTS question_bank`); err != nil {
				return err
			}
			_, err := db.Exec(`DROP TABLE IF EXISTS interview_sessions`)
			return err
		},
	)
}
