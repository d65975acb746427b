package app

import (
	"math/rand"

	"interview-practice-service/internal/domain"
)

// questionsPerDifficulty is the fixed draw for every session: 2 easy, 2
// medium, 2 hard, asked in that order.
const questionsPerDifficulty = 2

// QuestionGenerator draws a session's fixed question set from a pool.
type QuestionGenerator struct {
	rnd *rand.Rand
}

func NewQuestionGenerator(seed int64) *QuestionGenerator {
	return &QuestionGenerator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate picks two questions per difficulty, easy first. Time limits are
// stamped from the difficulty so pool data cannot override them. Returns
// ErrQuestionPoolEmpty when any bucket is too small.
func (g *QuestionGenerator) Generate(pool domain.QuestionPool) ([]domain.Question, error) {
	order := []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard}
	questions := make([]domain.Question, 0, questionsPerDifficulty*len(order))
	for _, difficulty := range order {
		bucket := pool.ByDifficulty(difficulty)
		if len(bucket) < questionsPerDifficulty {
			return nil, domain.ErrQuestionPoolEmpty
		}
		for _, idx := range g.rnd.Perm(len(bucket))[:questionsPerDifficulty] {
			q := bucket[idx]
			q.Difficulty = difficulty
			q.TimeLimitSeconds = difficulty.TimeLimitSeconds()
			questions = append(questions, q)
		}
	}
	return questions, nil
}
