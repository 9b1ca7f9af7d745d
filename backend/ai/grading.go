package ai

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// GradingFailedFeedback is returned when the model's answer could not be used.
const GradingFailedFeedback = "An error occurred while generating the automatic grading. Please grade this submission manually."

type QuestionAnswer struct {
	QuestionID uuid.UUID
	Prompt     string
	MaxPoints  float64
	Answer     string
}

type QuestionScore struct {
	QuestionID    uuid.UUID `json:"question_id"`
	AwardedPoints float64   `json:"awarded_points"`
	MaxPoints     float64   `json:"max_points"`
	Feedback      string    `json:"feedback"`
}

type GradingResult struct {
	Grade     float64         `json:"grade"`
	Feedback  string          `json:"feedback"`
	Questions []QuestionScore `json:"questions"`
	Failed    bool            `json:"failed"`
}

// GradingOracle scores free-text answers. Implementations never fail: a broken response
// yields a Failed result with grade 0.
type GradingOracle interface {
	Grade(ctx context.Context, taskTitle, instructions string, items []QuestionAnswer) GradingResult
}

// CombineScores scales awarded points to a 0..10 grade rounded to two decimals.
func CombineScores(scores []QuestionScore) float64 {
	var awarded, possible float64
	for _, s := range scores {
		awarded += s.AwardedPoints
		possible += s.MaxPoints
	}
	if possible <= 0 {
		return 0
	}
	return math.Round(awarded/possible*10*100) / 100
}

type CompletionGrader struct {
	completer Completer
	logger    *log.Logger
}

func NewCompletionGrader(c Completer, logger *log.Logger) *CompletionGrader {
	return &CompletionGrader{completer: c, logger: logger}
}

const gradingInstructions = `You are a strict but fair teaching assistant grading a student's answers.
For each question award between 0 and max_points points.
Reply with JSON only, no prose, in exactly this shape:
{"questions":[{"question_id":"<id>","awarded_points":<number>,"feedback":"<short text>"}],"feedback":"<overall feedback>"}`

type oracleReply struct {
	Questions []struct {
		QuestionID    string   `json:"question_id"`
		AwardedPoints *float64 `json:"awarded_points"`
		Feedback      string   `json:"feedback"`
	} `json:"questions"`
	Feedback string `json:"feedback"`
}

func (g *CompletionGrader) Grade(ctx context.Context, taskTitle, instructions string, items []QuestionAnswer) GradingResult {
	if len(items) == 0 {
		return g.failed(errors.New("task has no questions"))
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Task: %s\n", taskTitle)
	if instructions != "" {
		fmt.Fprintf(&prompt, "Instructions: %s\n", instructions)
	}
	for i, it := range items {
		fmt.Fprintf(&prompt, "\nQuestion %d\nquestion_id: %s\nmax_points: %g\nprompt: %s\nstudent answer: %s\n",
			i+1, it.QuestionID, it.MaxPoints, it.Prompt, it.Answer)
	}

	reply, err := g.completer.Complete(ctx, []Message{
		{Role: RoleSystem, Content: gradingInstructions},
		{Role: RoleUser, Content: prompt.String()},
	})
	if err != nil {
		return g.failed(err)
	}

	scores, feedback, err := parseGradingReply(reply, items)
	if err != nil {
		return g.failed(err)
	}
	return GradingResult{Grade: CombineScores(scores), Feedback: feedback, Questions: scores}
}

func (g *CompletionGrader) failed(err error) GradingResult {
	if g.logger != nil {
		g.logger.Printf("[AIGrading] falling back to zero grade: %v", err)
	}
	return GradingResult{Grade: 0, Feedback: GradingFailedFeedback, Failed: true}
}

// parseGradingReply accepts the JSON object optionally wrapped in a markdown fence. Every
// question must be scored exactly once; points are clamped to [0, max_points].
func parseGradingReply(reply string, items []QuestionAnswer) ([]QuestionScore, string, error) {
	body := strings.TrimSpace(reply)
	if i := strings.Index(body, "{"); i >= 0 {
		if j := strings.LastIndex(body, "}"); j > i {
			body = body[i : j+1]
		}
	}

	var parsed oracleReply
	if err := sonic.UnmarshalString(body, &parsed); err != nil {
		return nil, "", errors.Wrap(err, "malformed grading reply")
	}

	byID := make(map[uuid.UUID]QuestionAnswer, len(items))
	for _, it := range items {
		byID[it.QuestionID] = it
	}

	seen := make(map[uuid.UUID]bool, len(items))
	scores := make([]QuestionScore, 0, len(items))
	for _, q := range parsed.Questions {
		id, err := uuid.Parse(q.QuestionID)
		if err != nil {
			return nil, "", errors.Errorf("bad question_id %q", q.QuestionID)
		}
		item, ok := byID[id]
		if !ok || seen[id] {
			return nil, "", errors.Errorf("unexpected question_id %s", id)
		}
		if q.AwardedPoints == nil || math.IsNaN(*q.AwardedPoints) {
			return nil, "", errors.Errorf("missing awarded_points for %s", id)
		}
		seen[id] = true
		points := math.Min(math.Max(*q.AwardedPoints, 0), item.MaxPoints)
		scores = append(scores, QuestionScore{QuestionID: id, AwardedPoints: points, MaxPoints: item.MaxPoints, Feedback: q.Feedback})
	}
	if len(scores) != len(items) {
		return nil, "", errors.Errorf("graded %d of %d questions", len(scores), len(items))
	}
	return scores, strings.TrimSpace(parsed.Feedback), nil
}
