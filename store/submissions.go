package store

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/dynform/dynform/model"
)

// CreateSubmission records one validated answer set. Submissions are
// immutable after this point and carry the form version they were validated
// against.
func (s *Store) CreateSubmission(ctx context.Context, sub model.Submission) (model.Submission, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "submission id")
	}
	sub.ID = id.String()
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}

	answersDoc, err := json.Marshal(sub.Answers)
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "encode answers")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submission (id, form_id, form_version, answers, submitted_at, ip, user_agent)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.FormID, sub.FormVersion, string(answersDoc), sub.SubmittedAt, sub.Meta.IP, sub.Meta.UserAgent,
	)
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "insert submission")
	}
	return sub, nil
}

// ListSubmissions pages through a form's submissions, newest first, with a
// plain count+offset scheme. The form itself need not exist: orphaned
// submissions remain reachable after their form is deleted.
func (s *Store) ListSubmissions(ctx context.Context, formID string, page, limit int) (total int, subs []model.Submission, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT count(*) FROM submission WHERE form_id = ?`,
		formID,
	).Scan(&total)
	if err != nil {
		return 0, nil, errors.Wrap(err, "count submissions")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, form_version, answers, submitted_at, ip, user_agent
		FROM submission
		WHERE form_id = ?
		ORDER BY submitted_at DESC, id
		LIMIT ? OFFSET ?`,
		formID, limit, (page-1)*limit,
	)
	if err != nil {
		return 0, nil, errors.Wrap(err, "select submissions")
	}
	defer rows.Close()

	subs = []model.Submission{}
	for rows.Next() {
		sub := model.Submission{}
		var answersDoc string
		err = rows.Scan(&sub.ID, &sub.FormID, &sub.FormVersion, &answersDoc, &sub.SubmittedAt, &sub.Meta.IP, &sub.Meta.UserAgent)
		if err != nil {
			return 0, nil, errors.Wrap(err, "scan submission")
		}
		if err = json.Unmarshal([]byte(answersDoc), &sub.Answers); err != nil {
			return 0, nil, errors.Wrap(err, "decode answers")
		}
		subs = append(subs, sub)
	}
	return total, subs, errors.Wrap(rows.Err(), "select submissions")
}
