package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/dynform/dynform/model"
)

// CreateForm persists a new form document at version 1 and returns it with
// identity and timestamps filled in.
func (s *Store) CreateForm(ctx context.Context, form model.Form) (model.Form, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return model.Form{}, errors.Wrap(err, "form id")
	}

	form.ID = id.String()
	form.Version = 1
	now := time.Now().UTC()
	form.CreatedAt = now
	form.UpdatedAt = now

	fieldsDoc, err := encodeFields(form.Fields)
	if err != nil {
		return model.Form{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO form (id, title, description, version, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		form.ID, form.Title, form.Description, form.Version, fieldsDoc, form.CreatedAt, form.UpdatedAt,
	)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "insert form")
	}
	return form, nil
}

// GetForm returns the full form document or ErrNotFound.
func (s *Store) GetForm(ctx context.Context, id string) (model.Form, error) {
	form := model.Form{ID: id}
	var fieldsDoc string
	err := s.db.QueryRowContext(ctx, `
		SELECT title, description, version, fields, created_at, updated_at
		FROM form
		WHERE id = ?`,
		id,
	).Scan(&form.Title, &form.Description, &form.Version, &fieldsDoc, &form.CreatedAt, &form.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Form{}, ErrNotFound
	}
	if err != nil {
		return model.Form{}, errors.Wrap(err, "select form")
	}

	if err := json.Unmarshal([]byte(fieldsDoc), &form.Fields); err != nil {
		return model.Form{}, errors.Wrap(err, "decode form fields")
	}
	return form, nil
}

// SaveForm replaces the stored document with the given one, stamping
// updated_at. The caller owns the version computation.
func (s *Store) SaveForm(ctx context.Context, form model.Form) (model.Form, error) {
	form.UpdatedAt = time.Now().UTC()

	fieldsDoc, err := encodeFields(form.Fields)
	if err != nil {
		return model.Form{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE form
		SET title = ?, description = ?, version = ?, fields = ?, updated_at = ?
		WHERE id = ?`,
		form.Title, form.Description, form.Version, fieldsDoc, form.UpdatedAt, form.ID,
	)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "update form")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Form{}, errors.Wrap(err, "update form verify")
	}
	if n < 1 {
		return model.Form{}, ErrNotFound
	}
	return form, nil
}

// ListForms returns brief projections of every form, newest first.
func (s *Store) ListForms(ctx context.Context) ([]model.FormBrief, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, version, created_at
		FROM form
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, errors.Wrap(err, "select forms")
	}
	defer rows.Close()

	forms := []model.FormBrief{}
	for rows.Next() {
		b := model.FormBrief{}
		err = rows.Scan(&b.ID, &b.Title, &b.Description, &b.Version, &b.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "scan form")
		}
		forms = append(forms, b)
	}
	return forms, errors.Wrap(rows.Err(), "select forms")
}

// DeleteForm removes the form document. Submissions are intentionally left
// alone: they stay queryable by formId after the form is gone.
func (s *Store) DeleteForm(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM form WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete form")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete form verify")
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

func encodeFields(fields []model.FieldSchema) (string, error) {
	if fields == nil {
		fields = []model.FieldSchema{}
	}
	doc, err := json.Marshal(fields)
	if err != nil {
		return "", errors.Wrap(err, "encode form fields")
	}
	return string(doc), nil
}
