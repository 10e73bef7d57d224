package repository

import (
	"context"
	"encoding/json"

	"github.com/St1cky1/task-registry/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// TaskRepository хранит задачи документами jsonb в таблице tasks
type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

func (r *TaskRepository) Insert(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	doc, err := json.Marshal(task)
	if err != nil {
		return nil, errors.Wrap(err, "could not encode task document")
	}

	query := `
	INSERT INTO "tasks" (id, doc)
	VALUES ($1, $2::jsonb)
	RETURNING doc
	`

	var created entity.Task
	if err := r.scanDoc(r.db.QueryRow(ctx, query, task.ID.String(), string(doc)), &created); err != nil {
		return nil, mapError(err)
	}

	return &created, nil
}

// Find - один запрос, все поля фильтра через containment оператор jsonb
func (r *TaskRepository) Find(ctx context.Context, filter Filter) ([]entity.Task, error) {
	match, err := json.Marshal(filter)
	if err != nil {
		return nil, errors.Wrap(err, "could not encode filter")
	}

	query := `
	SELECT doc
	FROM "tasks"
	WHERE doc @> $1::jsonb
	ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, string(match))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var tasks []entity.Task
	for rows.Next() {
		var task entity.Task
		if err := r.scanDoc(rows, &task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return tasks, nil
}

func (r *TaskRepository) FindOne(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	query := `
	SELECT doc
	FROM "tasks"
	WHERE id = $1
	`

	var task entity.Task
	err := r.scanDoc(r.db.QueryRow(ctx, query, id.String()), &task)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err)
	}

	return &task, nil
}

// Save - upsert: документ, удаленный между чтением и записью, будет создан заново
func (r *TaskRepository) Save(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	doc, err := json.Marshal(task)
	if err != nil {
		return nil, errors.Wrap(err, "could not encode task document")
	}

	query := `
	INSERT INTO "tasks" (id, doc)
	VALUES ($1, $2::jsonb)
	ON CONFLICT (id) DO UPDATE SET
	    doc = EXCLUDED.doc,
	    updated_at = CURRENT_TIMESTAMP
	RETURNING doc
	`

	var saved entity.Task
	if err := r.scanDoc(r.db.QueryRow(ctx, query, task.ID.String(), string(doc)), &saved); err != nil {
		return nil, mapError(err)
	}

	return &saved, nil
}

func (r *TaskRepository) Delete(ctx context.Context, task *entity.Task) error {
	query := `DELETE FROM "tasks" WHERE id = $1`
	_, err := r.db.Exec(ctx, query, task.ID.String())
	return mapError(err)
}

func (r *TaskRepository) scanDoc(row pgx.Row, task *entity.Task) error {
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		return err
	}
	if err := json.Unmarshal(doc, task); err != nil {
		return errors.Wrap(err, "could not decode task document")
	}
	return nil
}
