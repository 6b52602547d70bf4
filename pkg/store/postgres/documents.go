package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/taskhive/taskd/pkg/apperr"
	"github.com/taskhive/taskd/pkg/models"
)

// userStore implements store.UserStore. The password hash lives in its own
// column so the JSONB document matches the wire shape exactly.
type userStore struct {
	db *sql.DB
}

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	doc, err := json.Marshal(user)
	if err != nil {
		return apperr.Internal(fmt.Errorf("marshal user: %w", err))
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, doc, password_hash) VALUES ($1, $2, $3)`,
		user.ID, doc, user.PasswordHash,
	)
	if err != nil {
		return classifyInsertErr(err, "username or email")
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var doc []byte
	var hash string
	if err := row.Scan(&doc, &hash); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.New(apperr.KindNotFound, "user not found")
		}
		return nil, apperr.Internal(fmt.Errorf("scan user: %w", err))
	}

	var user models.User
	if err := json.Unmarshal(doc, &user); err != nil {
		return nil, apperr.Internal(fmt.Errorf("unmarshal user: %w", err))
	}
	user.PasswordHash = hash
	return &user, nil
}

func (s *userStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT doc, password_hash FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT doc, password_hash FROM users WHERE lower(doc->>'email') = lower($1)`, email)
	return scanUser(row)
}

// projectStore implements store.ProjectStore.
type projectStore struct {
	db *sql.DB
}

func (s *projectStore) Create(ctx context.Context, project *models.Project) error {
	doc, err := json.Marshal(project)
	if err != nil {
		return apperr.Internal(fmt.Errorf("marshal project: %w", err))
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, doc) VALUES ($1, $2)`, project.ID, doc)
	if err != nil {
		return classifyInsertErr(err, "project name")
	}
	return nil
}

func (s *projectStore) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM projects WHERE id = $1`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "project not found")
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("get project: %w", err))
	}

	var project models.Project
	if err := json.Unmarshal(doc, &project); err != nil {
		return nil, apperr.Internal(fmt.Errorf("unmarshal project: %w", err))
	}
	return &project, nil
}

func (s *projectStore) ListForUser(ctx context.Context, userID string) ([]*models.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM projects
		 WHERE doc->>'owner_id' = $1 OR doc->'member_ids' @> to_jsonb($1::text)
		 ORDER BY doc->>'name'`, userID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list projects: %w", err))
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, apperr.Internal(fmt.Errorf("scan project: %w", err))
		}
		var project models.Project
		if err := json.Unmarshal(doc, &project); err != nil {
			return nil, apperr.Internal(fmt.Errorf("unmarshal project: %w", err))
		}
		projects = append(projects, &project)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(fmt.Errorf("list projects: %w", err))
	}
	return projects, nil
}

func (s *projectStore) Update(ctx context.Context, project *models.Project) error {
	doc, err := json.Marshal(project)
	if err != nil {
		return apperr.Internal(fmt.Errorf("marshal project: %w", err))
	}

	// Single UPDATE by id; concurrent membership edits are last-write-wins
	// at this layer.
	result, err := s.db.ExecContext(ctx,
		`UPDATE projects SET doc = $2 WHERE id = $1`, project.ID, doc)
	if err != nil {
		return classifyInsertErr(err, "project name")
	}
	return requireRowAffected(result, "project not found")
}

func (s *projectStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal(fmt.Errorf("delete project: %w", err))
	}
	return requireRowAffected(result, "project not found")
}

// taskStore implements store.TaskStore.
type taskStore struct {
	db *sql.DB
}

func (s *taskStore) Create(ctx context.Context, task *models.Task) error {
	doc, err := json.Marshal(task)
	if err != nil {
		return apperr.Internal(fmt.Errorf("marshal task: %w", err))
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, doc) VALUES ($1, $2)`, task.ID, doc)
	if err != nil {
		return apperr.Internal(fmt.Errorf("create task: %w", err))
	}
	return nil
}

func (s *taskStore) GetForOwner(ctx context.Context, id, ownerID string) (*models.Task, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM tasks WHERE id = $1 AND doc->>'owner_id' = $2`,
		id, ownerID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "task not found")
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("get task: %w", err))
	}

	var task models.Task
	if err := json.Unmarshal(doc, &task); err != nil {
		return nil, apperr.Internal(fmt.Errorf("unmarshal task: %w", err))
	}
	return &task, nil
}

func (s *taskStore) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM tasks WHERE doc->>'owner_id' = $1
		 ORDER BY (doc->>'created_at')::timestamptz DESC`, ownerID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list tasks: %w", err))
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, apperr.Internal(fmt.Errorf("scan task: %w", err))
		}
		var task models.Task
		if err := json.Unmarshal(doc, &task); err != nil {
			return nil, apperr.Internal(fmt.Errorf("unmarshal task: %w", err))
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(fmt.Errorf("list tasks: %w", err))
	}
	return tasks, nil
}

func (s *taskStore) Update(ctx context.Context, task *models.Task) error {
	doc, err := json.Marshal(task)
	if err != nil {
		return apperr.Internal(fmt.Errorf("marshal task: %w", err))
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET doc = $3 WHERE id = $1 AND doc->>'owner_id' = $2`,
		task.ID, task.OwnerID, doc)
	if err != nil {
		return apperr.Internal(fmt.Errorf("update task: %w", err))
	}
	return requireRowAffected(result, "task not found")
}

func (s *taskStore) Delete(ctx context.Context, id, ownerID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND doc->>'owner_id' = $2`, id, ownerID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("delete task: %w", err))
	}
	return requireRowAffected(result, "task not found")
}

func (s *taskStore) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE doc->>'project_id' = $1`, projectID)
	if err != nil {
		return 0, apperr.Internal(fmt.Errorf("delete project tasks: %w", err))
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperr.Internal(fmt.Errorf("delete project tasks: %w", err))
	}
	return deleted, nil
}

// labelStore implements store.LabelStore.
type labelStore struct {
	db *sql.DB
}

func (s *labelStore) Create(ctx context.Context, label *models.Label) error {
	doc, err := json.Marshal(label)
	if err != nil {
		return apperr.Internal(fmt.Errorf("marshal label: %w", err))
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO labels (id, doc) VALUES ($1, $2)`, label.ID, doc)
	if err != nil {
		return apperr.Internal(fmt.Errorf("create label: %w", err))
	}
	return nil
}

func (s *labelStore) GetForUser(ctx context.Context, id, userID string) (*models.Label, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM labels WHERE id = $1 AND doc->>'user_id' = $2`,
		id, userID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "label not found")
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("get label: %w", err))
	}

	var label models.Label
	if err := json.Unmarshal(doc, &label); err != nil {
		return nil, apperr.Internal(fmt.Errorf("unmarshal label: %w", err))
	}
	return &label, nil
}

func (s *labelStore) ListByUser(ctx context.Context, userID string) ([]*models.Label, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM labels WHERE doc->>'user_id' = $1
		 ORDER BY doc->>'name'`, userID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list labels: %w", err))
	}
	defer rows.Close()

	var labels []*models.Label
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, apperr.Internal(fmt.Errorf("scan label: %w", err))
		}
		var label models.Label
		if err := json.Unmarshal(doc, &label); err != nil {
			return nil, apperr.Internal(fmt.Errorf("unmarshal label: %w", err))
		}
		labels = append(labels, &label)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(fmt.Errorf("list labels: %w", err))
	}
	return labels, nil
}

func (s *labelStore) Update(ctx context.Context, label *models.Label) error {
	doc, err := json.Marshal(label)
	if err != nil {
		return apperr.Internal(fmt.Errorf("marshal label: %w", err))
	}

	// One ownership-scoped UPDATE; a label belonging to another user
	// matches zero rows and reads as absent.
	result, err := s.db.ExecContext(ctx,
		`UPDATE labels SET doc = $3 WHERE id = $1 AND doc->>'user_id' = $2`,
		label.ID, label.UserID, doc)
	if err != nil {
		return apperr.Internal(fmt.Errorf("update label: %w", err))
	}
	return requireRowAffected(result, "label not found")
}

func (s *labelStore) Delete(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM labels WHERE id = $1 AND doc->>'user_id' = $2`, id, userID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("delete label: %w", err))
	}
	return requireRowAffected(result, "label not found")
}

// requireRowAffected converts a zero-row write into NotFound.
func requireRowAffected(result sql.Result, notFoundMsg string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Internal(fmt.Errorf("rows affected: %w", err))
	}
	if affected == 0 {
		return apperr.New(apperr.KindNotFound, notFoundMsg)
	}
	return nil
}
