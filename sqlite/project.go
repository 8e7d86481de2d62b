package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/lpedit"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ lpedit.ProjectService = (*ProjectService)(nil)

// File kinds stored in project_files.
const (
	kindOriginal = "original"
	kindOverride = "override"
	kindNew      = "new"
)

const projectColumns = `id, name, source_archive_path, entry_html_path, content_hash, source_charset,
	missing_assets, warnings, replace_failures, stats, created_at, updated_at`

// ProjectService implements lpedit.ProjectService using SQLite.
type ProjectService struct {
	db *DB
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *DB) *ProjectService {
	return &ProjectService{db: db}
}

// CreateProject stores a new project with its original files.
func (s *ProjectService) CreateProject(ctx context.Context, project *lpedit.ImportProject) error {
	if err := project.Validate(); err != nil {
		return err
	}

	project.ID = uuid.New().String()
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	model, err := encodeModel(project)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, name, source_archive_path, entry_html_path, entry_html, content_hash,
			source_charset, sections, missing_assets, warnings, replace_failures, stats, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, project.ID, project.Name, project.SourceArchivePath, project.EntryHTMLPath, project.EntryHTMLOriginal,
		project.ContentHash, project.SourceCharset, model.sections, model.missingAssets, model.warnings,
		model.replaceFailures, model.stats,
		project.CreatedAt.Format(time.RFC3339), project.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	for path, f := range project.Files {
		if err := insertFile(ctx, tx, project.ID, kindOriginal, path, f.Data); err != nil {
			return err
		}
	}
	if err := insertAssets(ctx, tx, project); err != nil {
		return err
	}

	return tx.Commit()
}

// FindProjectByID retrieves a project with its model, files and assets.
func (s *ProjectService) FindProjectByID(ctx context.Context, id string) (*lpedit.ImportProject, error) {
	var sections string
	var entryHTML string
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+`, entry_html, sections FROM projects WHERE id = ?`, id)
	project, err := scanProject(row, &entryHTML, &sections)
	if err == sql.ErrNoRows {
		return nil, lpedit.Errorf(lpedit.ENOTFOUND, "project not found")
	}
	if err != nil {
		return nil, err
	}

	project.EntryHTMLOriginal = entryHTML
	if err := json.Unmarshal([]byte(sections), &project.Sections); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}

	if err := s.loadFiles(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// FindProjects retrieves project summaries matching the filter.
// Sections, files and assets are not loaded.
func (s *ProjectService) FindProjects(ctx context.Context, filter lpedit.ProjectFilter) ([]*lpedit.ImportProject, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + projectColumns + " FROM projects WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceArchivePath != nil {
		query.WriteString(" AND source_archive_path = ?")
		args = append(args, *filter.SourceArchivePath)
	}
	if filter.EntryHTMLPath != nil {
		query.WriteString(" AND entry_html_path = ?")
		args = append(args, *filter.EntryHTMLPath)
	}
	if filter.ContentHash != nil {
		query.WriteString(" AND content_hash = ?")
		args = append(args, *filter.ContentHash)
	}

	query.WriteString(" ORDER BY created_at DESC, id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*lpedit.ImportProject
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// UpdateProject persists the derived model, diagnostics and caller assets.
// Original files and the entry HTML are immutable and never rewritten.
func (s *ProjectService) UpdateProject(ctx context.Context, project *lpedit.ImportProject) error {
	if err := project.Validate(); err != nil {
		return err
	}

	model, err := encodeModel(project)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updatedAt := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `
		UPDATE projects
		SET name = ?, sections = ?, missing_assets = ?, warnings = ?, replace_failures = ?, stats = ?, updated_at = ?
		WHERE id = ?
	`, project.Name, model.sections, model.missingAssets, model.warnings, model.replaceFailures, model.stats,
		updatedAt.Format(time.RFC3339), project.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return lpedit.Errorf(lpedit.ENOTFOUND, "project not found")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_files WHERE project_id = ? AND kind != ?`,
		project.ID, kindOriginal); err != nil {
		return err
	}
	if err := insertAssets(ctx, tx, project); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	project.UpdatedAt = updatedAt
	return nil
}

// DeleteProject permanently removes a project and its files.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return lpedit.Errorf(lpedit.ENOTFOUND, "project not found")
	}

	return nil
}

func (s *ProjectService) loadFiles(ctx context.Context, project *lpedit.ImportProject) error {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, path, data FROM project_files WHERE project_id = ?`, project.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	project.Files = make(map[string]*lpedit.ImportedFile)
	project.AssetOverrides = make(map[string][]byte)
	project.NewAssets = make(map[string][]byte)

	for rows.Next() {
		var kind, path string
		var data []byte
		if err := rows.Scan(&kind, &path, &data); err != nil {
			return err
		}
		switch kind {
		case kindOriginal:
			project.Files[path] = &lpedit.ImportedFile{Path: path, Data: data}
		case kindOverride:
			project.AssetOverrides[path] = data
		case kindNew:
			project.NewAssets[path] = data
		}
	}
	return rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanProject reads projectColumns followed by any extra destinations.
func scanProject(row scanner, extra ...any) (*lpedit.ImportProject, error) {
	var project lpedit.ImportProject
	var missingAssets, warnings, replaceFailures, stats, createdAt, updatedAt string

	dest := []any{&project.ID, &project.Name, &project.SourceArchivePath, &project.EntryHTMLPath,
		&project.ContentHash, &project.SourceCharset, &missingAssets, &warnings, &replaceFailures, &stats,
		&createdAt, &updatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	for _, f := range []struct {
		name string
		raw  string
		dst  any
	}{
		{"missing_assets", missingAssets, &project.MissingAssets},
		{"warnings", warnings, &project.Warnings},
		{"replace_failures", replaceFailures, &project.ReplaceFailures},
		{"stats", stats, &project.Stats},
	} {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", f.name, err)
		}
	}

	var err error
	if project.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if project.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &project, nil
}

// model holds the JSON-encoded derived state of a project.
type model struct {
	sections        string
	missingAssets   string
	warnings        string
	replaceFailures string
	stats           string
}

func encodeModel(project *lpedit.ImportProject) (*model, error) {
	var m model
	for _, f := range []struct {
		name string
		v    any
		dst  *string
	}{
		{"sections", nonNil(project.Sections), &m.sections},
		{"missing_assets", nonNil(project.MissingAssets), &m.missingAssets},
		{"warnings", nonNil(project.Warnings), &m.warnings},
		{"replace_failures", nonNil(project.ReplaceFailures), &m.replaceFailures},
		{"stats", project.Stats, &m.stats},
	} {
		b, err := json.Marshal(f.v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", f.name, err)
		}
		*f.dst = string(b)
	}
	return &m, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func insertAssets(ctx context.Context, tx *sql.Tx, project *lpedit.ImportProject) error {
	for path, data := range project.AssetOverrides {
		if err := insertFile(ctx, tx, project.ID, kindOverride, path, data); err != nil {
			return err
		}
	}
	for path, data := range project.NewAssets {
		if err := insertFile(ctx, tx, project.ID, kindNew, path, data); err != nil {
			return err
		}
	}
	return nil
}

func insertFile(ctx context.Context, tx *sql.Tx, projectID, kind, path string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO project_files (project_id, kind, path, data) VALUES (?, ?, ?, ?)`,
		projectID, kind, path, data)
	return err
}
