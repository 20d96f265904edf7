package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kovzhu/mysite/internal/models"
)

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ProjectID == "" {
		project.ProjectID = uuid.New().String()
	}

	query := `
		INSERT INTO projects (project_id, title, description, url, year, image_filename)
		VALUES (:project_id, :title, :description, :url, :year, :image_filename)
	`

	if _, err := r.db.NamedExecContext(ctx, query, project); err != nil {
		return fmt.Errorf("creating project: %w", err)
	}

	return nil
}

func (r *projectRepository) List(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}

	query := `SELECT * FROM projects ORDER BY year DESC`

	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	return projects, nil
}
