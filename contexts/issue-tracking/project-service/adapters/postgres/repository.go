package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"entomophage/contexts/issue-tracking/project-service/domain/entities"
	domainerrors "entomophage/contexts/issue-tracking/project-service/domain/errors"
	syncv1 "entomophage/contracts/sync/v1"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Models lists the tables owned by this adapter for schema migration.
func Models() []any {
	return []any{&projectModel{}}
}

func (r *Repository) GetProject(ctx context.Context, ref syncv1.ProjectRef) (entities.Project, error) {
	var row projectModel
	err := r.db.WithContext(ctx).
		Where("owner = ? AND name = ?", ref.Owner, ref.Name).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Project{}, domainerrors.ErrProjectNotFound
		}
		return entities.Project{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateProject(ctx context.Context, project entities.Project) error {
	row := projectModelFromEntity(project)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrProjectAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repository) SaveProject(ctx context.Context, project entities.Project) error {
	row := projectModelFromEntity(project)
	result := r.db.WithContext(ctx).
		Model(&projectModel{}).
		Where("owner = ? AND name = ?", project.Owner, project.Name).
		Select("website", "description", "license", "contributors", "team_name", "issue_ids", "updated_at").
		Updates(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProjectNotFound
	}
	return nil
}

func (r *Repository) DeleteProject(ctx context.Context, ref syncv1.ProjectRef) error {
	result := r.db.WithContext(ctx).
		Where("owner = ? AND name = ?", ref.Owner, ref.Name).
		Delete(&projectModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProjectNotFound
	}
	return nil
}

func (r *Repository) ListProjectsByTeam(ctx context.Context, teamName string) ([]entities.Project, error) {
	var rows []projectModel
	if err := r.db.WithContext(ctx).
		Where("team_name = ?", teamName).
		Order("owner ASC, name ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Project, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) RenameTeam(ctx context.Context, oldName string, newName string) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&projectModel{}).
		Where("team_name = ?", oldName).
		Updates(map[string]any{
			"team_name":  newName,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		r.logger.Error("project team rename failed",
			"event", "issues_project_team_rename_failed",
			"module", "issue-tracking/project-service",
			"layer", "adapter",
			"old_name", oldName,
			"error", result.Error.Error(),
		)
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

type projectModel struct {
	Owner        string    `gorm:"column:owner;primaryKey"`
	Name         string    `gorm:"column:name;primaryKey"`
	Website      string    `gorm:"column:website"`
	Description  string    `gorm:"column:description"`
	License      string    `gorm:"column:license"`
	Contributors []string  `gorm:"column:contributors;serializer:json"`
	TeamName     string    `gorm:"column:team_name;index"`
	IssueIDs     []string  `gorm:"column:issue_ids;serializer:json"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (projectModel) TableName() string {
	return "projects"
}

func (m projectModel) toEntity() entities.Project {
	return entities.Project{
		Owner:        m.Owner,
		Name:         m.Name,
		Website:      m.Website,
		Description:  m.Description,
		License:      m.License,
		Contributors: append([]string{}, m.Contributors...),
		TeamName:     m.TeamName,
		IssueIDs:     append([]string{}, m.IssueIDs...),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func projectModelFromEntity(project entities.Project) projectModel {
	return projectModel{
		Owner:        project.Owner,
		Name:         project.Name,
		Website:      project.Website,
		Description:  project.Description,
		License:      project.License,
		Contributors: append([]string{}, project.Contributors...),
		TeamName:     project.TeamName,
		IssueIDs:     append([]string{}, project.IssueIDs...),
		CreatedAt:    project.CreatedAt.UTC(),
		UpdatedAt:    project.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
