package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"entomophage/contexts/identity-access/user-service/domain/entities"
	domainerrors "entomophage/contexts/identity-access/user-service/domain/errors"
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
	return []any{&userModel{}, &teamModel{}}
}

func (r *Repository) GetUser(ctx context.Context, username string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateUser(ctx context.Context, user entities.User) error {
	row := userModelFromEntity(user)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repository) SaveUser(ctx context.Context, user entities.User) error {
	row := userModelFromEntity(user)
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("username = ?", user.Username).
		Select("email", "name", "team_name", "projects", "updated_at").
		Updates(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *Repository) DeleteUser(ctx context.Context, username string) error {
	result := r.db.WithContext(ctx).
		Where("username = ?", username).
		Delete(&userModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *Repository) ListUsersByTeam(ctx context.Context, teamName string) ([]entities.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).
		Where("team_name = ?", teamName).
		Order("username ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.User, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetTeam(ctx context.Context, name string) (entities.Team, error) {
	var row teamModel
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Team{}, domainerrors.ErrTeamNotFound
		}
		return entities.Team{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateTeam(ctx context.Context, team entities.Team) error {
	row := teamModelFromEntity(team)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrTeamAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repository) SaveTeam(ctx context.Context, team entities.Team) error {
	row := teamModelFromEntity(team)
	result := r.db.WithContext(ctx).
		Model(&teamModel{}).
		Where("name = ?", team.Name).
		Select("leader", "website", "members", "projects", "updated_at").
		Updates(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTeamNotFound
	}
	return nil
}

// RenameTeam swaps the primary key inside one transaction.
func (r *Repository) RenameTeam(ctx context.Context, oldName string, team entities.Team) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("name = ?", oldName).Delete(&teamModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrTeamNotFound
		}
		row := teamModelFromEntity(team)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrTeamAlreadyExists
			}
			return err
		}
		return nil
	})
}

func (r *Repository) DeleteTeam(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).
		Where("name = ?", name).
		Delete(&teamModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTeamNotFound
	}
	return nil
}

type userModel struct {
	Username  string              `gorm:"column:username;primaryKey"`
	Email     string              `gorm:"column:email"`
	Name      string              `gorm:"column:name"`
	TeamName  string              `gorm:"column:team_name;index"`
	Projects  []syncv1.ProjectRef `gorm:"column:projects;serializer:json"`
	CreatedAt time.Time           `gorm:"column:created_at"`
	UpdatedAt time.Time           `gorm:"column:updated_at"`
}

func (userModel) TableName() string {
	return "users"
}

func (m userModel) toEntity() entities.User {
	projects := m.Projects
	if projects == nil {
		projects = []syncv1.ProjectRef{}
	}
	return entities.User{
		Username:  m.Username,
		Email:     m.Email,
		Name:      m.Name,
		TeamName:  m.TeamName,
		Projects:  projects,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func userModelFromEntity(user entities.User) userModel {
	projects := user.Projects
	if projects == nil {
		projects = []syncv1.ProjectRef{}
	}
	return userModel{
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		TeamName:  user.TeamName,
		Projects:  projects,
		CreatedAt: user.CreatedAt.UTC(),
		UpdatedAt: user.UpdatedAt.UTC(),
	}
}

type teamModel struct {
	Name      string    `gorm:"column:name;primaryKey"`
	Leader    string    `gorm:"column:leader"`
	Website   string    `gorm:"column:website"`
	Members   []string  `gorm:"column:members;serializer:json"`
	Projects  []string  `gorm:"column:projects;serializer:json"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (teamModel) TableName() string {
	return "teams"
}

func (m teamModel) toEntity() entities.Team {
	return entities.Team{
		Name:      m.Name,
		Leader:    m.Leader,
		Website:   m.Website,
		Members:   append([]string{}, m.Members...),
		Projects:  append([]string{}, m.Projects...),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func teamModelFromEntity(team entities.Team) teamModel {
	return teamModel{
		Name:      team.Name,
		Leader:    team.Leader,
		Website:   team.Website,
		Members:   append([]string{}, team.Members...),
		Projects:  append([]string{}, team.Projects...),
		CreatedAt: team.CreatedAt.UTC(),
		UpdatedAt: team.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
