package db

import (
	"context"
	"errors"
	"time"

	"Gin_postgres_redis_carnival_tool/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTeamNotFound = errors.New("team not found")
var ErrAlreadyOnAnotherTeam = errors.New("user already on a team for this event")

// 建队：队伍 + 队长成员记录一个事务写入。
// 队长自己已经在该活动别的队里 → (event_id, user_id) 唯一索引挡下来
func (r *Repo) CreateTeam(ctx context.Context, eventID, name, leaderID string) (*models.Team, error) {
	var team *models.Team
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev models.Event
		if err := tx.First(&ev, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		t := &models.Team{
			ID:       uuid.NewString(),
			EventID:  eventID,
			Name:     name,
			LeaderID: leaderID,
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}

		m := &models.TeamMember{
			ID:       uuid.NewString(),
			TeamID:   t.ID,
			UserID:   leaderID,
			EventID:  eventID,
			Role:     models.RoleLeader,
			JoinedAt: time.Now().UTC(),
		}
		if err := tx.Create(m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyOnAnotherTeam
			}
			return err
		}
		team = t
		return nil
	})
	return team, err
}

func (r *Repo) FindTeamByID(ctx context.Context, id string) (*models.Team, error) {
	var t models.Team
	if err := r.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

// 我在某活动的队伍（通过成员表找）
func (r *Repo) FindTeamForUser(ctx context.Context, eventID, userID string) (*models.Team, error) {
	var m models.TeamMember
	err := r.DB.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return r.FindTeamByID(ctx, m.TeamID)
}

func (r *Repo) ListTeamMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	var ms []models.TeamMember
	err := r.DB.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("joined_at ASC").
		Find(&ms).Error
	return ms, err
}

func (r *Repo) IsTeamMember(ctx context.Context, teamID, userID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *Repo) ListMyTeams(ctx context.Context, userID string) ([]models.Team, error) {
	var ts []models.Team
	err := r.DB.WithContext(ctx).
		Joins("JOIN "+models.TeamMemberTable+" m ON m.team_id = "+models.TeamTable+".id").
		Where("m.user_id = ?", userID).
		Order(models.TeamTable + ".created_at DESC").
		Find(&ts).Error
	return ts, err
}
