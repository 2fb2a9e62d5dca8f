package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"Gin_postgres_redis_carnival_tool/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 邀请流程的错误字典，controller 按这些映射 HTTP 状态码
var (
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrNotLeader           = errors.New("only the team leader can do this")
	ErrNotInvitee          = errors.New("invitation is for a different email")
	ErrAlreadyProcessed    = errors.New("invitation already processed")
	ErrAlreadyMember       = errors.New("user is already a team member")
	ErrDuplicateInvitation = errors.New("a pending invitation already exists")
	ErrInvitationExpired   = errors.New("invitation expired")
	ErrBadResponse         = errors.New("response must be accepted or declined")
)

// CreateInvitation 队长给邮箱发邀请。
// 预检查给出友好错误；并发下真正兜底的是 one_pending 部分唯一索引
func (r *Repo) CreateInvitation(ctx context.Context, teamID, inviteeEmail, actingUserID string) (*models.TeamInvitation, error) {
	email := strings.ToLower(strings.TrimSpace(inviteeEmail))

	team, err := r.FindTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != actingUserID {
		return nil, ErrNotLeader
	}

	// 已经是本队成员（邀请按邮箱发，先解析成账号再查成员表）
	if u, err := r.FindUserByEmail(ctx, email); err == nil {
		ok, err := r.IsTeamMember(ctx, teamID, u.ID)
		if err != nil {
			return nil, err
		}
		if ok {
			return nil, ErrAlreadyMember
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.TeamInvitation{}).
		Where("team_id = ? AND invitee_email = ? AND status = ?", teamID, email, models.InvitationPending).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrDuplicateInvitation
	}

	now := time.Now().UTC()
	inv := &models.TeamInvitation{
		ID:           uuid.NewString(),
		TeamID:       team.ID,
		EventID:      team.EventID,
		InviterID:    actingUserID,
		InviteeEmail: email,
		Status:       models.InvitationPending,
		InvitedAt:    now,
		ExpiresAt:    now.Add(models.InviteTTL),
	}
	if err := r.DB.WithContext(ctx).Create(inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateInvitation
		}
		return nil, err
	}
	return inv, nil
}

func (r *Repo) FindInvitationByID(ctx context.Context, id string) (*models.TeamInvitation, error) {
	var inv models.TeamInvitation
	if err := r.DB.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// RespondToInvitation 被邀请人接受/拒绝。
// 状态翻转和入队写在同一个事务里：入队撞了 (event_id, user_id)
// 唯一索引就整体回滚，邀请保持 pending，不会出现"accepted 却没入队"
func (r *Repo) RespondToInvitation(ctx context.Context, invitationID, response, actingUserID, actingUserEmail string) (*models.TeamInvitation, error) {
	if response != models.InvitationAccepted && response != models.InvitationDeclined {
		return nil, ErrBadResponse
	}
	email := strings.ToLower(strings.TrimSpace(actingUserEmail))

	var out *models.TeamInvitation
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.TeamInvitation
		if err := tx.First(&inv, "id = ?", invitationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvitationNotFound
			}
			return err
		}
		// 响应之前邀请只认邮箱，不认账号
		if inv.InviteeEmail != email {
			return ErrNotInvitee
		}
		if inv.Status != models.InvitationPending {
			return ErrAlreadyProcessed
		}
		now := time.Now().UTC()
		if inv.Expired(now) {
			return ErrInvitationExpired
		}

		// 条件更新 + RowsAffected 防并发双响应
		res := tx.Model(&models.TeamInvitation{}).
			Where("id = ? AND status = ?", inv.ID, models.InvitationPending).
			Updates(map[string]interface{}{
				"status":       response,
				"responded_at": &now,
				"invitee_id":   actingUserID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		if response == models.InvitationAccepted {
			m := &models.TeamMember{
				ID:       uuid.NewString(),
				TeamID:   inv.TeamID,
				UserID:   actingUserID,
				EventID:  inv.EventID,
				Role:     models.RoleMember,
				JoinedAt: now,
			}
			if err := tx.Create(m).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrAlreadyOnAnotherTeam
				}
				return err
			}
		}

		inv.Status = response
		inv.RespondedAt = &now
		inv.InviteeID = &actingUserID
		out = &inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WithdrawInvitation 撤回。权限看的是队长，不是当初发邀请的人
func (r *Repo) WithdrawInvitation(ctx context.Context, invitationID, actingUserID string) (*models.TeamInvitation, error) {
	inv, err := r.FindInvitationByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	team, err := r.FindTeamByID(ctx, inv.TeamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != actingUserID {
		return nil, ErrNotLeader
	}
	if inv.Status != models.InvitationPending {
		return nil, ErrAlreadyProcessed
	}

	res := r.DB.WithContext(ctx).Model(&models.TeamInvitation{}).
		Where("id = ? AND status = ?", inv.ID, models.InvitationPending).
		Update("status", models.InvitationWithdrawn)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyProcessed
	}

	inv.Status = models.InvitationWithdrawn
	return inv, nil
}

// 我（按邮箱）收到的待处理邀请；过期的直接过滤掉，不改状态
func (r *Repo) ListPendingInvitationsForEmail(ctx context.Context, email string) ([]models.TeamInvitation, error) {
	var invs []models.TeamInvitation
	err := r.DB.WithContext(ctx).
		Where("invitee_email = ? AND status = ? AND expires_at > ?",
			strings.ToLower(strings.TrimSpace(email)), models.InvitationPending, time.Now().UTC()).
		Order("invited_at DESC").
		Find(&invs).Error
	return invs, err
}

// 队长视角：本队所有邀请（含终态的，前端标注过期）
func (r *Repo) ListTeamInvitations(ctx context.Context, teamID string) ([]models.TeamInvitation, error) {
	var invs []models.TeamInvitation
	err := r.DB.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("invited_at DESC").
		Find(&invs).Error
	return invs, err
}
