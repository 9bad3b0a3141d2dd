package invitation

import (
	"context"
	"fiji/account"
	"fiji/authority"
	"fiji/bizerror"
	"fiji/common"
	"fiji/persistence"
	"fiji/role"
	"fiji/session"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

const InvitationValidDuration = 7 * 24 * time.Hour

var (
	invitationIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	QueryInvitationsFunc = queryInvitations
	CreateInvitationFunc = createInvitation
	RevokeInvitationFunc = revokeInvitation
	AcceptInvitationFunc = acceptInvitation
)

func queryInvitations(ctx context.Context, sec *session.Context) ([]Invitation, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	var invitations []Invitation
	if err := db.Order("create_time DESC").Find(&invitations).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range invitations {
		if invitations[i].Status == StatusPending && now.After(invitations[i].ExpireTime) {
			invitations[i].Status = StatusExpired
		}
	}
	return invitations, nil
}

func createInvitation(ctx context.Context, creation *InvitationCreation, sec *session.Context) (*InvitationCreationResult, error) {
	for _, roleName := range creation.AssignedRoleIds {
		if err := role.ValidateRoleName(roleName); err != nil {
			return nil, &bizerror.ErrBadParam{Cause: err}
		}
	}

	now := time.Now().Round(time.Millisecond)
	record := Invitation{
		ID:              common.NextId(invitationIdWorker),
		Email:           creation.Email,
		Token:           uuid.New().String(),
		AssignedRoleIds: authority.RoleNames(creation.AssignedRoleIds),
		Status:          StatusPending,
		CreatedByUID:    sec.Identity.UID,
		CreateTime:      now,
		ExpireTime:      now.Add(InvitationValidDuration),
	}

	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &InvitationCreationResult{Invitation: record, Token: record.Token}, nil
}

func revokeInvitation(ctx context.Context, id types.ID, sec *session.Context) error {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	query := db.Model(&Invitation{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", StatusRevoked)
	if query.Error != nil {
		return query.Error
	}
	if query.RowsAffected == 0 {
		return bizerror.ErrRecordNotFound
	}
	return nil
}

// acceptInvitation redeems an invitation token and provisions the user profile
// with the roles the inviter assigned. The token is single-use, the guarded
// status update closes the race of two concurrent acceptances.
func acceptInvitation(ctx context.Context, acceptance *InvitationAcceptance) (*account.UserInfo, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)

	record := Invitation{}
	if err := db.Where("token = ?", acceptance.Token).First(&record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrRecordNotFound
		}
		return nil, err
	}
	if record.Status != StatusPending {
		return nil, bizerror.ErrRecordNotFound
	}
	if time.Now().After(record.ExpireTime) {
		if err := db.Model(&Invitation{ID: record.ID}).Update("status", StatusExpired).Error; err != nil {
			return nil, err
		}
		return nil, bizerror.ErrRecordNotFound
	}

	now := time.Now().Round(time.Millisecond)
	user := account.User{
		UID:             acceptance.UID,
		Email:           record.Email,
		FirstName:       acceptance.FirstName,
		LastName:        acceptance.LastName,
		AssignedRoleIds: record.AssignedRoleIds,
		Status:          account.StatusActive,
		CreateTime:      now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&Invitation{}).
			Where("id = ? AND status = ?", record.ID, StatusPending).
			Updates(map[string]interface{}{"status": StatusAccepted, "accepted_at": &now, "accepted_uid": acceptance.UID})
		if query.Error != nil {
			return query.Error
		}
		if query.RowsAffected == 0 {
			return bizerror.ErrRecordNotFound
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	return &account.UserInfo{UID: user.UID, Email: user.Email, FirstName: user.FirstName,
		LastName: user.LastName, AssignedRoleIds: user.AssignedRoleIds, Status: user.Status}, nil
}
