package workgroup

import (
	"context"
	"fiji/bizerror"
	"fiji/common"
	"fiji/persistence"
	"fiji/session"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	groupIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	QueryWorkingGroupsFunc = queryWorkingGroups
	DetailWorkingGroupFunc = detailWorkingGroup
	CreateWorkingGroupFunc = createWorkingGroup
	UpdateWorkingGroupFunc = updateWorkingGroup
	DeleteWorkingGroupFunc = deleteWorkingGroup
)

func queryWorkingGroups(ctx context.Context, sec *session.Context) ([]WorkingGroup, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	var groups []WorkingGroup
	if err := db.Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func detailWorkingGroup(ctx context.Context, id types.ID, sec *session.Context) (*WorkingGroup, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	record := WorkingGroup{ID: id}
	if err := db.First(&record, &record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func createWorkingGroup(ctx context.Context, creation *WorkingGroupCreation, sec *session.Context) (*WorkingGroup, error) {
	now := time.Now().Round(time.Millisecond)
	lead := creation.LeadUID
	if lead == "" {
		lead = sec.Identity.UID
	}
	record := WorkingGroup{
		ID:          common.NextId(groupIdWorker),
		Name:        creation.Name,
		Description: creation.Description,
		LeadUID:     lead,
		MemberUids:  MemberList(creation.MemberUids),
		CreateTime:  now,
		UpdateTime:  now,
	}

	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func updateWorkingGroup(ctx context.Context, id types.ID, updating *WorkingGroupUpdating, sec *session.Context) (*WorkingGroup, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	record := WorkingGroup{ID: id}
	if err := db.First(&record, &record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrRecordNotFound
		}
		return nil, err
	}

	changes := map[string]interface{}{
		"name":        updating.Name,
		"description": updating.Description,
		"member_uids": MemberList(updating.MemberUids),
		"update_time": time.Now().Round(time.Millisecond),
	}
	if updating.LeadUID != "" {
		changes["lead_uid"] = updating.LeadUID
	}
	if err := db.Model(&WorkingGroup{ID: id}).Updates(changes).Error; err != nil {
		return nil, err
	}

	updated := WorkingGroup{ID: id}
	if err := db.First(&updated, &updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

func deleteWorkingGroup(ctx context.Context, id types.ID, sec *session.Context) error {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	return db.Delete(&WorkingGroup{ID: id}).Error
}
