package donation

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
	donationIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	QueryDonationsFunc = queryDonations
	DetailDonationFunc = detailDonation
	CreateDonationFunc = createDonation
	DeleteDonationFunc = deleteDonation
)

func queryDonations(ctx context.Context, query *DonationQuery, sec *session.Context) ([]Donation, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	q := db.Model(&Donation{})
	if query.DonorUID != "" {
		q = q.Where("donor_uid = ?", query.DonorUID)
	}
	if query.Type != "" {
		q = q.Where("type = ?", query.Type)
	}
	var donations []Donation
	if err := q.Order("received_at DESC").Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func detailDonation(ctx context.Context, id types.ID, sec *session.Context) (*Donation, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	record := Donation{ID: id}
	if err := db.First(&record, &record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func createDonation(ctx context.Context, creation *DonationCreation, sec *session.Context) (*Donation, error) {
	record := Donation{
		ID:            common.NextId(donationIdWorker),
		DonorUID:      creation.DonorUID,
		DonorName:     creation.DonorName,
		Type:          creation.Type,
		Amount:        creation.Amount,
		Currency:      creation.Currency,
		Description:   creation.Description,
		ReceivedAt:    creation.ReceivedAt,
		RecordedByUID: sec.Identity.UID,
		CreateTime:    time.Now().Round(time.Millisecond),
	}

	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// donation records are append-only apart from corrections by deletion
func deleteDonation(ctx context.Context, id types.ID, sec *session.Context) error {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	return db.Delete(&Donation{ID: id}).Error
}
