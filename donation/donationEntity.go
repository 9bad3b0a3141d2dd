package donation

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

const TypeMonetary = "monetary"
const TypeInKind = "in_kind"

type Donation struct {
	ID            types.ID  `json:"id" gorm:"primary_key"`
	DonorUID      string    `json:"donorUid" gorm:"size:128;index"`
	DonorName     string    `json:"donorName" gorm:"size:128"`
	Type          string    `json:"type" gorm:"size:32"`
	Amount        float64   `json:"amount" gorm:"type:decimal(12,2)"`
	Currency      string    `json:"currency" gorm:"size:8"`
	Description   string    `json:"description" gorm:"type:text"`
	ReceivedAt    time.Time `json:"receivedAt"`
	RecordedByUID string    `json:"recordedByUid" gorm:"size:128"`
	CreateTime    time.Time `json:"createTime"`
}

type DonationCreation struct {
	DonorUID    string    `json:"donorUid" validate:"omitempty,lte=128"`
	DonorName   string    `json:"donorName" validate:"required,lte=128"`
	Type        string    `json:"type" validate:"required,oneof=monetary in_kind"`
	Amount      float64   `json:"amount" validate:"omitempty,gte=0"`
	Currency    string    `json:"currency" validate:"omitempty,lte=8"`
	Description string    `json:"description"`
	ReceivedAt  time.Time `json:"receivedAt" validate:"required"`
}

type DonationQuery struct {
	DonorUID string `form:"donorUid"`
	Type     string `form:"type"`
}
