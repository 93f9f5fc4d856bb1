package model

import (
	"time"

	"gorm.io/datatypes"
)

// User 사용자
type User struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	DisplayName string    `gorm:"type:varchar(100);not null" json:"display_name"`
	AvatarURL   *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	Provider    *string   `gorm:"type:varchar(50)" json:"provider,omitempty"`
	ProviderID  *string   `gorm:"type:varchar(255)" json:"provider_id,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Boards   []Board         `gorm:"foreignKey:OwnerID" json:"boards,omitempty"`
	Contents []ContentRecord `gorm:"foreignKey:OwnerID" json:"contents,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Board 캔버스 보드. Document 컬럼에 보드 문서 전체
// (아이템, 뷰, 히스토리, 스냅샷)를 jsonb로 저장한다.
type Board struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   int64          `gorm:"not null;index" json:"owner_id"`
	Title     string         `gorm:"type:varchar(200);not null;default:'Untitled'" json:"title"`
	Document  datatypes.JSON `gorm:"type:jsonb" json:"document,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Board) TableName() string {
	return "boards"
}

// 콘텐츠 종류
const (
	ContentKindText  = "TEXT"
	ContentKindImage = "IMAGE"
)

// ContentRecord 생성기(히스토리/출력) 측이 소유하는 콘텐츠 기록.
// 캔버스는 referenceId로 참조만 하며 내용을 복사하거나 수정하지 않는다.
type ContentRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   int64     `gorm:"not null;index" json:"owner_id"`
	Kind      string    `gorm:"type:varchar(20);not null;default:'TEXT'" json:"kind"`
	Title     string    `gorm:"type:varchar(200)" json:"title"`
	Summary   string    `gorm:"type:varchar(500)" json:"summary"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (ContentRecord) TableName() string {
	return "content_records"
}
