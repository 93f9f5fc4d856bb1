package auth

import "gorm.io/gorm"

// CanAccessBoard 보드 접근 권한 확인. 현재는 소유자 단독 모델이다
// (보드 공유/협업은 범위 밖).
func CanAccessBoard(db *gorm.DB, boardID, userID int64) (bool, error) {
	var ownerID int64
	if err := db.Table("boards").Where("id = ?", boardID).Select("owner_id").Scan(&ownerID).Error; err != nil {
		return false, err
	}
	return ownerID == userID, nil
}

// CanAccessContent 콘텐츠 기록 접근 권한 확인 (소유자 단독)
func CanAccessContent(db *gorm.DB, contentID, userID int64) (bool, error) {
	var ownerID int64
	if err := db.Table("content_records").Where("id = ?", contentID).Select("owner_id").Scan(&ownerID).Error; err != nil {
		return false, err
	}
	return ownerID == userID, nil
}
