package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"canvas-backend/internal/canvas"
)

// 보드 문서(jsonb)의 상태를 점검하는 운영용 도구.
// 인자 없이 실행하면 테이블 통계, 보드 ID를 주면 해당 문서를 해부한다.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_NAME", "canvas_studio"),
		getEnv("DB_SSLMODE", "disable"),
		getEnv("DB_TIMEZONE", "UTC"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	fmt.Println("✅ Connected to database")
	fmt.Println()

	if len(os.Args) > 1 {
		inspectBoard(db, os.Args[1])
		return
	}

	// 테이블 통계
	type TableStats struct {
		Users    int64
		Boards   int64
		Contents int64
		Empty    int64
	}
	var stats TableStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) as users,
			(SELECT COUNT(*) FROM boards) as boards,
			(SELECT COUNT(*) FROM content_records) as contents,
			(SELECT COUNT(*) FROM boards WHERE document IS NULL) as empty
	`
	if err := db.Raw(query).Scan(&stats).Error; err != nil {
		log.Fatal("Failed to get statistics:", err)
	}

	fmt.Println("📈 Table Statistics:")
	fmt.Printf("  - Users: %d\n", stats.Users)
	fmt.Printf("  - Boards: %d (%d without a saved document)\n", stats.Boards, stats.Empty)
	fmt.Printf("  - Contents: %d\n", stats.Contents)
	fmt.Println()

	// 최근 보드
	type BoardInfo struct {
		ID        int64
		OwnerID   int64
		Title     string
		DocSize   *int64
		UpdatedAt string
	}
	var boards []BoardInfo
	query = `
		SELECT id, owner_id, title, octet_length(document::text) as doc_size, updated_at
		FROM boards
		ORDER BY updated_at DESC
		LIMIT 10
	`
	if err := db.Raw(query).Scan(&boards).Error; err != nil {
		log.Fatal("Failed to get recent boards:", err)
	}

	fmt.Println("🗂 Recent Boards (last 10):")
	for _, b := range boards {
		size := int64(0)
		if b.DocSize != nil {
			size = *b.DocSize
		}
		fmt.Printf("  - ID: %d, Owner: %d, Title: %q, Document: %d bytes\n",
			b.ID, b.OwnerID, b.Title, size)
	}
}

// inspectBoard 보드 문서를 파싱해 아이템/히스토리/스냅샷 상태를 출력한다
func inspectBoard(db *gorm.DB, boardID string) {
	var raw []byte
	if err := db.Raw("SELECT document FROM boards WHERE id = ?", boardID).Scan(&raw).Error; err != nil {
		log.Fatal("Failed to load board:", err)
	}
	if len(raw) == 0 {
		fmt.Printf("📋 Board %s has no saved document yet\n", boardID)
		return
	}

	var doc canvas.BoardDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Fatal("Failed to parse board document:", err)
	}

	fmt.Printf("📋 Board %s:\n", boardID)
	fmt.Printf("  - Items: %d\n", len(doc.Items))
	byKind := map[canvas.ItemKind]int{}
	for _, it := range doc.Items {
		byKind[it.Kind]++
	}
	for kind, n := range byKind {
		fmt.Printf("      %s: %d\n", kind, n)
	}
	fmt.Printf("  - View: offset=(%.1f, %.1f), zoom=%.2f\n", doc.View.Offset.X, doc.View.Offset.Y, doc.View.Zoom)
	if doc.History != nil {
		fmt.Printf("  - History: %d entries, cursor at %d\n", len(doc.History.Entries), doc.History.Index)
	} else {
		fmt.Println("  - History: none (legacy document)")
	}
	fmt.Printf("  - Snapshots: %d\n", len(doc.Snapshots))
	for _, s := range doc.Snapshots {
		fmt.Printf("      %q (%d items, saved %s)\n", s.Name, len(s.State.Items), s.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
