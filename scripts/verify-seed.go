package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pulsefeed/backend/internal/database"
	"github.com/pulsefeed/backend/internal/models"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Initialize database connection
	if err := database.Initialize(); err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	fmt.Println("🔍 Verifying seed data...")
	fmt.Println()

	// Count records
	var profileCount, postCount, likeCount int64
	database.DB.Model(&models.Profile{}).Count(&profileCount)
	database.DB.Model(&models.Post{}).Count(&postCount)
	database.DB.Model(&models.Like{}).Count(&likeCount)

	fmt.Println("📊 Record Counts:")
	fmt.Printf("  Profiles: %d\n", profileCount)
	fmt.Printf("  Posts:    %d\n", postCount)
	fmt.Printf("  Likes:    %d\n", likeCount)
	fmt.Println()

	// Sample data
	fmt.Println("📝 Sample Data:")
	fmt.Println()

	var profiles []models.Profile
	database.DB.Limit(3).Find(&profiles)
	fmt.Println("  Sample Profiles:")
	for _, p := range profiles {
		fmt.Printf("    - @%s (created %s)\n", p.Username, p.CreatedAt.Format("2006-01-02"))
	}
	fmt.Println()

	var posts []models.Post
	database.DB.Order("created_at DESC").Limit(3).Find(&posts)
	fmt.Println("  Newest Posts:")
	for _, p := range posts {
		content := p.Content
		if len(content) > 50 {
			content = content[:50] + "..."
		}
		fmt.Printf("    - %s\n", content)
	}
	fmt.Println()

	// Verify relationships
	fmt.Println("🔗 Relationship Verification:")
	var postWithAuthor models.Post
	database.DB.Preload("Author").First(&postWithAuthor)
	if postWithAuthor.Author.ID != "" {
		fmt.Printf("  ✅ Posts have author relationships\n")
	}

	var orphanLikes int64
	database.DB.Table("likes").
		Joins("LEFT JOIN posts ON posts.id = likes.post_id").
		Where("posts.id IS NULL").
		Count(&orphanLikes)
	if orphanLikes == 0 {
		fmt.Printf("  ✅ All likes reference existing posts\n")
	} else {
		fmt.Printf("  ⚠️  %d likes reference missing posts\n", orphanLikes)
	}
	fmt.Println()

	// Export sample data as JSON for API testing
	if len(os.Args) > 1 && os.Args[1] == "--json" && len(profiles) > 0 && len(posts) > 0 {
		sampleData := map[string]interface{}{
			"user_id":  profiles[0].ID,
			"username": profiles[0].Username,
			"post_id":  posts[0].ID,
		}
		jsonData, _ := json.MarshalIndent(sampleData, "", "  ")
		fmt.Println("📋 Sample IDs for API testing:")
		fmt.Println(string(jsonData))
	}

	fmt.Println("✅ Seed data verification complete!")
}
