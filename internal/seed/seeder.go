package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/pulsefeed/backend/internal/auth"
	"github.com/pulsefeed/backend/internal/logger"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev fills the development database with realistic feed data
func (s *Seeder) SeedDev() error {
	logger.Log.Info("Creating profiles...")
	profiles, err := s.seedProfiles(25)
	if err != nil {
		return fmt.Errorf("failed to seed profiles: %w", err)
	}

	logger.Log.Info("Creating posts...")
	posts, err := s.seedPosts(profiles, 300)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	logger.Log.Info("Creating likes...")
	if err := s.seedLikes(profiles, posts, 800); err != nil {
		return fmt.Errorf("failed to seed likes: %w", err)
	}

	logger.Log.Info("Seeding complete",
		zap.Int("profiles", len(profiles)),
		zap.Int("posts", len(posts)))
	return nil
}

// SeedTest seeds a small fixed cast for end-to-end testing
func (s *Seeder) SeedTest() error {
	specs := []struct {
		username string
		email    string
	}{
		{"alice", "alice@example.com"},
		{"bob", "bob@example.com"},
		{"charlie", "charlie@example.com"},
	}

	var profiles []models.Profile
	for _, spec := range specs {
		var profile models.Profile
		err := s.db.Where("username = ? OR email = ?", spec.username, spec.email).First(&profile).Error
		if err == nil {
			profiles = append(profiles, profile)
			continue
		}

		hash, err := auth.HashPassword("password123")
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		profile = models.Profile{
			Username:     spec.username,
			Email:        spec.email,
			PasswordHash: &hash,
		}
		if err := s.db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create profile %s: %w", spec.username, err)
		}
		profiles = append(profiles, profile)
	}

	_, err := s.seedPosts(profiles, 30)
	return err
}

// seedProfiles creates n fake profiles with usable credentials
func (s *Seeder) seedProfiles(n int) ([]models.Profile, error) {
	hash, err := auth.HashPassword("password123")
	if err != nil {
		return nil, err
	}

	profiles := make([]models.Profile, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s%d", gofakeit.Username(), i)
		if len(username) > validation.MaxUsernameLength {
			username = username[:validation.MaxUsernameLength]
		}

		profile := models.Profile{
			Username:     username,
			Email:        fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			PasswordHash: &hash,
			CreatedAt:    gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()),
		}
		if err := s.db.Create(&profile).Error; err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// seedPosts creates n posts spread across the given profiles, timestamped
// over the last month so the feed paginates realistically.
func (s *Seeder) seedPosts(profiles []models.Profile, n int) ([]models.Post, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profiles to author posts")
	}

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := profiles[rand.Intn(len(profiles))]
		content := gofakeit.Sentence(rand.Intn(20) + 3)
		if len([]rune(content)) > validation.MaxContentLength {
			content = string([]rune(content)[:validation.MaxContentLength])
		}

		createdAt := gofakeit.DateRange(time.Now().AddDate(0, -1, 0), time.Now())
		post := models.Post{
			AuthorID:  author.ID,
			Content:   content,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// seedLikes creates up to n likes; collisions with the uniqueness constraint
// are skipped rather than retried.
func (s *Seeder) seedLikes(profiles []models.Profile, posts []models.Post, n int) error {
	if len(profiles) == 0 || len(posts) == 0 {
		return nil
	}

	created := 0
	for i := 0; i < n; i++ {
		like := models.Like{
			PostID: posts[rand.Intn(len(posts))].ID,
			UserID: profiles[rand.Intn(len(profiles))].ID,
		}
		if err := s.db.Create(&like).Error; err != nil {
			continue
		}
		created++
	}

	logger.Log.Info("Likes created", zap.Int("count", created))
	return nil
}
