// scripts/seed.go
//
// 開発用の初期データ投入スクリプト。
//
//	DATABASE_URL=postgres://... go run ./scripts
package main

import (
	"log/slog"
	"os"

	"go_5_read_keep/internal/config"
	"go_5_read_keep/internal/model"
	"go_5_read_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.LoadConfig("./configs"); err != nil {
		logger.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		logger.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.StudentBook{},
		&model.Assignment{},
		&model.Recap{},
		&model.Streak{},
		&model.BonusTransaction{},
		&model.Goal{},
		&model.ActionLog{},
	); err != nil {
		logger.Error("Error migrating database schema", slog.Any("error", err))
		os.Exit(1)
	}

	if err := seed(db); err != nil {
		logger.Error("Error seeding data", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Seed completed")
}

func seed(db *gorm.DB) error {
	mentorName := "管理者"
	mentor := &model.User{
		UserID:      uuid.New(),
		Identity:    "mentor-001",
		Role:        model.RoleMentor,
		DisplayName: &mentorName,
		Timezone:    config.Cfg.App.DefaultTimezone,
	}
	// メンターは identity 固定で冪等に作成する
	if err := db.Where(model.User{Identity: mentor.Identity}).FirstOrCreate(mentor).Error; err != nil {
		return err
	}

	books := []model.Book{
		{
			BookID:     uuid.New(),
			Title:      "はてしない物語",
			Author:     "ミヒャエル・エンデ",
			Category:   "ファンタジー",
			Difficulty: 3,
			CreatedBy:  &mentor.UserID,
		},
		{
			BookID:     uuid.New(),
			Title:      "星の王子さま",
			Author:     "サン＝テグジュペリ",
			Category:   "児童文学",
			Difficulty: 2,
			CreatedBy:  &mentor.UserID,
		},
		{
			BookID:     uuid.New(),
			Title:      "君たちはどう生きるか",
			Author:     "吉野源三郎",
			Category:   "教養",
			Difficulty: 4,
			CreatedBy:  &mentor.UserID,
		},
	}
	for i := range books {
		if err := db.Where(model.Book{Title: books[i].Title, Author: books[i].Author}).
			FirstOrCreate(&books[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
