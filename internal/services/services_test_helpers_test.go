package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/anxiolytic/internal/db"
	"github.com/terraincognita07/anxiolytic/internal/models"
)

func openRepositoriesForServiceTest(t *testing.T) (*db.Repositories, models.User) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "anxiolytic-services.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repositories := db.NewRepositories(database)
	user := models.User{Email: "service@example.com", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	if err := repositories.Users.Create(&user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return repositories, user
}

func mustCreateAttack(t *testing.T, service *AttackService, userID uint, occurredAt time.Time, cause string, answers ...string) models.Attack {
	t.Helper()

	if len(answers) == 0 {
		answers = []string{"racing_heart"}
	}
	attack, err := service.Create(userID, AttackInput{
		OccurredAt: occurredAt.Format(time.RFC3339),
		Answers:    answers,
		Cause:      cause,
	}, occurredAt.Add(time.Hour), time.UTC)
	if err != nil {
		t.Fatalf("create attack at %s: %v", occurredAt.Format(time.RFC3339), err)
	}
	return attack
}
