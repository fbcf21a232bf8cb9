package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/anxiolytic/internal/models"
)

func TestOpenSQLiteCreatesCaseInsensitiveUserEmailUniqueIndex(t *testing.T) {
	database := openSQLiteForMigrationBootstrapTest(t, filepath.Join(t.TempDir(), "anxiolytic-email-index.db"))

	firstUser := models.User{
		Email:        "QA-Test2@Anxiolytic.Local",
		PasswordHash: "hash-1",
		CreatedAt:    time.Now().UTC(),
	}
	if err := database.Create(&firstUser).Error; err != nil {
		t.Fatalf("create first user: %v", err)
	}

	secondUser := models.User{
		Email:        "qa-test2@anxiolytic.local",
		PasswordHash: "hash-2",
		CreatedAt:    time.Now().UTC(),
	}
	if err := database.Create(&secondUser).Error; err == nil {
		t.Fatalf("expected duplicate normalized email insert to fail")
	}
}
