package services

import (
	"fmt"
	"testing"
	"time"

	"academic-registry-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database migrated with the full
// schema. One connection only, so every query sees the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

type testEnv struct {
	db          *gorm.DB
	identity    *IdentityService
	governance  *GovernanceService
	papers      *PaperService
	datasets    *DatasetService
	submissions *SubmissionService
	journals    *JournalService
	wallet      *WalletService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	identity := NewIdentityService(db)
	submissions := NewSubmissionService(db)
	return &testEnv{
		db:          db,
		identity:    identity,
		governance:  NewGovernanceService(db),
		papers:      NewPaperService(db),
		datasets:    NewDatasetService(db),
		submissions: submissions,
		journals:    NewJournalService(db, submissions, identity),
		wallet:      NewWalletService(db),
	}
}

var testUserSeq int

// newUser inserts a user row and returns its caller context.
func newUser(t *testing.T, db *gorm.DB, roleID int) Caller {
	t.Helper()
	testUserSeq++
	now := time.Now()
	user := models.User{
		FullName: "Test User",
		Email:    fmt.Sprintf("user%d@example.org", testUserSeq),
		Password: "irrelevant",
		RoleID:   roleID,
		CreateAt: &now,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return Caller{UserID: user.UserID, RoleID: roleID}
}

func newMember(t *testing.T, db *gorm.DB) Caller { return newUser(t, db, models.RoleMember) }
func newAdmin(t *testing.T, db *gorm.DB) Caller  { return newUser(t, db, models.RoleAdmin) }

// fund credits a user's balance directly.
func fund(t *testing.T, db *gorm.DB, userID int, amount int64) {
	t.Helper()
	if err := db.Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
		t.Fatalf("fund user %d: %v", userID, err)
	}
}

func balanceOf(t *testing.T, db *gorm.DB, userID int) int64 {
	t.Helper()
	var user models.User
	if err := db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		t.Fatalf("load user %d: %v", userID, err)
	}
	return user.Balance
}

func countEvents(t *testing.T, db *gorm.DB, name string) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.DomainEvent{}).Where("event_name = ?", name).Count(&count).Error; err != nil {
		t.Fatalf("count events %s: %v", name, err)
	}
	return count
}

func wantKind(t *testing.T, err error, kind ErrorKind, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", msg)
	}
	if KindOf(err) != kind {
		t.Fatalf("expected kind %d for %q, got %d (%v)", kind, msg, KindOf(err), err)
	}
	if err.Error() != msg {
		t.Fatalf("expected message %q, got %q", msg, err.Error())
	}
}
